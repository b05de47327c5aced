package render

import (
	"io"
	"reflect"
	"strconv"
)

func writeBool(w io.Writer, b bool) error {
	s := "false"
	if b {
		s = "true"
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeInt(w io.Writer, i int64) error {
	var buf [24]byte
	_, err := w.Write(strconv.AppendInt(buf[:0], i, 10))
	return err
}

func writeUint(w io.Writer, u uint64) error {
	var buf [24]byte
	_, err := w.Write(strconv.AppendUint(buf[:0], u, 10))
	return err
}

// writeFloat matches fmt's %v for floats.
func writeFloat(w io.Writer, f float64, bitSize int) error {
	var buf [32]byte
	_, err := w.Write(strconv.AppendFloat(buf[:0], f, 'g', -1, bitSize))
	return err
}

// writeNumericValue handles named bool and numeric types.
func writeNumericValue(w io.Writer, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Bool:
		return writeBool(w, rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return writeInt(w, rv.Int())
	case reflect.Float32:
		return writeFloat(w, rv.Float(), 32)
	case reflect.Float64:
		return writeFloat(w, rv.Float(), 64)
	default:
		return writeUint(w, rv.Uint())
	}
}
