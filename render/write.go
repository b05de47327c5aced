package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/davecgh/go-spew/spew"
)

// Template is implemented by every generated template.
type Template interface {
	RenderInto(w io.Writer) error
}

// ErrFormat reports a format template that does not match its arguments.
var ErrFormat = errors.New("render: malformed format template")

type mode uint8

const (
	modeDisplay mode = iota
	modeEscape
	modeDebug
	modeVerbose
)

// Arg is one formatted argument of Writef.
type Arg struct {
	mode mode
	v    any
}

// Raw writes the display form of v without escaping: {{{ v }}}.
func Raw(v any) Arg { return Arg{mode: modeDisplay, v: v} }

// Escape writes the display form of v, escaped unless v is safe: {{ v }}.
func Escape(v any) Arg { return Arg{mode: modeEscape, v: v} }

// Debug writes the %#v form of v, always escaped: {{{{ v }}}}.
func Debug(v any) Arg { return Arg{mode: modeDebug, v: v} }

// Verbose writes a deterministic multi-line dump of v, always escaped: {{{{{ v }}}}}.
func Verbose(v any) Arg { return Arg{mode: modeVerbose, v: v} }

var verbose = spew.ConfigState{
	Indent:                  "    ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func (a Arg) writeTo(w io.Writer) error {
	switch a.mode {
	case modeEscape:
		return write(w, a.v, true)
	case modeDebug:
		return EscapeString(w, fmt.Sprintf("%#v", a.v))
	case modeVerbose:
		return EscapeString(w, strings.TrimSuffix(verbose.Sdump(a.v), "\n"))
	default:
		return write(w, a.v, false)
	}
}

func writeText(w io.Writer, s string, escape bool) error {
	if escape {
		return EscapeString(w, s)
	}
	_, err := io.WriteString(w, s)
	return err
}

// write picks the output strategy for v. Primitive types are handled by the
// type switch; other types are classified once per reflect.Type.
func write(w io.Writer, v any, escape bool) error {
	switch x := v.(type) {
	case nil:
		return writeText(w, "<nil>", escape)
	case Markup:
		return x.WriteMarkup(w)
	case Template:
		return x.RenderInto(w)
	case string:
		return writeText(w, x, escape)
	case []byte:
		if escape {
			return EscapeBytes(w, x)
		}
		_, err := w.Write(x)
		return err
	case bool:
		return writeBool(w, x)
	case int:
		return writeInt(w, int64(x))
	case int8:
		return writeInt(w, int64(x))
	case int16:
		return writeInt(w, int64(x))
	case int32:
		return writeInt(w, int64(x))
	case int64:
		return writeInt(w, x)
	case uint:
		return writeUint(w, uint64(x))
	case uint8:
		return writeUint(w, uint64(x))
	case uint16:
		return writeUint(w, uint64(x))
	case uint32:
		return writeUint(w, uint64(x))
	case uint64:
		return writeUint(w, x)
	case uintptr:
		return writeUint(w, uint64(x))
	case float32:
		return writeFloat(w, float64(x), 32)
	case float64:
		return writeFloat(w, x, 64)
	}

	rv := reflect.ValueOf(v)
	info := infoOf(rv.Type())
	if info.safe {
		escape = false
	}
	switch info.class {
	case classNumeric:
		return writeNumericValue(w, rv)
	case classString:
		return writeText(w, rv.String(), escape)
	case classPointer:
		if rv.IsNil() {
			return writeText(w, "<nil>", escape)
		}
		return write(w, rv.Elem().Interface(), escape)
	}
	if escape {
		w = NewEscapeWriter(w)
	}
	_, err := fmt.Fprint(w, v)
	return err
}

// Writef writes format to w, substituting args for "{}" placeholders and
// "{" and "}" for "{{" and "}}". Generated code builds format from the
// template's literal text.
func Writef(w io.Writer, format string, args ...Arg) error {
	next := 0
	for len(format) > 0 {
		i := strings.IndexAny(format, "{}")
		if i < 0 {
			if _, err := io.WriteString(w, format); err != nil {
				return err
			}
			break
		}
		if i > 0 {
			if _, err := io.WriteString(w, format[:i]); err != nil {
				return err
			}
		}
		if i+1 >= len(format) {
			return ErrFormat
		}
		switch format[i : i+2] {
		case "{{":
			if _, err := io.WriteString(w, "{"); err != nil {
				return err
			}
		case "}}":
			if _, err := io.WriteString(w, "}"); err != nil {
				return err
			}
		case "{}":
			if next >= len(args) {
				return ErrFormat
			}
			if err := args[next].writeTo(w); err != nil {
				return err
			}
			next++
		default:
			return ErrFormat
		}
		format = format[i+2:]
	}
	if next != len(args) {
		return ErrFormat
	}
	return nil
}

// WriteString writes literal template text.
func WriteString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// ToString renders t into a string.
func ToString(t Template) (string, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufPool.Put(buf)
	}()
	if err := t.RenderInto(buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToBytes renders t into a new byte slice.
func ToBytes(t Template) ([]byte, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufPool.Put(buf)
	}()
	if err := t.RenderInto(buf); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// String renders t for fmt.Stringer. A render error is appended in fmt's
// %!(...) style since String cannot fail.
func String(t Template) string {
	var sb strings.Builder
	if err := t.RenderInto(&sb); err != nil {
		fmt.Fprintf(&sb, "%%!(ERROR=%v)", err)
	}
	return sb.String()
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (c *countWriter) WriteString(s string) (int, error) {
	n, err := io.WriteString(c.w, s)
	c.n += int64(n)
	return n, err
}

// WriteTo renders t into w and reports the bytes written, for io.WriterTo.
func WriteTo(t Template, w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	err := t.RenderInto(cw)
	return cw.n, err
}
