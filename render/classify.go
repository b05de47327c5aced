package render

import (
	"fmt"
	"reflect"
	"sync"
)

type class uint8

const (
	classFmt     class = iota // fmt.Fprint
	classNumeric              // bool/int/uint/float kind without custom formatting
	classString               // string kind without custom formatting
	classPointer              // transparent, classify the pointee
)

type typeInfo struct {
	class class
	safe  bool
}

var typeCache sync.Map // reflect.Type -> typeInfo

var (
	stringerType  = reflect.TypeFor[fmt.Stringer]()
	errorType     = reflect.TypeFor[error]()
	formatterType = reflect.TypeFor[fmt.Formatter]()
	safeType      = reflect.TypeFor[Safe]()
)

func infoOf(t reflect.Type) typeInfo {
	if v, ok := typeCache.Load(t); ok {
		return v.(typeInfo)
	}
	info := classify(t)
	typeCache.Store(t, info)
	return info
}

func classify(t reflect.Type) typeInfo {
	info := typeInfo{safe: isSafe(t)}

	// A pointer whose pointee formats itself is written through the pointee,
	// so the pointee's safety applies. Pointer-receiver formatters stay with fmt.
	if t.Kind() == reflect.Pointer {
		elem := t.Elem()
		if !formatsItself(t) || formatsItself(elem) {
			info.class = classPointer
			return info
		}
		info.safe = info.safe || isSafe(elem)
		info.class = classFmt
		return info
	}
	if formatsItself(t) {
		info.class = classFmt
		return info
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		info.class = classNumeric
	case reflect.String:
		info.class = classString
	default:
		info.class = classFmt
	}
	return info
}

func isSafe(t reflect.Type) bool {
	_, registered := safeTypes.Load(t)
	return registered || t.Implements(safeType)
}

func formatsItself(t reflect.Type) bool {
	return t.Implements(stringerType) || t.Implements(errorType) || t.Implements(formatterType)
}
