package srcmap

import (
	"errors"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"

	"nate/internal/diag"
	"nate/internal/source"
)

// Validate parses a generated file. Syntax errors are reported as
// HostCompileErrors at the template position of the nearest preceding
// address; several errors are joined.
func Validate(name string, content []byte) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, name, content, parser.AllErrors|parser.SkipObjectResolution)
	if err == nil {
		return nil
	}
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		return &diag.HostCompileError{Code: diag.HostSyntaxError, Msg: "generated code does not parse", Err: err}
	}

	m := Parse(content)
	errs := make([]error, 0, len(list))
	for _, e := range list {
		errs = append(errs, m.hostError(name, e.Pos, e.Msg))
	}
	return errors.Join(errs...)
}

func (m *Map) hostError(name string, pos token.Position, msg string) error {
	herr := &diag.HostCompileError{
		Code: diag.HostSyntaxError,
		Msg:  fmt.Sprintf("%s (generated %s:%d:%d)", msg, source.DisplayPath(name), pos.Line, pos.Column),
	}
	if a, ok := m.Lookup(pos.Line); ok {
		herr.Pos = a.Position()
	} else {
		herr.Pos = source.Position{Path: name, LineCol: source.LineCol{Line: toU32(pos.Line), Col: toU32(pos.Column)}}
	}
	return herr
}

// Position converts a to a source position.
func (a Addr) Position() source.Position {
	return source.Position{
		Path:    a.Path,
		Offset:  toU32(a.Offset),
		LineCol: source.LineCol{Line: toU32(a.Row), Col: toU32(a.Col)},
	}
}
