package diag

import (
	"errors"
	"fmt"
	"strings"

	"nate/internal/source"
)

// PreviewRunes bounds the input excerpt quoted in parse errors.
const PreviewRunes = 72

// ParseError is a malformed template: an unterminated block, an empty data or
// include body, or an include cycle. Span covers the offending input; for an
// unterminated block it runs from the opener to the end of the file.
type ParseError struct {
	Code Code
	Span source.Span
	Msg  string
	// Via holds the include blocks that led to the failing file, innermost
	// first. Empty when the error is in the root template.
	Via []source.Span
}

func (e *ParseError) Error() string {
	pos := e.Span.Pos()
	preview, cut := e.Span.Preview(PreviewRunes)
	var sb strings.Builder
	fmt.Fprintf(&sb, "problems parsing template source %q at row %d, column %d: %s near:\n%q",
		source.DisplayPath(pos.Path), pos.Line, pos.Col, e.Msg, preview)
	if cut {
		sb.WriteString("...")
	}
	return sb.String()
}

// IoOp names the file operation that failed.
type IoOp uint8

const (
	OpOpen IoOp = iota
	OpRead
	OpWrite
	OpStat
	OpRemove
)

func (op IoOp) String() string {
	switch op {
	case OpOpen:
		return "open"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpStat:
		return "read metadata of"
	case OpRemove:
		return "remove"
	}
	return "access"
}

func (op IoOp) code() Code {
	switch op {
	case OpOpen:
		return IOOpenFailed
	case OpRead:
		return IOReadFailed
	case OpWrite:
		return IOWriteFailed
	case OpStat:
		return IOStatFailed
	case OpRemove:
		return IORemoveFailed
	}
	return IOInfo
}

// IoError wraps a filesystem failure with the operation and path involved.
type IoError struct {
	Op   IoOp
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("could not %s file %q: %v", e.Op, source.DisplayPath(e.Path), e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// NewIoError returns nil when err is nil.
func NewIoError(op IoOp, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Op: op, Path: path, Err: err}
}

// HostCompileError reports malformed declaration metadata or generated code
// that the Go toolchain would reject.
type HostCompileError struct {
	Code Code
	Pos  source.Position
	Msg  string
	Err  error
}

func (e *HostCompileError) Error() string {
	var sb strings.Builder
	if e.Pos.Path != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: ", source.DisplayPath(e.Pos.Path), e.Pos.Line, e.Pos.Col)
	}
	sb.WriteString(e.Msg)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *HostCompileError) Unwrap() error { return e.Err }

// FromError flattens err (including errors.Join trees) into diagnostics.
// Unknown errors become UnknownCode diagnostics carrying the error text.
func FromError(err error) []Diagnostic {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []Diagnostic
		for _, e := range joined.Unwrap() {
			out = append(out, FromError(e)...)
		}
		return out
	}

	var (
		pe *ParseError
		ie *IoError
		he *HostCompileError
	)
	switch {
	case errors.As(err, &pe):
		d := NewError(pe.Code, pe.Span, pe.Msg)
		for _, sp := range pe.Via {
			d = d.WithNote(sp, "included from here")
		}
		return []Diagnostic{d}
	case errors.As(err, &ie):
		return []Diagnostic{{
			Severity: SevError,
			Code:     ie.Op.code(),
			Message:  ie.Error(),
			Pos:      source.Position{Path: ie.Path},
		}}
	case errors.As(err, &he):
		code := he.Code
		if code == UnknownCode {
			code = HostBadDeclaration
		}
		msg := he.Msg
		if he.Err != nil {
			msg += ": " + he.Err.Error()
		}
		return []Diagnostic{{Severity: SevError, Code: code, Message: msg, Pos: he.Pos}}
	}
	return []Diagnostic{{Severity: SevError, Code: UnknownCode, Message: err.Error()}}
}
