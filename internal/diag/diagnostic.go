package diag

import (
	"nate/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Primary is set for diagnostics that point into a loaded template.
	Primary source.Span
	// Pos locates diagnostics that have no span (I/O failures, remapped
	// compiler output). Ignored when Primary has a file.
	Pos   source.Position
	Notes []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Position resolves where the diagnostic points.
func (d Diagnostic) Position() source.Position {
	if d.Primary.File != nil {
		return d.Primary.Pos()
	}
	return d.Pos
}
