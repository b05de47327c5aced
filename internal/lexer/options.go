package lexer

import (
	"nate/internal/diag"
	"nate/internal/source"
)

type Options struct {
	// Reporter receives every parse error in addition to the returned error.
	// May be nil.
	Reporter diag.Reporter
}

func (s *Scanner) fail(code diag.Code, sp source.Span, msg string) error {
	var first diag.ErrorReporter
	diag.ReportError(&first, code, sp, msg).Emit()
	if s.opts.Reporter != nil {
		diag.ReportError(s.opts.Reporter, code, sp, msg).Emit()
	}
	s.err = first.Err
	return s.err
}
