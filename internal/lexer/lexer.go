package lexer

import (
	"bytes"

	"nate/internal/block"
	"nate/internal/diag"
	"nate/internal/source"
)

// Scanner splits a template span into blocks.
//
// Trim markers on a block affect its neighbours, so the scanner keeps two
// slots: block N is handed out only after block N+1 has been read and the
// shared boundary resolved.
type Scanner struct {
	cursor Cursor
	opts   Options
	cur    *block.Block // блок, который отдадим следующим
	look   *block.Block // 1 элементный буфер для соседа
	err    error
}

func New(span source.Span, opts Options) *Scanner {
	return &Scanner{
		cursor: NewSpanCursor(span),
		opts:   opts,
	}
}

// Next returns the next block with resolved trim flags. Comments and literal
// blocks that trim down to nothing are skipped. ok is false at the end of
// input or after an error; a failed scanner keeps returning the same error.
func (s *Scanner) Next() (b block.Block, ok bool, err error) {
	for {
		if s.err != nil {
			return block.Block{}, false, s.err
		}
		if s.cur == nil {
			next, found, err := s.scan()
			if err != nil {
				return block.Block{}, false, err
			}
			if !found {
				return block.Block{}, false, nil
			}
			s.cur = &next
		}
		if s.look == nil {
			next, found, err := s.scan()
			if err != nil {
				return block.Block{}, false, err
			}
			if found {
				s.look = &next
			}
		}

		out := *s.cur
		if s.look != nil {
			trim := out.Trim.Trailing || s.look.Trim.Leading
			out.Trim.Trailing = trim
			s.look.Trim.Leading = trim
		}
		s.cur, s.look = s.look, nil

		switch out.Kind {
		case block.Comment:
			continue
		case block.Literal:
			if out.Trim.Leading {
				out.Span = out.Span.TrimLeftSpace()
			}
			if out.Trim.Trailing {
				out.Span = out.Span.TrimRightSpace()
			}
			if out.Span.Empty() {
				continue
			}
		}
		return out, true, nil
	}
}

// Scan collects every block of span.
func Scan(span source.Span, opts Options) ([]block.Block, error) {
	s := New(span, opts)
	var out []block.Block
	for {
		b, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, b)
	}
}

// scan reads one block with the trim requests written in the source.
func (s *Scanner) scan() (block.Block, bool, error) {
	c := &s.cursor
	if c.EOF() {
		return block.Block{}, false, nil
	}
	if c.Peek() == '{' {
		for i := range block.Forms {
			if c.HasPrefix(block.Forms[i].Open) {
				b, err := s.scanDelimited(&block.Forms[i])
				return b, err == nil, err
			}
		}
	}

	// литерал: минимум один байт, дальше до следующей '{'
	m := c.Mark()
	c.Bump()
	c.SkipTo('{')
	return block.Block{Kind: block.Literal, Span: c.SpanFrom(m)}, true, nil
}

func (s *Scanner) scanDelimited(form *block.Delimiters) (block.Block, error) {
	c := &s.cursor
	start := c.Mark()
	c.Advance(len(form.Open))
	lead := c.Eat('-')
	bodyStart := c.Mark()

	stops := string([]byte{form.Close[0], '-'})
	for {
		i := bytes.IndexAny(c.Rest(), stops)
		if i < 0 {
			c.Off = c.Limit
			return block.Block{}, s.fail(diag.ParseUnterminated, c.SpanToLimit(start), "unterminated "+form.Name)
		}
		c.Advance(i)
		bodyEnd := c.Mark()
		trail := false
		if c.Peek() == '-' {
			c.Bump()
			if !c.HasPrefix(form.Close) {
				continue
			}
			trail = true
		} else if !c.HasPrefix(form.Close) {
			c.Bump()
			continue
		}
		c.Advance(len(form.Close))

		body := source.Span{File: c.File, Start: uint32(bodyStart), End: uint32(bodyEnd)}.TrimSpace()
		b := block.Block{
			Kind: form.Kind,
			Data: form.Data,
			Span: body,
			Trim: block.TrimFlags{Leading: lead, Trailing: trail},
		}
		if body.Empty() {
			switch form.Kind {
			case block.Data:
				return block.Block{}, s.fail(diag.ParseEmptyData, c.SpanFrom(start), "empty "+form.Name)
			case block.Include:
				return block.Block{}, s.fail(diag.ParseEmptyInclude, c.SpanFrom(start), "empty include path")
			}
		}
		return b, nil
	}
}
