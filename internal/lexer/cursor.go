package lexer

import (
	"bytes"
	"fmt"

	"nate/internal/source"

	"fortio.org/safecast"
)

// Cursor is a byte position inside a template span.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

// NewCursor creates a cursor covering the whole file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Off: 0, Limit: limit}
}

// NewSpanCursor creates a cursor restricted to span.
func NewSpanCursor(span source.Span) Cursor {
	return Cursor{File: span.File, Off: span.Start, Limit: span.End}
}

// EOF проверяет, достигнут ли конец области
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Rest returns the unread bytes.
func (c *Cursor) Rest() []byte {
	return c.File.Content[c.Off:c.Limit]
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	rest := c.Rest()
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// Advance moves the cursor n bytes forward, stopping at Limit.
func (c *Cursor) Advance(n int) {
	next := uint64(c.Off) + uint64(n) // #nosec G115 -- n is a slice index
	if next > uint64(c.Limit) {
		next = uint64(c.Limit)
	}
	c.Off = uint32(next) // #nosec G115 -- bounded by Limit
}

// SkipTo moves to the next occurrence of b, or to Limit if there is none.
func (c *Cursor) SkipTo(b byte) {
	if i := bytes.IndexByte(c.Rest(), b); i >= 0 {
		c.Advance(i)
		return
	}
	c.Off = c.Limit
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File, Start: uint32(m), End: c.Off}
}

// SpanToLimit returns the span from m to the end of the scanned area.
func (c *Cursor) SpanToLimit(m Mark) source.Span {
	return source.Span{File: c.File, Start: uint32(m), End: c.Limit}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
