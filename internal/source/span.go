package source

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range into a File. Spans never copy text; every
// span derived from another shares its File.
type Span struct {
	File  *File
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Bytes returns the spanned bytes. The slice aliases the File content and must
// not be modified.
func (s Span) Bytes() []byte {
	if s.File == nil {
		return nil
	}
	return s.File.Content[s.Start:s.End]
}

// Text returns the spanned bytes as a string.
func (s Span) Text() string {
	return string(s.Bytes())
}

// Equal compares spans by the bytes they cover, not by their positions.
func (s Span) Equal(other Span) bool {
	return bytes.Equal(s.Bytes(), other.Bytes())
}

// Slice returns the sub-span [lo, hi) relative to the span start.
func (s Span) Slice(lo, hi uint32) Span {
	if lo > hi || hi > s.Len() {
		panic(fmt.Sprintf("source: slice [%d:%d] out of range for span of length %d", lo, hi, s.Len()))
	}
	return Span{File: s.File, Start: s.Start + lo, End: s.Start + hi}
}

// From drops the first n bytes.
func (s Span) From(n uint32) Span {
	return s.Slice(n, s.Len())
}

// To keeps the first n bytes.
func (s Span) To(n uint32) Span {
	return s.Slice(0, n)
}

// Full widens the span to the whole backing file.
func (s Span) Full() Span {
	return s.File.Full()
}

// TrimLeftSpace drops leading Unicode whitespace.
func (s Span) TrimLeftSpace() Span {
	b := s.Bytes()
	n := len(b) - len(bytes.TrimLeftFunc(b, unicode.IsSpace))
	return s.From(uint32(n)) // #nosec G115 -- n <= span length
}

// TrimRightSpace drops trailing Unicode whitespace.
func (s Span) TrimRightSpace() Span {
	b := s.Bytes()
	n := len(bytes.TrimRightFunc(b, unicode.IsSpace))
	return s.To(uint32(n)) // #nosec G115 -- n <= span length
}

// TrimSpace drops whitespace on both ends.
func (s Span) TrimSpace() Span {
	return s.TrimLeftSpace().TrimRightSpace()
}

// HasPrefix reports whether the span starts with prefix.
func (s Span) HasPrefix(prefix string) bool {
	b := s.Bytes()
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == prefix
}

// Offset is the absolute byte offset of the span start.
func (s Span) Offset() uint32 {
	return s.Start
}

// Pos resolves the span start.
func (s Span) Pos() Position {
	if s.File == nil {
		return Position{Offset: s.Start, LineCol: LineCol{Line: 1, Col: 1}}
	}
	return Position{Path: s.File.Path, Offset: s.Start, LineCol: s.File.LineCol(s.Start)}
}

// EndPos resolves the span end.
func (s Span) EndPos() Position {
	if s.File == nil {
		return Position{Offset: s.End, LineCol: LineCol{Line: 1, Col: 1}}
	}
	return Position{Path: s.File.Path, Offset: s.End, LineCol: s.File.LineCol(s.End)}
}

// Virtual reports whether the span points into an in-memory file.
func (s Span) Virtual() bool {
	return s.File == nil || s.File.Virtual()
}

// Preview returns up to limit runes of the span, and whether it was cut.
func (s Span) Preview(limit int) (string, bool) {
	b := s.Bytes()
	for i := 0; i < limit; i++ {
		if len(b) == 0 {
			return s.Text(), false
		}
		_, size := utf8.DecodeRune(b)
		b = b[size:]
	}
	if len(b) == 0 {
		return s.Text(), false
	}
	return string(s.Bytes()[:len(s.Bytes())-len(b)]), true
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

func (s Span) String() string {
	if s.File == nil {
		return fmt.Sprintf("?:%d-%d", s.Start, s.End)
	}
	return fmt.Sprintf("%s:%d-%d", s.File.Path, s.Start, s.End)
}
