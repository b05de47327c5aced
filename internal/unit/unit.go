// Package unit folds scanned blocks into emission units: verbatim code runs
// and formatted writes.
package unit

import (
	"bytes"
	"strings"

	"nate/internal/block"
	"nate/internal/source"
)

// Kind distinguishes the two unit forms.
type Kind uint8

const (
	// Code units are spliced into the render method verbatim.
	Code Kind = iota
	// Write units emit literal text and formatted arguments.
	Write
)

// Part is one element of a Write unit.
type Part struct {
	// Arg is false for literal fragments.
	Arg  bool
	Data block.DataKind
	Span source.Span
}

// Unit is either a run of code spans or a formatted write.
type Unit struct {
	Kind Kind
	// Code holds the spans of a Code unit, one per original block.
	Code []source.Span
	// Parts holds the literals and arguments of a Write unit, in order.
	Parts []Part
}

// Assemble groups consecutive code blocks and consecutive literal or data
// blocks. Comment and include blocks are ignored; the scanner and loader
// remove them before this point.
func Assemble(blocks []block.Block) []Unit {
	var units []Unit
	for _, b := range blocks {
		var kind Kind
		switch b.Kind {
		case block.Code:
			kind = Code
		case block.Literal, block.Data:
			kind = Write
		default:
			continue
		}
		if n := len(units); n == 0 || units[n-1].Kind != kind {
			units = append(units, Unit{Kind: kind})
		}
		u := &units[len(units)-1]
		if kind == Code {
			u.Code = append(u.Code, b.Span)
			continue
		}
		u.Parts = append(u.Parts, Part{Arg: b.Kind == block.Data, Data: b.Data, Span: b.Span})
	}
	return units
}

// Args returns the argument parts of a Write unit.
func (u Unit) Args() []Part {
	var out []Part
	for _, p := range u.Parts {
		if p.Arg {
			out = append(out, p)
		}
	}
	return out
}

// HasArgs reports whether a Write unit formats at least one argument.
func (u Unit) HasArgs() bool {
	for _, p := range u.Parts {
		if p.Arg {
			return true
		}
	}
	return false
}

// Format returns the format template of a Write unit: literal braces are
// doubled and each argument becomes "{}".
func (u Unit) Format() string {
	var sb strings.Builder
	for _, p := range u.Parts {
		if p.Arg {
			sb.WriteString("{}")
			continue
		}
		writeEscapedBraces(&sb, p.Span.Bytes())
	}
	return sb.String()
}

// Literal returns the concatenated literal text of a Write unit, ignoring
// arguments.
func (u Unit) Literal() string {
	var sb strings.Builder
	for _, p := range u.Parts {
		if !p.Arg {
			sb.Write(p.Span.Bytes())
		}
	}
	return sb.String()
}

func writeEscapedBraces(sb *strings.Builder, b []byte) {
	for len(b) > 0 {
		i := bytes.IndexAny(b, "{}")
		if i < 0 {
			sb.Write(b)
			return
		}
		sb.Write(b[:i+1])
		sb.WriteByte(b[i])
		b = b[i+1:]
	}
}
