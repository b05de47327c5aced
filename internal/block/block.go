package block

import (
	"fmt"

	"nate/internal/source"
)

// TrimFlags records whether whitespace adjacent to a block boundary is trimmed.
type TrimFlags struct {
	Leading  bool
	Trailing bool
}

// Block is one scanned template element.
type Block struct {
	Kind Kind
	// Data is meaningful only for Kind == Data.
	Data DataKind
	Span source.Span
	Trim TrimFlags
}

// Text returns the block body.
func (b Block) Text() string {
	return b.Span.Text()
}

// IsWrite reports whether the block contributes to output text.
func (b Block) IsWrite() bool {
	return b.Kind == Literal || b.Kind == Data
}

func (b Block) String() string {
	kind := b.Kind.String()
	if b.Kind == Data {
		kind += "(" + b.Data.String() + ")"
	}
	var trim string
	if b.Trim.Leading {
		trim += "-"
	}
	trim += "|"
	if b.Trim.Trailing {
		trim += "-"
	}
	return fmt.Sprintf("%s %s %q", kind, trim, b.Span.Text())
}
