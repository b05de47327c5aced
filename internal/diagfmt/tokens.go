package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"nate/internal/block"
)

// BlockOutput is the JSON form of one scanned block.
type BlockOutput struct {
	Kind     string `json:"kind"`
	Data     string `json:"data,omitempty"`
	Text     string `json:"text"`
	File     string `json:"file"`
	Start    uint32 `json:"start"`
	End      uint32 `json:"end"`
	Line     uint32 `json:"line"`
	Col      uint32 `json:"col"`
	TrimLead bool   `json:"trim_leading,omitempty"`
	TrimTail bool   `json:"trim_trailing,omitempty"`
}

func blockOutput(b block.Block) BlockOutput {
	pos := b.Span.Pos()
	out := BlockOutput{
		Kind:     b.Kind.String(),
		Text:     b.Text(),
		File:     pos.Path,
		Start:    b.Span.Start,
		End:      b.Span.End,
		Line:     pos.Line,
		Col:      pos.Col,
		TrimLead: b.Trim.Leading,
		TrimTail: b.Trim.Trailing,
	}
	if b.Kind == block.Data {
		out.Data = b.Data.String()
	}
	return out
}

// FormatBlocksPretty выводит блоки в человекочитаемом формате
func FormatBlocksPretty(w io.Writer, blocks []block.Block) error {
	for i, b := range blocks {
		kind := b.Kind.String()
		if b.Kind == block.Data {
			kind += "(" + b.Data.String() + ")"
		}
		var trim []string
		if b.Trim.Leading {
			trim = append(trim, "leading")
		}
		if b.Trim.Trailing {
			trim = append(trim, "trailing")
		}

		start, end := b.Span.Pos(), b.Span.EndPos()
		line := fmt.Sprintf("%3d: %-15s %q at %d:%d-%d:%d", i+1, kind, b.Text(), start.Line, start.Col, end.Line, end.Col)
		if b.Span.Virtual() {
			line += " (" + start.Path + ")"
		}
		if len(trim) > 0 {
			line += " (trim: " + strings.Join(trim, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatBlocksJSON выводит блоки в JSON формате
func FormatBlocksJSON(w io.Writer, blocks []block.Block) error {
	output := make([]BlockOutput, 0, len(blocks))
	for _, b := range blocks {
		output = append(output, blockOutput(b))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
