package diagfmt

import (
	"strings"

	"fortio.org/safecast"
	"github.com/mattn/go-runewidth"

	"nate/internal/source"
)

type excerptLine struct {
	num  uint32
	text string
}

// excerpt returns line and up to context lines on either side of it.
func excerpt(f *source.File, line uint32, context int8) []excerptLine {
	if f == nil || line == 0 {
		return nil
	}
	total, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		return nil
	}
	// файл, оканчивающийся переводом строки, не имеет видимой последней строки
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] == '\n' && total > 1 {
		total--
	}
	if line > total {
		line = total
	}
	ctx, err := safecast.Conv[uint32](max(context, 0))
	if err != nil {
		ctx = 0
	}
	first := uint32(1)
	if line > ctx {
		first = line - ctx
	}
	last := min(line+ctx, total)

	out := make([]excerptLine, 0, last-first+1)
	for n := first; n <= last; n++ {
		out = append(out, excerptLine{num: n, text: f.GetLine(n)})
	}
	return out
}

// caretPadding returns the whitespace that lines a marker up under col (a
// 1-based rune column) of text. Tabs are kept so terminals expand them the
// same way they expand the source line above.
func caretPadding(text string, col uint32) string {
	var sb strings.Builder
	var n uint32 = 1
	for _, r := range text {
		if n >= col {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		n++
	}
	return sb.String()
}

// underline returns "^~~~" as wide as the span's first line in cells.
func underline(span source.Span, text string, col uint32) string {
	var width int
	if span.File != nil && span.End > span.Start {
		covered := span.Text()
		if i := strings.IndexByte(covered, '\n'); i >= 0 {
			covered = covered[:i]
		}
		covered = strings.TrimSuffix(covered, "\r")
		width = runewidth.StringWidth(strings.ReplaceAll(covered, "\t", " "))
	}
	// не вылезаем за конец строки
	var n uint32 = 1
	var rest string
	for i := range text {
		if n >= col {
			rest = text[i:]
			break
		}
		n++
	}
	if limit := runewidth.StringWidth(rest); width > limit {
		width = limit
	}
	if width <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", width-1)
}

func truncateLine(text string, width uint8) string {
	if width == 0 {
		return text
	}
	return runewidth.Truncate(text, int(width), "…")
}
