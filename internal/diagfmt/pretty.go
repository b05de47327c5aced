package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"nate/internal/diag"
	"nate/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку шаблона с подчёркиванием ^~~~ по Span, затем Notes.
// Диагностики без Span (ввод-вывод, ошибки компилятора Go) выводятся одной строкой.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	baseDir := opts.BaseDir
	if baseDir == "" && fs != nil {
		baseDir = fs.BaseDir()
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, p, opts, baseDir)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, p palette, opts PrettyOpts, baseDir string) {
	pos := d.Position()
	loc := location(d.Primary.File, pos, opts.PathMode, baseDir)
	if loc != "" {
		fmt.Fprintf(w, "%s: ", p.path.Sprint(loc))
	}
	fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)

	if d.Primary.File != nil && !d.Primary.Virtual() {
		writeExcerpt(w, d.Primary, pos, p, opts)
	}

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		line := "  = " + p.note.Sprint("note") + ": " + n.Msg
		if n.Span.File != nil {
			np := n.Span.Pos()
			line += " (" + location(n.Span.File, np, opts.PathMode, baseDir) + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func location(f *source.File, pos source.Position, mode PathMode, baseDir string) string {
	path := displayPath(f, pos.Path, mode, baseDir)
	if path == "" {
		return ""
	}
	if pos.Line == 0 {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
}

func writeExcerpt(w io.Writer, span source.Span, pos source.Position, p palette, opts PrettyOpts) {
	lines := excerpt(span.File, pos.Line, opts.Context)
	if len(lines) == 0 {
		return
	}
	width := len(strconv.FormatUint(uint64(lines[len(lines)-1].num), 10))
	blank := strings.Repeat(" ", width+1) + p.gutter.Sprint("|")
	for _, l := range lines {
		num := fmt.Sprintf("%*d ", width, l.num)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprint(num+"|"), truncateLine(l.text, opts.Width))
		if l.num != pos.Line {
			continue
		}
		marker := caretPadding(l.text, pos.Col) + p.caret.Sprint(underline(span, l.text, pos.Col))
		fmt.Fprintf(w, "%s %s\n", blank, marker)
	}
}
