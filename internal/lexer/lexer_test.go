package lexer_test

import (
	"errors"
	"testing"

	"nate/internal/block"
	"nate/internal/diag"
	"nate/internal/lexer"
	"nate/internal/source"
)

// makeSpan создаёт span для тестовой строки
func makeSpan(text string) source.Span {
	fs := source.NewFileSet()
	return fs.Get(fs.Add("test.html", []byte(text), 0)).Full()
}

type want struct {
	kind block.Kind
	data block.DataKind
	text string
}

func lit(s string) want { return want{kind: block.Literal, text: s} }
func code(s string) want { return want{kind: block.Code, text: s} }
func data(k block.DataKind, s string) want { return want{kind: block.Data, data: k, text: s} }

func scanAll(t *testing.T, text string) []block.Block {
	t.Helper()
	blocks, err := lexer.Scan(makeSpan(text), lexer.Options{})
	if err != nil {
		t.Fatalf("Scan(%q): %v", text, err)
	}
	return blocks
}

func expectBlocks(t *testing.T, text string, expected ...want) {
	t.Helper()
	got := scanAll(t, text)
	if len(got) != len(expected) {
		t.Fatalf("Scan(%q) returned %d blocks, want %d: %v", text, len(got), len(expected), got)
	}
	for i, w := range expected {
		b := got[i]
		if b.Kind != w.kind || b.Text() != w.text || (w.kind == block.Data && b.Data != w.data) {
			t.Errorf("block %d = %v, want %s(%s) %q", i, b, w.kind, w.data, w.text)
		}
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	cases := []string{
		"Hello, world!\n",
		"  leading and trailing  \n\n",
		"unicode: привет, 世界",
		"a } b %} c #} d >}",
	}
	for _, text := range cases {
		t.Run(text, func(t *testing.T) {
			var out string
			for _, b := range scanAll(t, text) {
				if b.Kind != block.Literal {
					t.Fatalf("unexpected %v", b)
				}
				out += b.Text()
			}
			if out != text {
				t.Fatalf("round trip = %q, want %q", out, text)
			}
		})
	}
}

func TestStrayBraceIsLiteral(t *testing.T) {
	expectBlocks(t, "a { b {c",
		lit("a "), lit("{ b "), lit("{c"))
}

func TestDelimiterDisambiguation(t *testing.T) {
	tests := []struct {
		text string
		kind block.DataKind
	}{
		{"{{{{{ x }}}}}", block.Verbose},
		{"{{{{ x }}}}", block.Debug},
		{"{{{ x }}}", block.Raw},
		{"{{ x }}", block.Escaped},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			expectBlocks(t, tt.text, data(tt.kind, "x"))
		})
	}
}

func TestBlockForms(t *testing.T) {
	expectBlocks(t, "a{% if t.X { %}b{# note #}{{ t.Y }}{< part.html >}c{%}%}",
		lit("a"),
		code("if t.X {"),
		lit("b"),
		data(block.Escaped, "t.Y"),
		want{kind: block.Include, text: "part.html"},
		lit("c"),
		code("}"),
	)
}

func TestEmptyCodeBlockIsKept(t *testing.T) {
	expectBlocks(t, "a{%  %}b", lit("a"), code(""), lit("b"))
}

func TestHyphenInsideBody(t *testing.T) {
	expectBlocks(t, "{{ a - b }}{{ c--}}", data(block.Escaped, "a - b"), data(block.Escaped, "c-"))
}

func TestCloserCharactersInsideBody(t *testing.T) {
	expectBlocks(t, "{% m := map[int]int{} %}{{ len(m) }}",
		code("m := map[int]int{}"),
		data(block.Escaped, "len(m)"))
}

func TestTrimBothSides(t *testing.T) {
	expectBlocks(t, "A  \n{%-\n  x := 1\n-%}\n  B",
		lit("A"), code("x := 1"), lit("B"))
}

func TestTrimLeadingOnly(t *testing.T) {
	expectBlocks(t, "A  \n{%- x := 1 %}\n  B",
		lit("A"), code("x := 1"), lit("\n  B"))
}

func TestTrimTrailingOnly(t *testing.T) {
	expectBlocks(t, "A  \n{{ x -}}\n  B",
		lit("A  \n"), data(block.Escaped, "x"), lit("B"))
}

func TestTrimThroughComment(t *testing.T) {
	expectBlocks(t, "A \n{#- dropped -#}\n B",
		lit("A"), lit("B"))
}

func TestTrimFlagsAreShared(t *testing.T) {
	blocks := scanAll(t, "{{ a -}}{{ b }}{{- c }}")
	if len(blocks) != 3 {
		t.Fatalf("got %v", blocks)
	}
	if !blocks[0].Trim.Trailing || !blocks[1].Trim.Leading {
		t.Errorf("a/b boundary not shared: %v %v", blocks[0], blocks[1])
	}
	if !blocks[1].Trim.Trailing || !blocks[2].Trim.Leading {
		t.Errorf("b/c boundary not shared: %v %v", blocks[1], blocks[2])
	}
	if blocks[0].Trim.Leading || blocks[2].Trim.Trailing {
		t.Error("outer edges must stay untrimmed")
	}
}

func TestWhitespaceOnlyLiteralIsDropped(t *testing.T) {
	expectBlocks(t, "{% a -%}\n\t \n{% b %}", code("a"), code("b"))
}

func TestUnterminatedBlock(t *testing.T) {
	tests := []struct {
		text  string
		start uint32
	}{
		{"Hello {{ name", 6},
		{"{% for {", 0},
		{"ok {# comment", 3},
		{"{{{ raw }}", 0},
		{"{< inc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := lexer.Scan(makeSpan(tt.text), lexer.Options{})
			var pe *diag.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if pe.Code != diag.ParseUnterminated {
				t.Errorf("code = %s", pe.Code.ID())
			}
			if pe.Span.Start != tt.start || int(pe.Span.End) != len(tt.text) {
				t.Errorf("span = [%d,%d), want [%d,%d)", pe.Span.Start, pe.Span.End, tt.start, len(tt.text))
			}
		})
	}
}

func TestEmptyDataAndInclude(t *testing.T) {
	tests := []struct {
		text string
		code diag.Code
	}{
		{"{{ }}", diag.ParseEmptyData},
		{"{{{-  -}}}", diag.ParseEmptyData},
		{"{{{{}}}}", diag.ParseEmptyData},
		{"x{<  >}", diag.ParseEmptyInclude},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := lexer.Scan(makeSpan(tt.text), lexer.Options{})
			var pe *diag.ParseError
			if !errors.As(err, &pe) || pe.Code != tt.code {
				t.Fatalf("got %v, want %s", err, tt.code.ID())
			}
		})
	}
}

func TestErrorsReachReporter(t *testing.T) {
	bag := diag.NewBag(10)
	s := lexer.New(makeSpan("a {{ b"), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	for {
		_, ok, err := s.Next()
		if err != nil {
			break
		}
		if !ok {
			t.Fatal("expected an error")
		}
	}
	if _, _, err := s.Next(); err == nil {
		t.Fatal("a failed scanner must keep failing")
	}
	if bag.Len() != 1 || !bag.HasErrors() {
		t.Fatalf("bag holds %d diagnostics", bag.Len())
	}
}

func TestScanSubSpan(t *testing.T) {
	span := makeSpan("xx{{ a }}yy").Slice(2, 9)
	blocks, err := lexer.Scan(span, lexer.Options{})
	if err != nil || len(blocks) != 1 || blocks[0].Text() != "a" {
		t.Fatalf("got %v, %v", blocks, err)
	}
	if blocks[0].Span.File != span.File {
		t.Fatal("blocks must share the scanned file")
	}
}
