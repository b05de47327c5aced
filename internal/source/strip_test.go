package source

import "testing"

func TestStripModes(t *testing.T) {
	input := "  <p>\n\n\t\tHello,   {{ name }}!  \n  </p>\n"

	tests := []struct {
		mode StripMode
		want string
	}{
		{StripNone, input},
		{StripTail, "  <p>\n\n\t\tHello,   {{ name }}!  \n  </p>"},
		{StripTrim, "<p>\nHello,   {{ name }}!\n</p>"},
		{StripEager, "<p>\nHello, {{ name }}!\n</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := string(tt.mode.Apply([]byte(input))); got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripTailRemovesOnlyOneNewline(t *testing.T) {
	if got := string(StripTail.Apply([]byte("x\n\n"))); got != "x\n" {
		t.Errorf("got %q", got)
	}
	if got := string(StripTail.Apply([]byte("x\r\n"))); got != "x\r" {
		t.Errorf("got %q", got)
	}
	if got := string(StripTail.Apply(nil)); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestStripEagerWhitespaceSet(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a \t\f\r b", "a b"},
		{"a\vb", "a\vb"},
		{"a \v b", "a \v b"},
	}
	for _, tt := range tests {
		if got := string(StripEager.Apply([]byte(tt.in))); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseStripMode(t *testing.T) {
	for _, name := range []string{"none", "tail", "trim", "eager"} {
		m, err := ParseStripMode(name)
		if err != nil {
			t.Fatalf("ParseStripMode(%q): %v", name, err)
		}
		if m.String() != name {
			t.Errorf("round trip %q -> %q", name, m.String())
		}
	}
	if m, err := ParseStripMode(""); err != nil || m != StripNone {
		t.Errorf("empty mode = %v, %v", m, err)
	}
	if _, err := ParseStripMode("squash"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
