package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "project")
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"nested", filepath.Join(base, "templates", "page.html"), "templates/page.html"},
		{"sibling escapes", filepath.Join(tmp, "shared", "footer.html"), normalizePath(filepath.Join(tmp, "shared", "footer.html"))},
		{"root itself", base, "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RelativePath(tt.target, base)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("RelativePath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoveBOM(t *testing.T) {
	got, had := removeBOM([]byte("\xEF\xBB\xBF<p>"))
	if !had || string(got) != "<p>" {
		t.Errorf("removeBOM = %q, %v", got, had)
	}
	if got, had := removeBOM([]byte("<p>")); had || string(got) != "<p>" {
		t.Errorf("removeBOM without BOM = %q, %v", got, had)
	}
}

func TestToLineColCountsRunes(t *testing.T) {
	content := []byte("ab\nпривет {{ x }}\n")
	idx := buildLineIndex(content)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{16, LineCol{2, 8}}, // после шести кириллических букв и пробела
		{200, LineCol{3, 1}},
	}
	for _, tt := range tests {
		if got := toLineCol(content, idx, tt.off); got != tt.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}
