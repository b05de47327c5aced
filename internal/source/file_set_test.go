package source

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	// Добавляем файл первый раз
	id1 := fs.Add("page.html", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("page.html")
	if !exists || latestID != id1 {
		t.Fatalf("GetLatest() = %d, %v; want %d, true", latestID, exists, id1)
	}

	// Добавляем тот же файл с новым содержимым
	id2 := fs.Add("page.html", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	latestID, _ = fs.GetLatest("./page.html")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// Старый файл всё ещё доступен
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("first content = %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "hello universe" {
		t.Errorf("second content = %q", got)
	}
}

func TestVirtualFilesAreNotIndexed(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("<scope>", []byte("{"))
	if !fs.Get(id).Virtual() {
		t.Fatal("expected FileVirtual flag")
	}
	if _, ok := fs.GetByPath("<scope>"); ok {
		t.Fatal("virtual files must not be reachable by path")
	}
	if fs.Len() != 1 {
		t.Fatalf("Len() = %d", fs.Len())
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x", []byte("one\r\ntwo\n\nfour")))

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "one"},
		{2, "two"},
		{3, ""},
		{4, "four"},
		{5, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestLoadKeepsLineEndingsAndHashesRawBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.html")
	raw := []byte("\xEF\xBB\xBFa\r\nb\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path, StripNone)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\r\nb\r\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM")
	}
	if f.Hash != sha256.Sum256(raw) {
		t.Error("hash must cover the bytes on disk")
	}
}

func TestLoadAppliesStripMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strip.html")
	if err := os.WriteFile(path, []byte("  a  \n\n  b\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path, StripTrim)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileStripped == 0 {
		t.Error("expected FileStripped")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.html"), StripNone); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
