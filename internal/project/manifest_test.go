package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nate/internal/diag"
	"nate/internal/source"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadAndDecls(t *testing.T) {
	path := writeManifest(t, `
[project]
name = "site"
jobs = 2

[[template]]
type = "Greeting"
path = "templates/greeting.html"
package = "views"

[[template]]
type = "List"
path = "templates/list.html"
package = "views/list-page"
package_name = "listpage"
output = "views/list-page/list.go"
generated = "debug/list.go"
strip = "trim"
imports = ["strings", "fmtx fmt"]
type_params = "[T fmt.Stringer]"
receiver = "l"
pointer = true
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Project.Name != "site" || m.Project.Jobs != 2 {
		t.Fatalf("project = %+v", m.Project)
	}
	decls, err := m.Decls()
	if err != nil {
		t.Fatalf("Decls: %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("got %d decls", len(decls))
	}

	g := decls[0]
	if g.TemplateRel != "templates/greeting.html" {
		t.Errorf("TemplateRel = %q", g.TemplateRel)
	}
	if want := filepath.Join(m.Root, "views", "greeting_nate.go"); g.Output != want {
		t.Errorf("Output = %q, want %q", g.Output, want)
	}
	if g.Gen.Package != "views" || g.Gen.Type != "Greeting" || g.Gen.Source != "templates/greeting.html" {
		t.Errorf("Gen = %+v", g.Gen)
	}
	if g.Strip != source.StripNone || g.Generated != "" {
		t.Errorf("defaults not applied: %+v", g)
	}

	l := decls[1]
	if l.Gen.Package != "listpage" || l.Gen.Receiver != "l" || !l.Gen.Pointer {
		t.Errorf("Gen = %+v", l.Gen)
	}
	if l.Strip != source.StripTrim {
		t.Errorf("Strip = %v", l.Strip)
	}
	if want := filepath.Join(m.Root, "debug", "list.go"); l.Generated != want {
		t.Errorf("Generated = %q, want %q", l.Generated, want)
	}
	if l.Name() != "List (templates/list.html)" {
		t.Errorf("Name = %q", l.Name())
	}
}

func TestDeclValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing type", `path = "a.html"` + "\n" + `package = "p"`, "missing type"},
		{"bad type", `type = "1x"` + "\n" + `path = "a.html"` + "\n" + `package = "p"`, "not a Go identifier"},
		{"missing path", `type = "A"` + "\n" + `package = "p"`, "missing path"},
		{"missing package", `type = "A"` + "\n" + `path = "a.html"`, "missing package"},
		{"bad package name", `type = "A"` + "\n" + `path = "a.html"` + "\n" + `package = "my-pkg"`, "set package_name"},
		{"escaping path", `type = "A"` + "\n" + `path = "../a.html"` + "\n" + `package = "p"`, "escapes the project root"},
		{"bad strip", `type = "A"` + "\n" + `path = "a.html"` + "\n" + `package = "p"` + "\n" + `strip = "all"`, "unknown strip mode"},
		{"bad type params", `type = "A"` + "\n" + `path = "a.html"` + "\n" + `package = "p"` + "\n" + `type_params = "T any"`, "enclosed in brackets"},
		{"bad receiver", `type = "A"` + "\n" + `path = "a.html"` + "\n" + `package = "p"` + "\n" + `receiver = "w"`, "other than w and err"},
		{"bad output", `type = "A"` + "\n" + `path = "a.html"` + "\n" + `package = "p"` + "\n" + `output = "p/a.txt"`, "must be a .go file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load(writeManifest(t, "[[template]]\n"+tt.body+"\n"))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			_, err = m.Decls()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
			var he *diag.HostCompileError
			if !errors.As(err, &he) || he.Code != diag.HostBadDeclaration {
				t.Fatalf("expected HostBadDeclaration, got %#v", err)
			}
		})
	}
}

func TestDeclsReportsEveryEntry(t *testing.T) {
	m, err := Load(writeManifest(t, `
[[template]]
type = "A"
package = "p"

[[template]]
type = "B"
path = "b.html"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = m.Decls()
	diags := diag.FromError(err)
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), err)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[[template]\n", "failed to parse TOML"},
		{"no templates", "[project]\nname = \"x\"\n", "no [[template]] declarations"},
		{"unknown key", "[[template]]\ntype = \"A\"\nfile = \"a\"\n", "unknown keys: template.file"},
		{"negative jobs", "[project]\njobs = -1\n[[template]]\ntype = \"A\"\n", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want %q", err, tt.want)
			}
			var he *diag.HostCompileError
			if !errors.As(err, &he) || he.Code != diag.HostManifestMalformed {
				t.Fatalf("expected HostManifestMalformed, got %#v", err)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	path := writeManifest(t, "[[template]]\ntype = \"A\"\npath = \"a.html\"\npackage = \"p\"\n")
	root := filepath.Dir(path)
	nested := filepath.Join(root, "p", "q")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	m, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Root != root {
		t.Fatalf("Root = %q, want %q", m.Root, root)
	}

	_, err = Discover(t.TempDir())
	var he *diag.HostCompileError
	if !errors.As(err, &he) || he.Code != diag.HostManifestNotFound {
		t.Fatalf("expected HostManifestNotFound, got %v", err)
	}
}

func TestDefaultOutputName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Greeting", "greeting_nate.go"},
		{"BottlesOfBeer", "bottles-of-beer_nate.go"},
		{"HTMLPage", "html-page_nate.go"},
		{"Page2", "page2_nate.go"},
	}
	for _, tt := range tests {
		if got := DefaultOutputName(tt.in); got != tt.want {
			t.Errorf("DefaultOutputName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
