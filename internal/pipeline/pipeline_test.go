package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"nate/internal/cache"
	"nate/internal/diag"
	"nate/internal/project"
)

const manifest = `
[[template]]
type = "Greeting"
path = "templates/greeting.html"
package = "views"

[[template]]
type = "Footer"
path = "templates/footer.html"
package = "views"

[[template]]
type = "Page"
path = "templates/page.html"
package = "views"
`

func setup(t *testing.T, files map[string]string) (*project.Manifest, []project.Decl) {
	t.Helper()
	root := t.TempDir()
	files[project.ManifestName] = manifest
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	m, err := project.Load(filepath.Join(root, project.ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	decls, err := m.Decls()
	if err != nil {
		t.Fatal(err)
	}
	return m, decls
}

func validFiles() map[string]string {
	return map[string]string{
		"templates/greeting.html": "Hello, {{ t.User }}!",
		"templates/footer.html":   "<footer>{{ t.Year }}</footer>",
		"templates/page.html":     "{< ./footer.html >}{% for _, x := range t.Items { %}{{ x }}{% } %}",
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) final(template string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last Status
	for _, ev := range r.events {
		if ev.Template == template {
			last = ev.Status
		}
	}
	return last
}

func TestGenerateAll(t *testing.T) {
	_, decls := setup(t, validFiles())
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	res, err := Generate(context.Background(), Request{Decls: decls, Store: store, Jobs: 2, Progress: rec})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Templates) != 3 || res.Failed() != 0 {
		t.Fatalf("results = %+v", res.Templates)
	}
	for i, r := range res.Templates {
		if r.Decl.Gen.Type != decls[i].Gen.Type {
			t.Errorf("result %d is %s, want declaration order", i, r.Decl.Gen.Type)
		}
		if got := rec.final(decls[i].Name()); got != StatusDone {
			t.Errorf("%s final status = %q", decls[i].Name(), got)
		}
	}
	if len(res.Changed()) != 3 {
		t.Errorf("changed = %d", len(res.Changed()))
	}
	if res.Digest.IsZero() {
		t.Error("digest not computed")
	}
	if !res.Timings.Has(StageScan) || !res.Timings.Has(StageWrite) {
		t.Error("stage timings missing")
	}
	entries, err := store.List()
	if err != nil || len(entries) != 3 {
		t.Fatalf("cache entries = %d, %v", len(entries), err)
	}

	again, err := Generate(context.Background(), Request{Decls: decls, Store: store})
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Changed()) != 0 {
		t.Errorf("regeneration rewrote %d files", len(again.Changed()))
	}
	if again.Digest != res.Digest {
		t.Error("digest differs across identical runs")
	}
}

func TestGenerateCollectsFailures(t *testing.T) {
	files := validFiles()
	files["templates/footer.html"] = "<footer>{{ t.Year </footer>"
	_, decls := setup(t, files)
	rec := &recorder{}
	res, err := Generate(context.Background(), Request{Decls: decls, Progress: rec})
	if !errors.Is(err, ErrTemplatesFailed) {
		t.Fatalf("err = %v", err)
	}
	// page.html includes footer.html, so it fails too
	if res.Failed() != 2 || res.Templates[0] == nil {
		t.Fatalf("failed = %d", res.Failed())
	}
	if !res.Bag.HasErrors() || res.Bag.Len() != 2 {
		t.Fatalf("bag = %d items", res.Bag.Len())
	}
	for _, d := range res.Bag.Items() {
		if d.Code != diag.ParseUnterminated {
			t.Errorf("code = %v", d.Code)
		}
	}
	if got := rec.final(decls[1].Name()); got != StatusError {
		t.Errorf("footer final status = %q", got)
	}
	if !res.Digest.IsZero() {
		t.Error("digest must stay zero on failure")
	}
}

func TestGenerateCancelled(t *testing.T) {
	_, decls := setup(t, validFiles())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, Request{Decls: decls})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestCheck(t *testing.T) {
	m, decls := setup(t, validFiles())

	results, err := Check(context.Background(), decls, m.Root, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if !r.Stale || !strings.Contains(r.Reason, "does not exist") {
			t.Errorf("%s: stale=%v reason=%q", r.Decl.Gen.Type, r.Stale, r.Reason)
		}
	}

	if _, err := Generate(context.Background(), Request{Decls: decls}); err != nil {
		t.Fatal(err)
	}
	results, err = Check(context.Background(), decls, m.Root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := StaleError(results); err != nil {
		t.Fatalf("fresh outputs reported stale: %v", err)
	}
	if len(results[2].Deps) != 2 {
		t.Errorf("page deps = %+v", results[2].Deps)
	}

	footer := filepath.Join(m.Root, "templates", "footer.html")
	if err := os.WriteFile(footer, []byte("<footer>{{ t.Year }} </footer>"), 0o644); err != nil {
		t.Fatal(err)
	}
	results, err = Check(context.Background(), decls, m.Root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Stale {
		t.Error("greeting does not depend on footer")
	}
	for _, i := range []int{1, 2} {
		if !results[i].Stale || results[i].Reason != "templates/footer.html changed" {
			t.Errorf("%s: stale=%v reason=%q", results[i].Decl.Gen.Type, results[i].Stale, results[i].Reason)
		}
	}
	diags := diag.FromError(StaleError(results))
	if len(diags) != 2 || diags[0].Code != diag.HostStaleOutput {
		t.Fatalf("stale diagnostics = %+v", diags)
	}
}

func TestCheckForeignOutput(t *testing.T) {
	m, decls := setup(t, validFiles())
	if err := os.MkdirAll(filepath.Dir(decls[0].Output), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(decls[0].Output, []byte("package views\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	results, err := Check(context.Background(), decls[:1], m.Root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Stale || results[0].Reason != "output was not generated by natec" {
		t.Fatalf("result = %+v", results[0])
	}
}
