package diagfmt

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"

	"nate/internal/block"
	"nate/internal/diag"
	"nate/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fset, f := newTemplate(t, "/home/user/project/page.html", "<p>\n{{ }}\n")
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.ParseEmptyData, source.Span{File: f, Start: 4, End: 9}, "empty data block"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fset, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %+v", output)
	}
	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "NATE1002" || d.Title != "Empty data block" {
		t.Errorf("unexpected header fields: %+v", d)
	}
	if d.Location == nil {
		t.Fatal("expected location")
	}
	want := LocationJSON{File: "page.html", StartByte: 4, EndByte: 9, StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 6}
	if *d.Location != want {
		t.Errorf("location = %+v, want %+v", *d.Location, want)
	}
}

func TestJSONMaxAndPositions(t *testing.T) {
	fset, f := newTemplate(t, "/home/user/project/page.html", "{{ }}{< >}")
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.ParseEmptyData, source.Span{File: f, Start: 0, End: 5}, "empty data block"))
	bag.Add(diag.NewError(diag.ParseEmptyInclude, source.Span{File: f, Start: 5, End: 10}, "empty include block"))

	out := BuildDiagnosticsOutput(bag, fset, JSONOpts{Max: 1, PathMode: PathModeBasename})
	if out.Count != 1 {
		t.Fatalf("Count = %d, want 1", out.Count)
	}
	loc := out.Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartCol != 0 {
		t.Errorf("positions should be omitted: %+v", loc)
	}
}

func TestJSONDiagnosticWithoutLocation(t *testing.T) {
	bag := diag.NewBag(10)
	bag.AddError(&diag.HostCompileError{Code: diag.HostManifestNotFound, Msg: "nate.toml not found"})

	out := BuildDiagnosticsOutput(bag, nil, JSONOpts{IncludePositions: true})
	if out.Diagnostics[0].Location != nil {
		t.Fatalf("expected nil location, got %+v", out.Diagnostics[0].Location)
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, nil, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte(`"location"`)) {
		t.Fatalf("location should be omitted: %s", buf.String())
	}
}

func TestFormatBlocks(t *testing.T) {
	fset := source.NewFileSet()
	f := fset.Get(fset.Add("/t/page.html", []byte("Hi {{ name }}!"), 0))
	blocks := []block.Block{
		{Kind: block.Literal, Span: source.Span{File: f, Start: 0, End: 3}},
		{Kind: block.Data, Data: block.Raw, Span: source.Span{File: f, Start: 5, End: 11}, Trim: block.TrimFlags{Trailing: true}},
	}

	var pretty bytes.Buffer
	if err := FormatBlocksPretty(&pretty, blocks); err != nil {
		t.Fatal(err)
	}
	want := "  1: Literal         \"Hi \" at 1:1-1:4\n" +
		"  2: Data(Raw)       \" name \" at 1:6-1:12 (trim: trailing)\n"
	if pretty.String() != want {
		t.Fatalf("pretty output:\n%q\nwant:\n%q", pretty.String(), want)
	}

	var js bytes.Buffer
	if err := FormatBlocksJSON(&js, blocks); err != nil {
		t.Fatal(err)
	}
	var decoded []BlockOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, js.String())
	}
	if len(decoded) != 2 || decoded[1].Data != "Raw" || !decoded[1].TrimTail || decoded[0].Data != "" {
		t.Fatalf("unexpected blocks: %+v", decoded)
	}
}
