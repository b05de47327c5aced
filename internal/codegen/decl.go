package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"
)

// DefaultRuntime is the import path of the render runtime.
const DefaultRuntime = "nate/render"

// runtimeName is the identifier generated code uses for the runtime package.
// Other runtime paths are imported under it as an alias.
const runtimeName = "render"

// Decl describes the Go type a template is compiled for.
type Decl struct {
	// Type is the name of the user-declared type that gets the methods.
	Type string
	// Package is the Go package name of the generated file.
	Package string
	// Source is the root-relative template path, recorded in the header.
	Source string
	// Root is the project root; addr comments use paths relative to it.
	Root string
	// Imports are extra import specs, "path" or "alias path".
	Imports []string
	// TypeParams is the type parameter list of Type, e.g. "[T fmt.Stringer]".
	TypeParams string
	// Receiver names the receiver visible to template code.
	Receiver string
	Pointer  bool
	// Runtime overrides DefaultRuntime.
	Runtime string
}

// Import is a parsed import spec.
type Import struct {
	Name string
	Path string
}

func (i Import) String() string {
	if i.Name != "" {
		return i.Name + " " + strconv.Quote(i.Path)
	}
	return strconv.Quote(i.Path)
}

// ParseImport accepts "path" or "alias path"; the path may be quoted.
func ParseImport(spec string) (Import, error) {
	fields := strings.Fields(spec)
	var imp Import
	switch len(fields) {
	case 1:
		imp.Path = fields[0]
	case 2:
		imp.Name, imp.Path = fields[0], fields[1]
		if imp.Name != "_" && imp.Name != "." && !token.IsIdentifier(imp.Name) {
			return Import{}, fmt.Errorf("invalid import alias %q", imp.Name)
		}
	default:
		return Import{}, fmt.Errorf("invalid import %q", spec)
	}
	if unq, err := strconv.Unquote(imp.Path); err == nil {
		imp.Path = unq
	}
	if imp.Path == "" || strings.ContainsAny(imp.Path, "\" \t\n") {
		return Import{}, fmt.Errorf("invalid import path in %q", spec)
	}
	return imp, nil
}

// ReceiverTypeArgs turns a type parameter list into the argument list used
// in method receivers: "[K comparable, V any]" becomes "[K, V]".
func ReceiverTypeArgs(params string) (string, error) {
	params = strings.TrimSpace(params)
	if params == "" {
		return "", nil
	}
	if !strings.HasPrefix(params, "[") || !strings.HasSuffix(params, "]") {
		return "", fmt.Errorf("type parameters %q must be enclosed in brackets", params)
	}
	src := "package p\ntype _T" + params + " struct{}\n"
	f, err := parser.ParseFile(token.NewFileSet(), "", src, parser.SkipObjectResolution)
	if err != nil {
		return "", fmt.Errorf("type parameters %q: %w", params, err)
	}
	ts, ok := f.Decls[0].(*ast.GenDecl).Specs[0].(*ast.TypeSpec)
	if !ok || ts.TypeParams == nil || len(ts.TypeParams.List) == 0 {
		return "", fmt.Errorf("type parameters %q: empty list", params)
	}
	var names []string
	for _, field := range ts.TypeParams.List {
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return "[" + strings.Join(names, ", ") + "]", nil
}

// Validate checks the declaration fields codegen relies on.
func (d Decl) Validate() error {
	if !token.IsIdentifier(d.Type) {
		return fmt.Errorf("type %q is not a Go identifier", d.Type)
	}
	if !token.IsIdentifier(d.Package) || d.Package == "_" {
		return fmt.Errorf("package name %q is not a Go identifier", d.Package)
	}
	if d.Receiver != "" && (!token.IsIdentifier(d.Receiver) || d.Receiver == "w" || d.Receiver == "err") {
		return fmt.Errorf("receiver %q must be a Go identifier other than w and err", d.Receiver)
	}
	for _, spec := range d.Imports {
		if _, err := ParseImport(spec); err != nil {
			return err
		}
	}
	if _, err := ReceiverTypeArgs(d.TypeParams); err != nil {
		return err
	}
	return nil
}

func (d Decl) runtime() string {
	if d.Runtime != "" {
		return d.Runtime
	}
	return DefaultRuntime
}

func (d Decl) receiver() string {
	if d.Receiver != "" {
		return d.Receiver
	}
	return "t"
}

// imports returns the sorted, de-duplicated import list of the generated file.
func (d Decl) imports() ([]Import, error) {
	rt := Import{Path: d.runtime()}
	if rt.Path != DefaultRuntime {
		rt.Name = runtimeName
	}
	all := []Import{{Path: "io"}, rt}
	for _, spec := range d.Imports {
		imp, err := ParseImport(spec)
		if err != nil {
			return nil, err
		}
		all = append(all, imp)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Path != all[j].Path {
			return all[i].Path < all[j].Path
		}
		return all[i].Name < all[j].Name
	})
	out := make([]Import, 0, len(all))
	for _, imp := range all {
		if len(out) > 0 && imp == out[len(out)-1] {
			continue
		}
		out = append(out, imp)
	}
	return out, nil
}
