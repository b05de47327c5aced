package lexer

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"nate/internal/block"
	"nate/internal/diag"
	"nate/internal/source"
)

// DepMarker prefixes the comment in the opening scope block of every template
// file. Staleness checks look for it in generated code.
const DepMarker = "//nate:dep"

// Loader resolves and loads template files for one compilation.
type Loader struct {
	Files *source.FileSet
	// Root is the project root; include paths that do not start with "." or
	// ".." are resolved against it.
	Root  string
	Strip source.StripMode
	Opts  Options
}

// Result is a fully expanded template.
type Result struct {
	Blocks []block.Block
	// Deps lists every template file read, root first, in first-use order.
	Deps []*source.File
}

// Load reads a template file through the loader's FileSet.
func (l *Loader) Load(path string) (*source.File, error) {
	id, err := l.Files.Load(path, l.Strip)
	if err != nil {
		op := diag.OpRead
		var pe *fs.PathError
		if errors.As(err, &pe) && pe.Op == "open" {
			op = diag.OpOpen
		}
		return nil, diag.NewIoError(op, path, err)
	}
	return l.Files.Get(id), nil
}

// Resolve maps an include path written inside from to a file path.
func (l *Loader) Resolve(from *source.File, name string) string {
	name = filepath.FromSlash(name)
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	first, _, _ := strings.Cut(filepath.ToSlash(name), "/")
	if first == "." || first == ".." {
		return filepath.Join(from.Dir(), name)
	}
	return filepath.Join(l.Root, name)
}

// Rel returns path relative to the project root, slash-separated.
func (l *Loader) Rel(path string) string {
	root := l.Root
	if root == "" {
		root = "."
	}
	rel, err := source.RelativePath(path, root)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return rel
}

// Expand loads path and splices all includes recursively.
func (l *Loader) Expand(path string) (*Result, error) {
	f, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return l.ExpandFile(f)
}

// ExpandFile scans f and splices all includes recursively. Each file's blocks
// are wrapped in a pair of synthetic code blocks opening and closing a Go
// scope; the opening one carries the dependency marker.
func (l *Loader) ExpandFile(f *source.File) (*Result, error) {
	e := expander{loader: l, res: &Result{}, seen: map[string]bool{}}
	if err := e.expand(f); err != nil {
		return nil, err
	}
	return e.res, nil
}

type expander struct {
	loader *Loader
	res    *Result
	stack  []*source.File // файлы, которые сейчас раскрываются
	seen   map[string]bool
}

func (e *expander) expand(f *source.File) error {
	e.stack = append(e.stack, f)
	defer func() { e.stack = e.stack[:len(e.stack)-1] }()

	if !e.seen[f.Path] {
		e.seen[f.Path] = true
		e.res.Deps = append(e.res.Deps, f)
	}
	e.res.Blocks = append(e.res.Blocks, e.scope(e.depLine(f)))

	s := New(f.Full(), e.loader.Opts)
	for {
		b, ok, err := s.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if b.Kind != block.Include {
			e.res.Blocks = append(e.res.Blocks, b)
			continue
		}
		if err := e.include(f, b); err != nil {
			return err
		}
	}

	e.res.Blocks = append(e.res.Blocks, e.scope("}"))
	return nil
}

func (e *expander) include(from *source.File, b block.Block) error {
	target := e.loader.Resolve(from, b.Text())
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	for i, open := range e.stack {
		openAbs, err := filepath.Abs(filepath.FromSlash(open.Path))
		if err != nil || openAbs != abs {
			continue
		}
		chain := make([]string, 0, len(e.stack)-i+1)
		for _, g := range e.stack[i:] {
			chain = append(chain, e.loader.Rel(g.Path))
		}
		chain = append(chain, e.loader.Rel(target))
		msg := "include cycle: " + strings.Join(chain, " -> ")
		return &diag.ParseError{Code: diag.ParseIncludeCycle, Span: b.Span, Msg: msg}
	}

	f, err := e.loader.Load(target)
	if err != nil {
		return fmt.Errorf("include %q: %w", b.Text(), err)
	}
	if err := e.expand(f); err != nil {
		var pe *diag.ParseError
		if errors.As(err, &pe) {
			pe.Via = append(pe.Via, b.Span)
		}
		return err
	}
	return nil
}

func (e *expander) depLine(f *source.File) string {
	return "{ " + DepMarker + " path=" + strconv.Quote(e.loader.Rel(f.Path)) + " sha256=" + f.HashHex()
}

func (e *expander) scope(code string) block.Block {
	vf := e.loader.Files.Get(e.loader.Files.AddVirtual("<scope>", []byte(code)))
	return block.Block{Kind: block.Code, Span: vf.Full()}
}
