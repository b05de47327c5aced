package driver

import (
	"path/filepath"

	"nate/internal/block"
	"nate/internal/diag"
	"nate/internal/lexer"
	"nate/internal/source"
)

// TokenizeOptions controls Tokenize.
type TokenizeOptions struct {
	Strip source.StripMode
	// Root resolves non-relative include paths; defaults to the file's directory.
	Root string
	// Expand splices includes, including the synthetic scope blocks.
	Expand bool
	// MaxDiagnostics caps the bag; 0 means no limit.
	MaxDiagnostics int
}

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Blocks  []block.Block
	Deps    []*source.File
	Bag     *diag.Bag
}

// Tokenize loads path and returns its blocks. Parse errors are returned and
// also recorded in the result's bag.
func Tokenize(path string, opts TokenizeOptions) (*TokenizeResult, error) {
	root := opts.Root
	if root == "" {
		root = filepath.Dir(path)
	}
	// Создаём FileSet и диагностический пакет
	fs := source.NewFileSetWithBase(root)
	bag := diag.NewBag(opts.MaxDiagnostics)
	loader := &lexer.Loader{
		Files: fs,
		Root:  root,
		Strip: opts.Strip,
		Opts:  lexer.Options{Reporter: diag.BagReporter{Bag: bag}},
	}

	file, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	res := &TokenizeResult{FileSet: fs, File: file, Bag: bag}

	if opts.Expand {
		expanded, err := loader.ExpandFile(file)
		if err != nil {
			return res, err
		}
		res.Blocks, res.Deps = expanded.Blocks, expanded.Deps
		return res, nil
	}

	blocks, err := lexer.Scan(file.Full(), loader.Opts)
	res.Blocks = blocks
	res.Deps = []*source.File{file}
	return res, err
}
