// Package driver compiles one template declaration end to end: load,
// scan with includes, assemble, generate, validate, store and embed.
package driver

import (
	"context"
	"fmt"
	"strconv"

	"nate/internal/cache"
	"nate/internal/codegen"
	"nate/internal/diag"
	"nate/internal/lexer"
	"nate/internal/observ"
	"nate/internal/project"
	"nate/internal/source"
	"nate/internal/srcmap"
	"nate/internal/trace"
	"nate/internal/unit"
)

// Request describes one compilation.
type Request struct {
	Decl *project.Decl
	// Store receives the artifact; nil skips the cache.
	Store *cache.Store
	// NoEmbed leaves the package output file untouched.
	NoEmbed bool
	// Reporter receives parse diagnostics as they are found.
	Reporter diag.Reporter
	Observer PhaseObserver
}

// Result is a finished compilation.
type Result struct {
	Decl     *project.Decl
	Code     []byte
	Artifact cache.Artifact
	Deps     []cache.Dep
	// Changed reports whether the embedded output file was rewritten.
	Changed bool
	Blocks  int
	Units   int
	Timing  observ.Report
}

// Compile runs every stage for req.Decl. A generated file that fails to parse
// is still written to the debug path when one is configured.
func Compile(ctx context.Context, req Request) (*Result, error) {
	if req.Decl == nil {
		return nil, fmt.Errorf("driver: nil declaration")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	decl := req.Decl

	ctx, span := trace.Start(trace.ForTemplate(ctx, decl.Gen.Type), trace.ScopeTemplate, "compile")
	c := &compilation{
		ctx:   ctx,
		req:   req,
		timer: observ.NewTimer(),
		res:   &Result{Decl: decl},
	}
	err := c.run()
	c.res.Timing = c.timer.Report()
	if err != nil {
		span.Attr("error", err.Error()).End("failed")
		return nil, err
	}
	span.Attr("bytes", strconv.Itoa(len(c.res.Code))).
		Attr("reused", strconv.FormatBool(c.res.Artifact.Reused)).
		End(c.res.Artifact.Key.Hex())
	return c.res, nil
}

type compilation struct {
	ctx   context.Context
	req   Request
	timer *observ.Timer
	res   *Result
}

// phase times fn, traces it and notifies the observer.
func (c *compilation) phase(name string, fn func() (string, error)) error {
	if c.req.Observer != nil {
		c.req.Observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	_, span := trace.Start(c.ctx, trace.ScopeTemplate, name)
	idx := c.timer.Begin(name)
	note, err := fn()
	if err != nil {
		note = "error"
	}
	elapsed := c.timer.End(idx, note)
	span.End(note)
	if c.req.Observer != nil {
		c.req.Observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: elapsed, Err: err})
	}
	return err
}

func (c *compilation) run() error {
	decl := c.req.Decl
	loader := &lexer.Loader{
		Files: source.NewFileSetWithBase(decl.Gen.Root),
		Root:  decl.Gen.Root,
		Strip: decl.Strip,
		Opts:  lexer.Options{Reporter: c.req.Reporter},
	}

	var root *source.File
	err := c.phase(PhaseLoad, func() (string, error) {
		f, err := loader.Load(decl.Template)
		if err != nil {
			return "", err
		}
		root = f
		return fmt.Sprintf("%d bytes", len(f.Content)), nil
	})
	if err != nil {
		return err
	}

	var expanded *lexer.Result
	err = c.phase(PhaseScan, func() (string, error) {
		r, err := loader.ExpandFile(root)
		if err != nil {
			return "", err
		}
		expanded = r
		for _, f := range r.Deps[1:] {
			trace.Point(c.ctx, trace.ScopeInclude, "include", loader.Rel(f.Path))
		}
		return fmt.Sprintf("%d blocks, %d files", len(r.Blocks), len(r.Deps)), nil
	})
	if err != nil {
		return err
	}
	c.res.Blocks = len(expanded.Blocks)
	for _, f := range expanded.Deps {
		c.res.Deps = append(c.res.Deps, cache.Dep{Path: loader.Rel(f.Path), SHA256: f.HashHex()})
	}

	var units []unit.Unit
	err = c.phase(PhaseAssemble, func() (string, error) {
		units = unit.Assemble(expanded.Blocks)
		return fmt.Sprintf("%d units", len(units)), nil
	})
	if err != nil {
		return err
	}
	c.res.Units = len(units)

	err = c.phase(PhaseGenerate, func() (string, error) {
		code, err := codegen.Generate(decl.Gen, units)
		if err != nil {
			return "", &diag.HostCompileError{
				Code: diag.HostBadDeclaration,
				Pos:  source.Position{Path: decl.Template},
				Msg:  "cannot generate " + decl.Gen.Type,
				Err:  err,
			}
		}
		c.res.Code = code
		return fmt.Sprintf("%d bytes", len(code)), nil
	})
	if err != nil {
		return err
	}

	err = c.phase(PhaseValidate, func() (string, error) {
		return "", srcmap.Validate(decl.Output, c.res.Code)
	})
	if err != nil {
		if decl.Generated != "" {
			if werr := cache.WriteDebug(decl.Generated, c.res.Code); werr != nil {
				return fmt.Errorf("%w (debug output: %v)", err, werr)
			}
		}
		return err
	}

	err = c.phase(PhaseStore, func() (string, error) {
		c.res.Artifact = cache.Artifact{Key: project.Sum(c.res.Code), Size: int64(len(c.res.Code))}
		// An explicit debug path takes the place of the hash-named cache file.
		if decl.Generated != "" {
			c.res.Artifact.Path = decl.Generated
			return "debug", cache.WriteDebug(decl.Generated, c.res.Code)
		}
		if c.req.Store == nil {
			return "skipped", nil
		}
		art, err := c.req.Store.Put(c.res.Code, cache.Meta{
			Type:     decl.Gen.Type,
			Template: decl.TemplateRel,
			Output:   loader.Rel(decl.Output),
			Deps:     c.res.Deps,
		})
		if err != nil {
			return "", err
		}
		c.res.Artifact = art
		if art.Reused {
			return "reused", nil
		}
		return "written", nil
	})
	if err != nil {
		return err
	}

	return c.phase(PhaseEmbed, func() (string, error) {
		if c.req.NoEmbed || decl.Output == "" {
			return "skipped", nil
		}
		changed, err := cache.Embed(decl.Output, c.res.Code)
		if err != nil {
			return "", err
		}
		c.res.Changed = changed
		if changed {
			return "updated", nil
		}
		return "unchanged", nil
	})
}
