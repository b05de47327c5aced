package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"nate/internal/diag"
	"nate/internal/project"
	"nate/internal/source"
	"nate/internal/srcmap"
	"nate/internal/trace"
)

// Staleness is the check verdict for one declaration.
type Staleness struct {
	Decl   *project.Decl
	Stale  bool
	Reason string
	Deps   []srcmap.Dep
}

// Check compares the dependency markers embedded in each output file with
// the current template bytes under root. Missing outputs are stale.
func Check(ctx context.Context, decls []project.Decl, root string, sink ProgressSink) ([]Staleness, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "check")
	out := make([]Staleness, 0, len(decls))
	stale := 0
	defer func() {
		span.Attr("stale", strconv.Itoa(stale)).End("")
	}()

	for i := range decls {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		d := &decls[i]
		emit(sink, Event{Template: d.Name(), Stage: StageCheck, Status: StatusWorking})
		st, err := checkOne(d, root)
		if err != nil {
			emit(sink, Event{Template: d.Name(), Stage: StageCheck, Status: StatusError, Err: err})
			return out, err
		}
		if st.Stale {
			stale++
			trace.Point(ctx, trace.ScopeTemplate, "stale", d.Gen.Type+": "+st.Reason)
		}
		emit(sink, Event{Template: d.Name(), Stage: StageCheck, Status: StatusDone})
		out = append(out, st)
	}
	return out, nil
}

func checkOne(d *project.Decl, root string) (Staleness, error) {
	st := Staleness{Decl: d}
	content, err := os.ReadFile(d.Output)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			st.Stale, st.Reason = true, "output "+source.DisplayPath(d.Output)+" does not exist"
			return st, nil
		}
		return st, diag.NewIoError(diag.OpRead, d.Output, err)
	}
	m := srcmap.Parse(content)
	st.Deps = m.Deps
	switch {
	case !m.Generated:
		st.Stale, st.Reason = true, "output was not generated by natec"
		return st, nil
	case len(m.Deps) == 0:
		st.Stale, st.Reason = true, "output has no dependency markers"
		return st, nil
	case m.Deps[0].Path != d.TemplateRel:
		st.Stale, st.Reason = true, fmt.Sprintf("output was generated from %s, declared template is %s", m.Deps[0].Path, d.TemplateRel)
		return st, nil
	}

	for _, dep := range m.Deps {
		path := filepath.FromSlash(dep.Path)
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				st.Stale, st.Reason = true, dep.Path+" no longer exists"
				return st, nil
			}
			return st, diag.NewIoError(diag.OpRead, path, err)
		}
		sum := sha256.Sum256(raw)
		if hex.EncodeToString(sum[:]) != dep.SHA256 {
			st.Stale, st.Reason = true, dep.Path+" changed"
			return st, nil
		}
	}
	return st, nil
}

// StaleError converts stale verdicts into HostStaleOutput errors, joined.
func StaleError(results []Staleness) error {
	var errs []error
	for _, r := range results {
		if !r.Stale {
			continue
		}
		errs = append(errs, &diag.HostCompileError{
			Code: diag.HostStaleOutput,
			Pos:  source.Position{Path: r.Decl.Output},
			Msg:  r.Decl.Gen.Type + " is stale: " + r.Reason,
		})
	}
	return errors.Join(errs...)
}
