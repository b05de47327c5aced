// Package pipeline runs template compilations for a whole project.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"nate/internal/cache"
	"nate/internal/diag"
	"nate/internal/driver"
	"nate/internal/project"
	"nate/internal/trace"
)

// ErrTemplatesFailed is wrapped by Generate when at least one template failed.
var ErrTemplatesFailed = errors.New("template generation failed")

// Request configures Generate.
type Request struct {
	Decls []project.Decl
	Store *cache.Store
	// Jobs limits concurrent compilations; <= 0 means GOMAXPROCS.
	Jobs           int
	NoEmbed        bool
	Progress       ProgressSink
	MaxDiagnostics int
}

// Result holds per-template results in declaration order. Failed
// templates leave a nil entry and diagnostics in Bag.
type Result struct {
	Templates []*driver.Result
	Bag       *diag.Bag
	Timings   Timings
	// Digest combines every artifact key in declaration order; zero when a
	// template failed.
	Digest project.Digest
}

// Failed returns the number of templates without a result.
func (r *Result) Failed() int {
	n := 0
	for _, t := range r.Templates {
		if t == nil {
			n++
		}
	}
	return n
}

// Changed returns the templates whose embedded output was rewritten.
func (r *Result) Changed() []*driver.Result {
	var out []*driver.Result
	for _, t := range r.Templates {
		if t != nil && t.Changed {
			out = append(out, t)
		}
	}
	return out
}

// Generate compiles every declaration concurrently. Compilations share
// nothing except the on-disk cache. Once ctx is cancelled no new
// compilation starts.
func Generate(ctx context.Context, req Request) (*Result, error) {
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	res := &Result{
		Templates: make([]*driver.Result, len(req.Decls)),
		Bag:       diag.NewBag(req.MaxDiagnostics),
	}

	ctx, span := trace.Start(ctx, trace.ScopePass, "generate")
	defer func() {
		span.Attr("templates", strconv.Itoa(len(req.Decls))).
			Attr("failed", strconv.Itoa(res.Failed())).
			End("")
	}()

	for i := range req.Decls {
		emit(req.Progress, Event{Template: req.Decls[i].Name(), Stage: StageScan, Status: StatusQueued})
	}

	var timingsMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range req.Decls {
		if gctx.Err() != nil {
			break
		}
		decl := &req.Decls[i]
		g.Go(func() error {
			name := decl.Name()
			if err := gctx.Err(); err != nil {
				emit(req.Progress, Event{Template: name, Stage: StageScan, Status: StatusError, Err: err})
				return err
			}
			obs := newPhaseObserver(req.Progress, name)
			r, err := driver.Compile(gctx, driver.Request{
				Decl:     decl,
				Store:    req.Store,
				NoEmbed:  req.NoEmbed,
				Observer: obs.OnPhase,
			})

			timingsMu.Lock()
			for stage, d := range obs.timings {
				res.Timings.Add(stage, d)
			}
			timingsMu.Unlock()

			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					emit(req.Progress, Event{Template: name, Stage: obs.current, Status: StatusError, Err: err})
					return err
				}
				res.Bag.AddError(fmt.Errorf("%s: %w", decl.Gen.Type, err))
				emit(req.Progress, Event{Template: name, Stage: obs.current, Status: StatusError, Err: err})
				return nil
			}
			res.Templates[i] = r
			emit(req.Progress, Event{
				Template: name,
				Stage:    StageWrite,
				Status:   StatusDone,
				Elapsed:  durationFromMillis(r.Timing.TotalMS),
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Bag.Sort()
	if failed := res.Failed(); failed > 0 {
		return res, fmt.Errorf("%d of %d templates: %w", failed, len(req.Decls), ErrTemplatesFailed)
	}
	if len(res.Templates) > 0 {
		keys := make([]project.Digest, 0, len(res.Templates)-1)
		for _, t := range res.Templates[1:] {
			keys = append(keys, t.Artifact.Key)
		}
		res.Digest = project.Combine(res.Templates[0].Artifact.Key, keys...)
	}
	return res, nil
}

func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
