package trace

import (
	"context"
	"time"
)

// Span is an open Begin/End pair. The zero Span, returned when the scope is
// filtered out, ignores every call.
type Span struct {
	tracer   Tracer
	id       uint64
	parent   uint64
	scope    Scope
	template string
	name     string
	started  time.Time
	attrs    []Attr
}

// Start opens a span under the span recorded in ctx and returns a context in
// which the new span is the parent.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Level().Allows(scope) {
		return ctx, &Span{}
	}
	s := &Span{
		tracer:   t,
		id:       nextSpanID(),
		parent:   parentOf(ctx),
		scope:    scope,
		template: templateOf(ctx),
		name:     name,
		started:  time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Seq:      nextSeq(),
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Template: s.template,
		Name:     name,
	})
	return context.WithValue(ctx, spanKey{}, s.id), s
}

// Attr adds a key/value pair reported on the end event.
func (s *Span) Attr(key, value string) *Span {
	if s.tracer != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s.tracer == nil {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.tracer.Emit(&Event{
		Time:     now,
		Seq:      nextSeq(),
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Template: s.template,
		Name:     s.name,
		Detail:   detail,
		Elapsed:  elapsed,
		Attrs:    s.attrs,
	})
	s.tracer = nil
	return elapsed
}

// ID is zero for filtered spans.
func (s *Span) ID() uint64 { return s.id }

// Point records an instant event under the current span.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Level().Allows(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parentOf(ctx),
		Template: templateOf(ctx),
		Name:     name,
		Detail:   detail,
	})
}
