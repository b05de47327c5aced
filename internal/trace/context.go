package trace

import "context"

type (
	tracerKey   struct{}
	spanKey     struct{}
	templateKey struct{}
)

// WithTracer attaches t to ctx. A nil t detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// ForTemplate tags every event started under the returned context with the
// template type name.
func ForTemplate(ctx context.Context, typ string) context.Context {
	return context.WithValue(ctx, templateKey{}, typ)
}

func templateOf(ctx context.Context) string {
	typ, _ := ctx.Value(templateKey{}).(string)
	return typ
}

func parentOf(ctx context.Context) uint64 {
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}
