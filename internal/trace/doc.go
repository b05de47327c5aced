// Package trace records what natec did during a command: CLI operations,
// pipeline passes, one compilation per template and the includes it pulled in.
//
// A Tracer travels in the context. Events below the tracer's level are
// dropped before they are built, so the disabled path costs a context lookup.
//
//	ctx = trace.WithTracer(ctx, t)
//	ctx = trace.ForTemplate(ctx, "Greeting")
//	ctx, span := trace.Start(ctx, trace.ScopeTemplate, "scan")
//	defer span.End("12 blocks")
//
// Three sinks exist. Stream writes each event as it happens (text or NDJSON),
// Ring keeps the most recent events in memory so they can be printed after a
// failure, and Fanout sends to both.
package trace
