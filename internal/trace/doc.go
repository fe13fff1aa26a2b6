// Package trace records what semdoc does while rendering a registry.
//
// Tracing is off by default. The CLI turns it on with persistent flags:
//
//	semdoc render --trace=- --trace-level=detail model/
//
// # Tracers
//
//   - Nop: disabled tracing, every call returns immediately
//   - StreamTracer: writes each event as soon as it is emitted
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits driver spans, LevelDetail adds one span per batch and
// LevelDebug adds one span per rendered attribute.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeBatch, "render", trace.ParentFrom(ctx))
//	defer span.End("")
package trace
