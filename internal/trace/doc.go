// Package trace records what the compiler is doing and for how long.
//
// Spans nest through context.Context: Start reads the tracer, the parent
// span and the document path from the context and returns a context for
// the children.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx = trace.WithDocument(ctx, "notes.md")
//	span, ctx := trace.Start(ctx, trace.ScopeStage, "render")
//	defer span.End("")
//
// The ring tracer keeps recent events in memory; the CLI dumps it when a
// command fails.
package trace
