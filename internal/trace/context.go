package trace

import "context"

type (
	tracerKey   struct{}
	spanKey     struct{}
	documentKey struct{}
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil t attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// WithDocument tags every span started under ctx with the document path.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, documentKey{}, path)
}

// DocumentFrom returns the document path set by WithDocument.
func DocumentFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	path, _ := ctx.Value(documentKey{}).(string)
	return path
}

// parentFrom returns the ID of the innermost span started under ctx.
func parentFrom(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}
