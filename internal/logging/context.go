package logging

import "context"

type ctxKey struct{}

// WithAttrs returns a context carrying key–value pairs that every backend
// appends to records logged with that context. Transports use it to attach
// request ids and caller identity once per request.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	prev := attrsFrom(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func attrsFrom(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKey{}).([]any)
	return v
}

func withContextAttrs(ctx context.Context, args []any) []any {
	extra := attrsFrom(ctx)
	if len(extra) == 0 {
		return args
	}
	out := make([]any, 0, len(extra)+len(args))
	out = append(out, extra...)
	return append(out, args...)
}
