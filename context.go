package api

import "context"

type contextKey[T any] struct{}

// WithValue stores a typed value in the context. For use in middleware.
func WithValue[T any](ctx context.Context, val T) context.Context {
	return context.WithValue(ctx, contextKey[T]{}, val)
}

// Value retrieves a typed value from the context. For use in handlers.
func Value[T any](ctx context.Context) (T, bool) {
	val, ok := ctx.Value(contextKey[T]{}).(T)
	return val, ok
}
