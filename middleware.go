package api

import (
	"context"
	"log/slog"
	"runtime/debug"
)

// Dispatch routes one collection value. It is the unit middleware wraps.
type Dispatch func(ctx context.Context, c APICollection) (APICollection, error)

// Middleware decorates a Dispatch. It must not change the tag of the value
// it returns; Router.Route rejects such results with ErrTagMismatch.
type Middleware func(next Dispatch) Dispatch

// Recovery returns middleware that turns a handler panic into a *PanicError.
func Recovery() Middleware {
	return func(next Dispatch) Dispatch {
		return func(ctx context.Context, c APICollection) (out APICollection, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := debug.Stack()
					slog.ErrorContext(ctx, "panic recovered",
						"panic", rec,
						"stack", string(stack),
						"tag", c.Tag(),
					)
					out, err = APICollection{}, &PanicError{Tag: c.Tag(), Value: rec, Stack: stack}
				}
			}()
			return next(ctx, c)
		}
	}
}
