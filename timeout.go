package api

import (
	"context"
	"time"
)

// Timeout returns middleware that bounds the handler's context to d.
// Handlers observe the deadline through ctx; a handler that ignores it still
// runs to completion.
func Timeout(d time.Duration) Middleware {
	return func(next Dispatch) Dispatch {
		return func(ctx context.Context, c APICollection) (APICollection, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, c)
		}
	}
}
