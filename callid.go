package api

import (
	"context"

	"github.com/google/uuid"
)

type callIDKey struct{}

// CallIDConfig configures the CallID middleware.
type CallIDConfig struct {
	Generator func() string // default: random UUID
}

// CallID returns middleware that assigns a unique ID to each dispatch. An ID
// already present in the context (see WithCallID) is kept.
func CallID(cfg ...CallIDConfig) Middleware {
	c := CallIDConfig{Generator: uuid.NewString}
	if len(cfg) > 0 && cfg[0].Generator != nil {
		c.Generator = cfg[0].Generator
	}

	return func(next Dispatch) Dispatch {
		return func(ctx context.Context, col APICollection) (APICollection, error) {
			if GetCallID(ctx) == "" {
				ctx = WithCallID(ctx, c.Generator())
			}
			return next(ctx, col)
		}
	}
}

// WithCallID returns a context carrying id.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// GetCallID extracts the call ID from the context.
func GetCallID(ctx context.Context) string {
	if id, ok := ctx.Value(callIDKey{}).(string); ok {
		return id
	}
	return ""
}
