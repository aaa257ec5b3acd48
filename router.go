package api

import (
	"context"
	"fmt"
	"slices"
)

// Router dispatches APICollection values to the handler bound to their tag.
// Every tag has a handler: NewRouter refuses an incomplete Handlers table.
type Router struct {
	handlers   Handlers
	middleware []Middleware
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithMiddleware appends middleware at construction time. It is equivalent
// to calling Use on the new router.
func WithMiddleware(mw ...Middleware) RouterOption {
	return func(r *Router) {
		r.middleware = append(r.middleware, mw...)
	}
}

// NewRouter creates a Router over h. It fails with ErrMissingHandler when
// any variant of APICollection has no handler.
func NewRouter(h Handlers, opts ...RouterOption) (*Router, error) {
	if missing := h.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingHandler, missing)
	}

	r := &Router{handlers: h}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Use adds middleware to the router. Middleware is applied in the order
// added: the first one registered sees the call first.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Route dispatches c to its handler and returns the result under the same
// tag. Only envelopes in the Call state are accepted; the result of a
// successful Route is always in the Return state and cannot be routed again.
//
// Handler errors are returned unchanged.
func (r *Router) Route(ctx context.Context, c APICollection) (APICollection, error) {
	if c.Tag() == "" {
		return APICollection{}, fmt.Errorf("route: %w", ErrEmptyUnion)
	}

	out, err := r.chain()(ctx, c)
	if err != nil {
		return APICollection{}, err
	}
	if out.Tag() != c.Tag() {
		return APICollection{}, fmt.Errorf("%w: %s became %q", ErrTagMismatch, c.Tag(), out.Tag())
	}
	return out, nil
}

// Tags returns the tags the router dispatches, sorted.
func (r *Router) Tags() []string {
	variants := APICollection{}.UnionVariants()
	tags := make([]string, 0, len(variants))
	for _, v := range variants {
		tags = append(tags, v.Tag)
	}
	slices.Sort(tags)
	return tags
}

func (r *Router) chain() Dispatch {
	d := Dispatch(r.handlers.dispatch)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		d = r.middleware[i](d)
	}
	return d
}
