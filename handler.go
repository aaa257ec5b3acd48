package api

import "context"

// Handler is the plain request/response function behind one API. It never
// sees an Envelope; Lift adapts it.
type Handler[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// EnvelopeFunc transforms an envelope in the Call state into one in the
// Return state.
type EnvelopeFunc[Req, Resp any] func(ctx context.Context, e Envelope[Req, Resp]) (Envelope[Req, Resp], error)

// Lift wraps h so it consumes a Call envelope and produces a Return envelope.
//
// An envelope in any other state is rejected with a *StateError before h is
// invoked. Errors returned by h are passed through unchanged.
func Lift[Req, Resp any](h Handler[Req, Resp]) EnvelopeFunc[Req, Resp] {
	return func(ctx context.Context, e Envelope[Req, Resp]) (Envelope[Req, Resp], error) {
		req, ok := e.Request()
		if !ok {
			return Envelope[Req, Resp]{}, &StateError{State: e.State()}
		}
		if h == nil {
			return Envelope[Req, Resp]{}, ErrNilHandler
		}

		resp, err := h(ctx, req)
		if err != nil {
			return Envelope[Req, Resp]{}, err
		}
		return Return[Req, Resp](resp), nil
	}
}
