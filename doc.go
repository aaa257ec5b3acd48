// Package api is a typed request/response contract. Contract types are the
// source of truth: they are described in api.yaml, generated into
// api_gen.go, and reflected into JSON Schema by the jsonschema package, so
// the compiled types, their wire form and their schema never diverge.
//
// Every call travels in an [Envelope], a two-state union that holds either a
// request ([Call]) or a response ([Return]):
//
//	type Handler[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)
//
// [Lift] turns a Handler into a transformer over envelopes that accepts only
// the Call state and produces the Return state. Named APIs are multiplexed by
// the generated [APICollection] union and dispatched by a [Router]:
//
//	r, err := api.NewRouter(api.Handlers{Auth: login})
//	resp, err := r.Route(ctx, api.AuthCall(api.AuthRequest{Username: "u", Password: "p"}))
//
// Adding an API means adding one entry to the collection in api.yaml and
// regenerating; the generated Handlers struct gains a field and NewRouter
// refuses to build until a handler is supplied for it.
//
//go:generate go run ./cmd/bindgen
package api
