// Package apitest provides typed test helpers for the api package.
package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/se-clavier/api"
)

// Router builds a router from h and fails the test if any handler is missing.
func Router(t testing.TB, h api.Handlers, opts ...api.RouterOption) *api.Router {
	t.Helper()
	r, err := api.NewRouter(h, opts...)
	require.NoError(t, err)
	return r
}

// Route routes c through r, fails the test on error, and checks that the
// result kept c's tag and reached the Return state.
func Route(t testing.TB, r *api.Router, c api.APICollection) api.APICollection {
	t.Helper()
	out, err := r.Route(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, c.Tag(), out.Tag(), "tag changed")
	require.Equal(t, api.StateReturn, out.State())
	return out
}

// RouteError routes c through r and returns the error, failing the test if
// routing succeeded.
func RouteError(t testing.TB, r *api.Router, c api.APICollection) error {
	t.Helper()
	_, err := r.Route(context.Background(), c)
	require.Error(t, err)
	return err
}

// Call runs h on req through Lift and returns the response.
func Call[Req, Resp any](t testing.TB, h api.Handler[Req, Resp], req Req) Resp {
	t.Helper()
	out, err := api.Lift(h)(context.Background(), api.Call[Req, Resp](req))
	require.NoError(t, err)
	return Returned(t, out)
}

// Returned returns the response held by e, failing the test unless e is in
// the Return state.
func Returned[Req, Resp any](t testing.TB, e api.Envelope[Req, Resp]) Resp {
	t.Helper()
	resp, ok := e.Response()
	require.True(t, ok, "envelope is in %s state", e.State())
	return resp
}

// RoundTrip encodes v in each format (all codecs' canonical names when
// none are given), decodes it back, and requires the result to equal v.
func RoundTrip[T any](t testing.TB, v T, formats ...string) {
	t.Helper()
	if len(formats) == 0 {
		formats = []string{"json", "yaml"}
	}
	for _, format := range formats {
		enc, err := api.EncoderFor(format)
		require.NoError(t, err)
		dec, err := api.DecoderFor(format)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, enc.Encode(&buf, v), format)

		var got T
		require.NoError(t, dec.Decode(&buf, &got), format)
		require.Equal(t, v, got, format)
	}
}

// Schema returns the JSON Schema document of the named contract type
// decoded into generic JSON values.
func Schema(t testing.TB, name string) map[string]any {
	t.Helper()
	s, err := api.Schema(name)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}
