package api_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/se-clavier/api"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		req        api.AuthRequest
		wantSubstr []string
	}{
		"dispatch is logged": {
			req: api.AuthRequest{Username: "a", Password: "secret"},
			wantSubstr: []string{
				"msg=dispatch",
				"level=INFO",
				"tag=Auth",
				"state=Call",
				"result=Return",
				"latency=",
				"call_id=call-1",
			},
		},
		"failure is logged at error level": {
			req: api.AuthRequest{Username: "a", Password: "wrong"},
			wantSubstr: []string{
				"level=ERROR",
				"tag=Auth",
				"result=Empty",
				`error="bad password"`,
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			r := newRouter(t,
				api.WithMiddleware(api.CallID(api.CallIDConfig{Generator: func() string { return "call-1" }})),
				api.WithMiddleware(api.Logger(logger)),
			)

			_, _ = r.Route(context.Background(), api.AuthCall(tc.req))

			out := buf.String()
			require.NotEmpty(t, out)
			for _, s := range tc.wantSubstr {
				assert.Contains(t, out, s)
			}
		})
	}
}
