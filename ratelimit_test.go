package api_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/se-clavier/api"
)

func TestRateLimit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		rate        float64
		burst       int
		numCalls    int
		wantOK      int
		wantLimited int
	}{
		"calls within rate succeed": {
			rate:        100,
			burst:       10,
			numCalls:    5,
			wantOK:      5,
			wantLimited: 0,
		},
		"calls exceeding rate are rejected": {
			rate:        0.001,
			burst:       1,
			numCalls:    5,
			wantOK:      1,
			wantLimited: 4,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := newRouter(t, api.WithMiddleware(api.RateLimit(api.RateLimitConfig{
				Rate:  tc.rate,
				Burst: tc.burst,
			})))

			okCount := 0
			limitedCount := 0
			for range tc.numCalls {
				_, err := r.Route(context.Background(), api.AuthCall(api.AuthRequest{Password: "secret"}))
				switch {
				case err == nil:
					okCount++
				default:
					require.ErrorIs(t, err, api.ErrRateLimited)
					limitedCount++
				}
			}

			assert.Equal(t, tc.wantOK, okCount)
			assert.Equal(t, tc.wantLimited, limitedCount)
		})
	}
}

func TestRateLimit_customKey(t *testing.T) {
	t.Parallel()

	type tenant string

	r := newRouter(t, api.WithMiddleware(api.RateLimit(api.RateLimitConfig{
		Rate:  0.001,
		Burst: 1,
		KeyFunc: func(ctx context.Context, _ api.APICollection) string {
			v, _ := api.Value[tenant](ctx)
			return string(v)
		},
	})))

	call := api.AuthCall(api.AuthRequest{Password: "secret"})
	a := api.WithValue(context.Background(), tenant("a"))
	b := api.WithValue(context.Background(), tenant("b"))

	_, err := r.Route(a, call)
	require.NoError(t, err)
	_, err = r.Route(b, call)
	require.NoError(t, err)

	_, err = r.Route(a, call)
	require.ErrorIs(t, err, api.ErrRateLimited)
}
