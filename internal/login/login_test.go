package login_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/se-clavier/api"
	"github.com/se-clavier/api/internal/login"
)

func newService(t *testing.T) *login.Service {
	t.Helper()

	s, err := login.NewService(login.Config{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		Issuer:     "test",
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	_, err = s.Register("alice", "wonderland")
	require.NoError(t, err)
	return s
}

func TestNewService_config(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg login.Config
	}{
		"missing secret": {
			cfg: login.Config{TokenTTL: time.Hour},
		},
		"zero ttl": {
			cfg: login.Config{JWTSecret: "s"},
		},
		"cost too high": {
			cfg: login.Config{JWTSecret: "s", TokenTTL: time.Hour, BcryptCost: 99},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := login.NewService(tc.cfg)
			require.ErrorIs(t, err, login.ErrMisconfigured)
		})
	}
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	s := newService(t)

	bob, err := s.Register("bob", "builder")
	require.NoError(t, err)
	assert.Equal(t, api.User{ID: 2, Name: "bob"}, bob)

	_, err = s.Register("alice", "again")
	require.ErrorIs(t, err, login.ErrConflict)

	_, err = s.Register("  ", "pw")
	require.ErrorIs(t, err, login.ErrInvalidCredentials)
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		req     api.AuthRequest
		wantErr error
	}{
		"valid credentials": {
			req: api.AuthRequest{Username: "alice", Password: "wonderland"},
		},
		"wrong password": {
			req:     api.AuthRequest{Username: "alice", Password: "looking-glass"},
			wantErr: login.ErrInvalidCredentials,
		},
		"unknown user": {
			req:     api.AuthRequest{Username: "mallory", Password: "wonderland"},
			wantErr: login.ErrInvalidCredentials,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := newService(t)
			resp, err := s.Login(context.Background(), tc.req)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, resp.Token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, api.User{ID: 1, Name: "alice"}, resp.User)

			user, err := s.ParseToken(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, resp.User, user)
		})
	}
}

func TestService_Login_cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(t).Login(ctx, api.AuthRequest{Username: "alice", Password: "wonderland"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestService_ParseToken_rejects(t *testing.T) {
	t.Parallel()

	s := newService(t)
	resp, err := s.Login(context.Background(), api.AuthRequest{Username: "alice", Password: "wonderland"})
	require.NoError(t, err)

	other, err := login.NewService(login.Config{JWTSecret: "other-secret", TokenTTL: time.Hour, Issuer: "test", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	otherIssuer, err := login.NewService(login.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, Issuer: "elsewhere", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	expired := newService(t)
	expired.SetClock(func() time.Time { return time.Now().Add(2 * time.Hour) })

	tests := map[string]struct {
		svc   *login.Service
		token string
	}{
		"garbage":       {svc: s, token: "not-a-token"},
		"tampered":      {svc: s, token: resp.Token + "x"},
		"wrong secret":  {svc: other, token: resp.Token},
		"wrong issuer":  {svc: otherIssuer, token: resp.Token},
		"expired token": {svc: expired, token: resp.Token},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.svc.ParseToken(tc.token)
			require.ErrorIs(t, err, login.ErrInvalidToken)
		})
	}
}

func TestService_asHandler(t *testing.T) {
	t.Parallel()

	s := newService(t)
	r, err := api.NewRouter(api.Handlers{Auth: s.Login})
	require.NoError(t, err)

	out, err := r.Route(context.Background(), api.AuthCall(api.AuthRequest{Username: "alice", Password: "wonderland"}))
	require.NoError(t, err)

	env, ok := out.Auth()
	require.True(t, ok)
	resp, ok := env.Response()
	require.True(t, ok)
	assert.Equal(t, "alice", resp.User.Name)
	assert.NotEmpty(t, resp.Token)
}
