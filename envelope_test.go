package api_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/se-clavier/api"
)

type authEnvelope = api.Envelope[api.AuthRequest, api.AuthResponse]

func TestEnvelope_constructors(t *testing.T) {
	t.Parallel()

	req := api.AuthRequest{Username: "alice", Password: "secret"}
	resp := api.AuthResponse{User: api.User{ID: 7, Name: "alice"}, Token: "tok"}

	call := api.Call[api.AuthRequest, api.AuthResponse](req)
	assert.Equal(t, api.StateCall, call.State())
	got, ok := call.Request()
	assert.True(t, ok)
	assert.Equal(t, req, got)
	_, ok = call.Response()
	assert.False(t, ok)

	ret := api.Return[api.AuthRequest, api.AuthResponse](resp)
	assert.Equal(t, api.StateReturn, ret.State())
	gotResp, ok := ret.Response()
	assert.True(t, ok)
	assert.Equal(t, resp, gotResp)
	_, ok = ret.Request()
	assert.False(t, ok)

	var zero authEnvelope
	assert.Equal(t, api.StateEmpty, zero.State())
	_, ok = zero.Request()
	assert.False(t, ok)
	_, ok = zero.Response()
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		state api.State
		want  string
	}{
		"empty":   {state: api.StateEmpty, want: "Empty"},
		"call":    {state: api.StateCall, want: "Call"},
		"return":  {state: api.StateReturn, want: "Return"},
		"unknown": {state: api.State(9), want: "State(9)"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.state.String())
		})
	}
}

func TestEnvelope_JSON(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		env  authEnvelope
		want string
	}{
		"call": {
			env:  api.Call[api.AuthRequest, api.AuthResponse](api.AuthRequest{Username: "u", Password: "p"}),
			want: `{"Call":{"username":"u","password":"p"}}`,
		},
		"return": {
			env:  api.Return[api.AuthRequest, api.AuthResponse](api.AuthResponse{User: api.User{ID: 1, Name: "u"}, Token: "t"}),
			want: `{"Return":{"user":{"id":1,"name":"u"},"token":"t"}}`,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tc.env)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(data))

			var back authEnvelope
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tc.env, back)
		})
	}
}

func TestEnvelope_YAML(t *testing.T) {
	t.Parallel()

	env := api.Call[api.AuthRequest, api.AuthResponse](api.AuthRequest{Username: "u", Password: "p"})

	data, err := yaml.Marshal(env)
	require.NoError(t, err)
	assert.Equal(t, "Call:\n    username: u\n    password: p\n", string(data))

	var back authEnvelope
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, env, back)
}

func TestEnvelope_marshalEmpty(t *testing.T) {
	t.Parallel()

	var zero authEnvelope

	_, err := json.Marshal(zero)
	require.ErrorIs(t, err, api.ErrEmptyUnion)

	_, err = yaml.Marshal(zero)
	require.ErrorIs(t, err, api.ErrEmptyUnion)
}

func TestEnvelope_UnmarshalJSON_errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		wantErr error
	}{
		"no keys": {
			input:   `{}`,
			wantErr: api.ErrMalformedUnion,
		},
		"both variants": {
			input:   `{"Call":{"username":"u","password":"p"},"Return":{"user":{"id":1,"name":"u"},"token":"t"}}`,
			wantErr: api.ErrMalformedUnion,
		},
		"unknown tag": {
			input:   `{"Reply":{}}`,
			wantErr: api.ErrUnknownVariant,
		},
		"repeated tag": {
			input:   `{"Call":{"username":"a"},"Call":{"username":"b"}}`,
			wantErr: api.ErrMalformedUnion,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var e authEnvelope
			err := json.Unmarshal([]byte(tc.input), &e)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, api.StateEmpty, e.State())
		})
	}
}

func TestEnvelope_UnmarshalJSON_notObject(t *testing.T) {
	t.Parallel()

	var e authEnvelope
	require.Error(t, json.Unmarshal([]byte(`["Call"]`), &e))
	require.Error(t, json.Unmarshal([]byte(`{"Call":"nope"}`), &e))
}

func TestEnvelope_UnmarshalYAML_errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		wantErr error
	}{
		"scalar": {
			input:   "Call\n",
			wantErr: api.ErrMalformedUnion,
		},
		"two keys": {
			input:   "Call: {}\nReturn: {}\n",
			wantErr: api.ErrMalformedUnion,
		},
		"unknown tag": {
			input:   "Reply: {}\n",
			wantErr: api.ErrUnknownVariant,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var e authEnvelope
			err := yaml.Unmarshal([]byte(tc.input), &e)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestEnvelope_nullPayload(t *testing.T) {
	t.Parallel()

	var fromJSON, fromYAML authEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"Call":null}`), &fromJSON))
	require.NoError(t, yaml.Unmarshal([]byte("Call: ~\n"), &fromYAML))

	want := api.Call[api.AuthRequest, api.AuthResponse](api.AuthRequest{})
	assert.Equal(t, want, fromJSON)
	assert.Equal(t, want, fromYAML)
}
