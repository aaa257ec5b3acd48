package api_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/se-clavier/api"
)

func TestEncoderFor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		format   string
		wantType string
		wantErr  error
	}{
		"json name":        {format: "json", wantType: "application/json"},
		"json media type":  {format: "application/json; charset=utf-8", wantType: "application/json"},
		"yaml name":        {format: "yaml", wantType: "application/yaml"},
		"yml alias":        {format: "YML", wantType: "application/yaml"},
		"yaml legacy type": {format: "application/x-yaml", wantType: "application/yaml"},
		"unknown":          {format: "xml", wantErr: api.ErrUnknownFormat},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			enc, err := api.EncoderFor(tc.format)
			dec, decErr := api.DecoderFor(tc.format)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.ErrorIs(t, decErr, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, decErr)
			assert.Equal(t, tc.wantType, enc.ContentType())
			assert.Equal(t, tc.wantType, dec.ContentType())
		})
	}
}

func TestRouter_Handle(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		format string
		input  string
		want   string
	}{
		"json": {
			format: "json",
			input:  `{"Auth":{"Call":{"username":"alice","password":"secret"}}}`,
			want:   `{"Auth":{"Return":{"user":{"id":1,"name":"alice"},"token":"token-alice"}}}` + "\n",
		},
		"yaml": {
			format: "yaml",
			input:  "Auth:\n  Call:\n    username: alice\n    password: secret\n",
			want: "Auth:\n" +
				"  Return:\n" +
				"    user:\n" +
				"      id: 1\n" +
				"      name: alice\n" +
				"    token: token-alice\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			enc, err := api.EncoderFor(tc.format)
			require.NoError(t, err)
			dec, err := api.DecoderFor(tc.format)
			require.NoError(t, err)

			var out bytes.Buffer
			err = newRouter(t).Handle(context.Background(), dec, enc, strings.NewReader(tc.input), &out)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.String())
		})
	}
}

func TestRouter_Handle_errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		wantErr error
	}{
		"malformed union": {
			input:   `{"Auth":{"Call":{},"Return":{}}}`,
			wantErr: api.ErrMalformedUnion,
		},
		"return is not dispatchable": {
			input:   `{"Auth":{"Return":{"user":{"id":1,"name":"a"},"token":"t"}}}`,
			wantErr: api.ErrProtocolState,
		},
		"handler failure": {
			input:   `{"Auth":{"Call":{"username":"a","password":"nope"}}}`,
			wantErr: errBadPassword,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			enc, err := api.EncoderFor("json")
			require.NoError(t, err)
			dec, err := api.DecoderFor("json")
			require.NoError(t, err)

			var out bytes.Buffer
			err = newRouter(t).Handle(context.Background(), dec, enc, strings.NewReader(tc.input), &out)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Zero(t, out.Len())
		})
	}
}
