package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/se-clavier/api/internal/bindgen"
	"github.com/se-clavier/api/internal/config"
)

type staticRunner struct {
	out []byte
	err error
}

func (r staticRunner) Run(context.Context, string, []string) ([]byte, error) {
	return r.out, r.err
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENVIRONMENT", config.Production)
	t.Setenv("BINDGEN_COMMAND", "contractgen -o - api.yaml")
	t.Setenv("BINDGEN_POLICY", "warn")

	base, cfg, err := loadConfig(options{})
	require.NoError(t, err)
	assert.True(t, base.IsEnvProd())
	assert.Equal(t, []string{"contractgen", "-o", "-", "api.yaml"}, cfg.Command)
	assert.Equal(t, bindgen.PolicyWarn, cfg.Policy)
	assert.Equal(t, "api_gen.go", cfg.Output)
	assert.False(t, cfg.Force)

	base, cfg, err = loadConfig(options{policy: "fail", force: true, dir: "/src"})
	require.NoError(t, err)
	assert.Equal(t, bindgen.PolicyFail, cfg.Policy)
	assert.True(t, cfg.Force)
	assert.Equal(t, "/src", cfg.Dir)

	_, err = newGenerator(cfg, base, zerolog.Nop())
	require.NoError(t, err)

	cfg.Policy = bindgen.PolicyWarn
	_, err = newGenerator(cfg, base, zerolog.Nop())
	require.ErrorIs(t, err, bindgen.ErrWarnInProduction)
}

func TestLoadConfig_badPolicy(t *testing.T) {
	_, _, err := loadConfig(options{policy: "sometimes"})
	require.ErrorIs(t, err, bindgen.ErrUnknownPolicy)
}

func TestExecute(t *testing.T) {
	t.Parallel()

	const src = "package api\n"

	tests := map[string]struct {
		mode   mode
		runner staticRunner
		onDisk string
		want   int
	}{
		"generate": {
			mode:   modeGenerate,
			runner: staticRunner{out: []byte(src)},
			want:   0,
		},
		"generate fails": {
			mode:   modeGenerate,
			runner: staticRunner{err: bindgen.ErrGeneratorNotFound},
			want:   1,
		},
		"check fresh": {
			mode:   modeCheck,
			runner: staticRunner{out: []byte(src)},
			onDisk: src,
			want:   0,
		},
		"check stale": {
			mode:   modeCheck,
			runner: staticRunner{out: []byte(src)},
			onDisk: "package old\n",
			want:   1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "api.yaml"), []byte("package: api\n"), 0o600))
			if tc.onDisk != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "api_gen.go"), []byte(tc.onDisk), 0o600))
			}

			g, err := bindgen.New(bindgen.Config{
				Dir:     dir,
				Command: []string{"contractgen"},
				Inputs:  []string{"api.yaml"},
				Output:  "api_gen.go",
			}, false, bindgen.WithRunner(tc.runner))
			require.NoError(t, err)

			var logs bytes.Buffer
			assert.Equal(t, tc.want, execute(context.Background(), g, tc.mode, zerolog.New(&logs)))
		})
	}
}

func TestExecute_watchStopsOnCancel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.yaml"), []byte("package: api\n"), 0o600))

	g, err := bindgen.New(bindgen.Config{
		Dir:           dir,
		Command:       []string{"contractgen"},
		Inputs:        []string{"api.yaml"},
		Output:        "api_gen.go",
		WatchInterval: 5 * time.Millisecond,
	}, false, bindgen.WithRunner(staticRunner{out: []byte("package api\n")}))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.Equal(t, 0, execute(ctx, g, modeWatch, zerolog.Nop()))
	assert.FileExists(t, filepath.Join(dir, "api_gen.go"))
}
