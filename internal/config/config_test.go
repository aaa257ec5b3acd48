package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/se-clavier/api/internal/config"
)

func TestParseEnv(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		env      map[string]string
		want     config.Base
		wantProd bool
	}{
		"defaults": {
			env: map[string]string{},
			want: config.Base{
				Version:     "dev",
				Environment: "dev",
				LogLevel:    "info",
			},
		},
		"production": {
			env: map[string]string{
				"ENVIRONMENT": "prod",
				"VERSION":     "1.2.0",
				"LOG_LEVEL":   "warn",
				"SENTRY_DSN":  "https://key@example.invalid/1",
			},
			want: config.Base{
				Version:     "1.2.0",
				Environment: "prod",
				LogLevel:    "warn",
				SentryDSN:   "https://key@example.invalid/1",
			},
			wantProd: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got config.Base
			require.NoError(t, config.ParseEnv(&got, tc.env))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantProd, got.IsEnvProd())
		})
	}
}

func TestParseEnv_invalid(t *testing.T) {
	t.Parallel()

	var cfg struct {
		Port int `env:"PORT"`
	}
	require.Error(t, config.ParseEnv(&cfg, map[string]string{"PORT": "eighty"}))
}

func TestParse_missingFileIsIgnored(t *testing.T) {
	t.Parallel()

	var cfg struct {
		Name string `env:"CONFIG_TEST_UNSET_NAME" envDefault:"fallback"`
	}
	require.NoError(t, config.Parse(&cfg, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "fallback", cfg.Name)
}

func TestParse_envFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CONFIG_TEST_FILE_NAME=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CONFIG_TEST_FILE_NAME") })

	var cfg struct {
		Name string `env:"CONFIG_TEST_FILE_NAME"`
	}
	require.NoError(t, config.Parse(&cfg, path))
	assert.Equal(t, "from-file", cfg.Name)
}
