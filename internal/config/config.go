// Package config loads command configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Production is the ENVIRONMENT value of production deployments.
const Production = "prod"

// Base holds the settings every command shares.
type Base struct {
	Version     string `env:"VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string `env:"SENTRY_DSN"`
}

// IsEnvProd reports whether the process runs in production.
func (b Base) IsEnvProd() bool {
	return b.Environment == Production
}

// Parse fills v from the environment after loading files (default ".env")
// when they exist. Variables already set in the process win over the files.
func Parse(v any, files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return ParseEnv(v, nil)
}

// ParseEnv fills v from environment, or from the process environment when
// environment is nil. It does not read any file.
func ParseEnv(v any, environment map[string]string) error {
	opts := env.Options{Environment: environment}
	if err := env.ParseWithOptions(v, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
