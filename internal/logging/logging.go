// Package logging builds the zerolog logger used by the build tooling.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/se-clavier/api/internal/config"
)

// New is the fx constructor: it builds the logger for cfg and flushes
// Sentry when the application stops.
func New(lc fx.Lifecycle, cfg config.Base) zerolog.Logger {
	logger, sentryWriter := NewLogger(cfg, os.Stderr)
	if sentryWriter != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sentryWriter.Close()
				sentry.Flush(2 * time.Second)
				return nil
			},
		})
	}
	return logger
}

// NewLogger returns pretty console output for development or JSON output for
// production. In production with a SENTRY_DSN, errors are also sent to
// Sentry and the returned writer is non-nil.
func NewLogger(cfg config.Base, out io.Writer) (zerolog.Logger, *sentryzerolog.Writer) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	if !cfg.IsEnvProd() {
		return console(out).Level(level), nil
	}

	prod := zerolog.New(out).
		With().
		Timestamp().
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Logger().
		Level(level)

	if cfg.SentryDSN == "" {
		return prod, nil
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.Version,
		AttachStacktrace: true,
	})
	if err != nil {
		prod.Error().Err(err).Msg("Failed to initialize Sentry, using stderr only")
		return prod, nil
	}

	sentryWriter, err := sentryzerolog.New(sentryzerolog.Config{
		Options: sentryzerolog.Options{
			Levels:          []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
			WithBreadcrumbs: true,
			FlushTimeout:    3 * time.Second,
		},
	})
	if err != nil {
		prod.Error().Err(err).Msg("Failed to initialize Sentry writer, using stderr only")
		return prod, nil
	}

	return zerolog.New(zerolog.MultiLevelWriter(out, sentryWriter)).
		With().
		Timestamp().
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Logger().
		Level(level), sentryWriter
}

func console(out io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).
		With().
		Timestamp().
		Logger()
}
