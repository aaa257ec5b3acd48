// Command bindgen regenerates api_gen.go from api.yaml. It is what
// go generate runs:
//
//	go generate ./...
//	go run ./cmd/bindgen -check    // fail when api_gen.go is stale
//	go run ./cmd/bindgen -watch    // regenerate on every change
//
// Settings come from the environment (BINDGEN_*, see bindgen.Config) and an
// optional .env file; flags override them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/se-clavier/api/internal/bindgen"
	"github.com/se-clavier/api/internal/config"
	"github.com/se-clavier/api/internal/logging"
)

type mode int

const (
	modeGenerate mode = iota
	modeCheck
	modeWatch
)

// options are the command-line overrides.
type options struct {
	mode   mode
	force  bool
	policy string
	dir    string
}

func main() {
	var (
		o     options
		check bool
		watch bool
	)
	flag.BoolVar(&check, "check", false, "Compare api_gen.go with fresh output and exit non-zero when stale")
	flag.BoolVar(&watch, "watch", false, "Regenerate whenever the inputs change")
	flag.BoolVar(&o.force, "force", false, "Regenerate even when the inputs are unchanged")
	flag.StringVar(&o.policy, "policy", "", "Failure policy, fail or warn (overrides BINDGEN_POLICY)")
	flag.StringVar(&o.dir, "C", "", "Run in this directory (overrides BINDGEN_DIR)")
	flag.Parse()

	switch {
	case check && watch:
		fmt.Fprintln(os.Stderr, "bindgen: -check and -watch are mutually exclusive")
		os.Exit(2)
	case check:
		o.mode = modeCheck
	case watch:
		o.mode = modeWatch
	}

	fx.New(
		fx.NopLogger,
		fx.Supply(o),
		fx.Provide(
			loadConfig,
			logging.New,
			newGenerator,
		),
		fx.Invoke(register),
	).Run()
}

// loadConfig reads the shared and generator settings and applies o.
func loadConfig(o options) (config.Base, bindgen.Config, error) {
	var (
		base config.Base
		cfg  bindgen.Config
	)
	if err := config.Parse(&base); err != nil {
		return base, cfg, err
	}
	if err := config.Parse(&cfg); err != nil {
		return base, cfg, err
	}

	if o.policy != "" {
		p, err := bindgen.ParsePolicy(o.policy)
		if err != nil {
			return base, cfg, err
		}
		cfg.Policy = p
	}
	if o.force {
		cfg.Force = true
	}
	if o.dir != "" {
		cfg.Dir = o.dir
	}
	return base, cfg, nil
}

func newGenerator(cfg bindgen.Config, base config.Base, logger zerolog.Logger) (*bindgen.Generator, error) {
	return bindgen.New(cfg, base.IsEnvProd(), bindgen.WithLogger(logger))
}

// register runs the selected mode once the application has started and
// shuts it down with the mode's exit code.
func register(lc fx.Lifecycle, sd fx.Shutdowner, g *bindgen.Generator, o options, logger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				code := execute(ctx, g, o.mode, logger)
				if err := sd.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Debug().Err(err).Msg("Shutdown")
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

// execute runs one mode and returns the process exit code. Failures are
// logged here or by the generator.
func execute(ctx context.Context, g *bindgen.Generator, m mode, logger zerolog.Logger) int {
	switch m {
	case modeCheck:
		if err := g.Check(ctx); err != nil {
			logger.Error().Err(err).Msg("Bindings check failed")
			return 1
		}
		logger.Info().Str("output", g.Config().Output).Msg("Bindings are up to date")
		return 0
	case modeWatch:
		if err := g.Watch(ctx); err != nil {
			logger.Error().Err(err).Msg("Watch stopped")
			return 1
		}
		return 0
	default:
		if _, err := g.Generate(ctx); err != nil {
			return 1
		}
		return 0
	}
}
