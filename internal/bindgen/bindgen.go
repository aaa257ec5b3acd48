// Package bindgen keeps the generated contract bindings in step with their
// description. It runs an external generator command, captures its stdout
// and writes it over the bindings file whenever the inputs change.
//
// The generator is opaque: any command that prints Go source works. On
// failure the configured Policy decides whether the build fails or the
// bindings already on disk are kept.
package bindgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Config configures a Generator. Relative paths are resolved against Dir,
// which is also the generator's working directory.
type Config struct {
	Dir           string        `env:"BINDGEN_DIR"`
	Command       []string      `env:"BINDGEN_COMMAND" envSeparator:" " envDefault:"go run ./cmd/contractgen api.yaml"`
	Inputs        []string      `env:"BINDGEN_INPUTS" envSeparator:"," envDefault:"api.yaml,cmd/contractgen,internal/codegen,internal/contract,jsonschema"`
	Output        string        `env:"BINDGEN_OUTPUT" envDefault:"api_gen.go"`
	Stamp         string        `env:"BINDGEN_STAMP" envDefault:".bindgen.stamp"`
	Policy        Policy        `env:"BINDGEN_POLICY" envDefault:"fail"`
	Force         bool          `env:"BINDGEN_FORCE"`
	WatchInterval time.Duration `env:"BINDGEN_WATCH_INTERVAL" envDefault:"1s"`
	// MinRegenInterval bounds how often Watch may rerun the generator.
	MinRegenInterval time.Duration `env:"BINDGEN_MIN_REGEN_INTERVAL" envDefault:"2s"`
}

// Result describes one Generate run.
type Result struct {
	RunID       string
	Fingerprint uint64
	// Skipped is set when the inputs match the stamp and nothing ran.
	Skipped bool
	// Written is set when the bindings file was replaced.
	Written bool
	// Warning holds the failure a PolicyWarn run swallowed.
	Warning error
}

// Generator regenerates one bindings file.
type Generator struct {
	cfg    Config
	runner Runner
	logger zerolog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(g *Generator) {
		g.runner = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// New validates cfg and returns a Generator. production refuses PolicyWarn:
// a production build must never ship bindings that failed to regenerate.
func New(cfg Config, production bool, opts ...Option) (*Generator, error) {
	switch {
	case len(cfg.Command) == 0 || cfg.Command[0] == "":
		return nil, ErrNoCommand
	case cfg.Output == "":
		return nil, ErrNoOutput
	case cfg.Policy != PolicyFail && cfg.Policy != PolicyWarn:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, cfg.Policy)
	case production && cfg.Policy == PolicyWarn:
		return nil, ErrWarnInProduction
	}

	g := &Generator{
		cfg:    cfg,
		runner: ExecRunner{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config { return g.cfg }

func (g *Generator) path(p string) string {
	if p == "" || filepath.IsAbs(p) || g.cfg.Dir == "" {
		return p
	}
	return filepath.Join(g.cfg.Dir, p)
}

func (g *Generator) fingerprint() (uint64, error) {
	inputs := make([]string, len(g.cfg.Inputs))
	for i, in := range g.cfg.Inputs {
		inputs[i] = g.path(in)
	}
	return Fingerprint(g.cfg.Command, inputs, g.path(g.cfg.Output), g.path(g.cfg.Stamp))
}

// Generate regenerates the bindings when the inputs changed since the last
// successful run, the bindings file is missing, or Force is set. The file is
// replaced whole or not at all.
func (g *Generator) Generate(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := g.logger.With().Str("run_id", res.RunID).Str("output", g.cfg.Output).Logger()
	start := time.Now()

	fp, err := g.fingerprint()
	if err != nil {
		return g.failed(log, res, err)
	}
	res.Fingerprint = fp

	if !g.cfg.Force && g.upToDate(fp) {
		res.Skipped = true
		log.Debug().Msg("Bindings up to date")
		return res, nil
	}

	src, err := g.run(ctx)
	if err != nil {
		return g.failed(log, res, err)
	}

	if err := writeAtomic(g.path(g.cfg.Output), src); err != nil {
		return g.failed(log, res, err)
	}
	res.Written = true

	if g.cfg.Stamp != "" {
		if err := writeAtomic(g.path(g.cfg.Stamp), []byte(formatStamp(fp))); err != nil {
			return g.failed(log, res, err)
		}
	}

	log.Info().
		Int("bytes", len(src)).
		Str("fingerprint", fmt.Sprintf("%016x", fp)).
		Dur("duration", time.Since(start)).
		Msg("Bindings regenerated")
	return res, nil
}

func (g *Generator) upToDate(fp uint64) bool {
	if _, err := os.Stat(g.path(g.cfg.Output)); err != nil {
		return false
	}
	stamp, ok := readStamp(g.path(g.cfg.Stamp))
	return ok && stamp == fp
}

func (g *Generator) run(ctx context.Context) ([]byte, error) {
	src, err := g.runner.Run(ctx, g.cfg.Dir, g.cfg.Command)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(src)) == 0 {
		return nil, ErrEmptyOutput
	}
	return src, nil
}

// failed applies the failure policy.
func (g *Generator) failed(log zerolog.Logger, res Result, err error) (Result, error) {
	if g.cfg.Policy == PolicyWarn {
		log.Warn().Err(err).Msg("Binding generation failed, keeping existing bindings")
		res.Warning = err
		return res, nil
	}
	log.Error().Err(err).Msg("Binding generation failed")
	return res, fmt.Errorf("generate %s: %w", g.cfg.Output, err)
}

// Check runs the generator and compares its output with the bindings on
// disk without writing anything. A difference is ErrStale with a line diff.
// The failure policy does not apply: a generator failure is returned.
func (g *Generator) Check(ctx context.Context) error {
	src, err := g.run(ctx)
	if err != nil {
		return fmt.Errorf("check %s: %w", g.cfg.Output, err)
	}

	current, err := os.ReadFile(g.path(g.cfg.Output))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s does not exist", ErrStale, g.cfg.Output)
	}
	if err != nil {
		return fmt.Errorf("check %s: %w", g.cfg.Output, err)
	}

	if diff := cmp.Diff(lines(current), lines(src)); diff != "" {
		return fmt.Errorf("%w: %s (-on disk +generated):\n%s", ErrStale, g.cfg.Output, diff)
	}
	return nil
}

func lines(b []byte) []string {
	return strings.Split(string(b), "\n")
}

// Watch regenerates whenever the inputs change until ctx is done. Failures
// are logged and do not stop the loop; regeneration is rate limited by
// MinRegenInterval.
func (g *Generator) Watch(ctx context.Context) error {
	interval := g.cfg.WatchInterval
	if interval <= 0 {
		interval = time.Second
	}
	limit := rate.Inf
	if g.cfg.MinRegenInterval > 0 {
		limit = rate.Every(g.cfg.MinRegenInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	g.logger.Info().Dur("interval", interval).Strs("inputs", g.cfg.Inputs).Msg("Watching binding inputs")

	regenerate := func() {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		// Failures are logged by Generate.
		_, _ = g.Generate(ctx)
	}

	last, _ := g.fingerprint()
	regenerate()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.logger.Info().Msg("Stopped watching binding inputs")
			return nil
		case <-ticker.C:
		}

		fp, err := g.fingerprint()
		if err != nil {
			g.logger.Warn().Err(err).Msg("Cannot fingerprint binding inputs")
			continue
		}
		if fp == last {
			continue
		}
		last = fp
		regenerate()
	}
}

// writeAtomic replaces path with data through a temporary file in the same
// directory, so readers never observe a partial file.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // generated source is world-readable
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
