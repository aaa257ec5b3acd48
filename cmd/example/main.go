// Command example routes one APICollection value through a Router backed by
// the login service and prints the result.
//
//	go run ./cmd/example                            // sample Auth call, JSON
//	go run ./cmd/example -format yaml
//	go run ./cmd/example -in call.json
//
// A demo account (demo / demo-password) is registered on start. Login
// settings come from LOGIN_* variables; without LOGIN_JWT_SECRET a fixed
// demo secret is used.
package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/se-clavier/api"
	"github.com/se-clavier/api/internal/config"
	"github.com/se-clavier/api/internal/login"
)

const (
	demoUser     = "demo"
	demoPassword = "demo-password"
	demoSecret   = "example-secret-do-not-use"
)

func main() {
	inFlag := flag.String("in", "", "Read the APICollection value from this file (default: a sample Auth call)")
	formatFlag := flag.String("format", "json", "Wire format, json or yaml")
	flag.Parse()

	os.Exit(serve(*inFlag, *formatFlag))
}

func serve(inFile, format string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var in io.Reader
	if inFile != "" {
		f, err := os.Open(inFile)
		if err != nil {
			slog.Error("open input", "err", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	if err := run(ctx, in, format, os.Stdout, logger); err != nil {
		slog.Error("example failed", "err", err)
		return 1
	}
	return 0
}

// run routes the value read from in, or a sample Auth call when in is nil.
func run(ctx context.Context, in io.Reader, format string, out io.Writer, logger *slog.Logger) error {
	dec, err := api.DecoderFor(format)
	if err != nil {
		return err
	}
	enc, err := api.EncoderFor(format)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	r, err := newRouter(svc, logger)
	if err != nil {
		return err
	}

	if in == nil {
		var buf bytes.Buffer
		call := api.AuthCall(api.AuthRequest{Username: demoUser, Password: demoPassword})
		if err := enc.Encode(&buf, call); err != nil {
			return err
		}
		in = &buf
	}

	return r.Handle(ctx, dec, enc, in, out)
}

func newService() (*login.Service, error) {
	var cfg login.Config
	if err := config.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = demoSecret
	}

	svc, err := login.NewService(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := svc.Register(demoUser, demoPassword); err != nil {
		return nil, err
	}
	return svc, nil
}

func newRouter(svc *login.Service, logger *slog.Logger) (*api.Router, error) {
	return api.NewRouter(
		api.Handlers{Auth: svc.Login},
		api.WithMiddleware(
			api.Recovery(),
			api.CallID(),
			api.Logger(logger),
			api.Timeout(5*time.Second),
		),
	)
}
