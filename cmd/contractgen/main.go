// Command contractgen prints the Go bindings for a contract description.
//
// It is the generator internal/bindgen runs during go generate; its stdout
// becomes api_gen.go. It must build without the package it generates.
//
//	go run ./cmd/contractgen api.yaml > api_gen.go
//	go run ./cmd/contractgen -o api_gen.go api.yaml
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/se-clavier/api/internal/codegen"
	"github.com/se-clavier/api/internal/contract"
)

func main() {
	outFlag := flag.String("o", "", "Output file (default stdout)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: contractgen [-o file] [description.yaml]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	path := "api.yaml"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	if err := run(path, *outFlag, os.Stdout); err != nil {
		slog.Error("contractgen failed", "err", err)
		os.Exit(1)
	}
}

func run(path, outFile string, stdout io.Writer) error {
	d, err := contract.Load(path)
	if err != nil {
		return err
	}

	// Render fully before touching the output so a failure leaves it intact.
	var buf bytes.Buffer
	if err := codegen.Generate(&buf, d, path); err != nil {
		return err
	}

	if outFile == "" {
		_, err = buf.WriteTo(stdout)
		return err
	}
	return os.WriteFile(outFile, buf.Bytes(), 0o644) //nolint:gosec // generated source is world-readable
}
