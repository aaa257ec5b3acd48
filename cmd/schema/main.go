// Command schema prints the JSON Schema of a contract type.
//
//	go run ./cmd/schema                          // APICollection as JSON
//	go run ./cmd/schema -type AuthRequest -format yaml
//	go run ./cmd/schema -list                    // every contract type name
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/se-clavier/api"
	"github.com/se-clavier/api/jsonschema"
)

func main() {
	typeFlag := flag.String("type", "APICollection", "Contract type to describe")
	formatFlag := flag.String("format", "json", "Output format, json or yaml")
	outFlag := flag.String("o", "", "Output file (default stdout)")
	listFlag := flag.Bool("list", false, "List the contract type names and exit")
	flag.Parse()

	if *listFlag {
		fmt.Println(strings.Join(api.ContractTypeNames(), "\n"))
		return
	}

	if err := run(*typeFlag, *formatFlag, *outFlag, os.Stdout); err != nil {
		slog.Error("schema generation failed", "err", err)
		os.Exit(1)
	}
}

func run(name, format, outFile string, stdout io.Writer) error {
	s, err := api.Schema(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := jsonschema.WriteFormat(&buf, format, s); err != nil {
		return err
	}

	if outFile == "" {
		_, err = buf.WriteTo(stdout)
		return err
	}
	return os.WriteFile(outFile, buf.Bytes(), 0o644) //nolint:gosec // schema documents are world-readable
}
