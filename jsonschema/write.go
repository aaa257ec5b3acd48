package jsonschema

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Write writes s as indented JSON to w.
func Write(w io.Writer, s JSONSchema) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteYAML writes s as YAML to w.
func WriteYAML(w io.Writer, s JSONSchema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFormat writes s in the named format, "json" or "yaml".
func WriteFormat(w io.Writer, format string, s JSONSchema) error {
	switch format {
	case "", "json":
		return Write(w, s)
	case "yaml", "yml":
		return WriteYAML(w, s)
	default:
		return fmt.Errorf("jsonschema: unknown format %q", format)
	}
}
