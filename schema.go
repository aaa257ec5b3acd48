package api

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/se-clavier/api/jsonschema"
)

// ContractType returns the Go type registered under a definition name, such
// as "AuthRequest" or "Envelope_for_AuthRequest_and_AuthResponse".
func ContractType(name string) (reflect.Type, bool) {
	t, ok := contractTypes[name]
	return t, ok
}

// ContractTypeNames returns every definition name, sorted.
func ContractTypeNames() []string {
	names := make([]string, 0, len(contractTypes))
	for name := range contractTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Schema returns the JSON Schema document of the named contract type.
func Schema(name string) (jsonschema.JSONSchema, error) {
	t, ok := ContractType(name)
	if !ok {
		return jsonschema.JSONSchema{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return jsonschema.Reflect(t), nil
}
