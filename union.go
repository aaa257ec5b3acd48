package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// decodeJSONVariant splits a single-key object into its tag and payload.
// Repeated keys count separately, so {"Call":1,"Call":2} is malformed.
func decodeJSONVariant(data []byte) (string, json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return "", nil, err
	}
	if tok != json.Delim('{') {
		return "", nil, fmt.Errorf("%w: got %s", ErrMalformedUnion, jsonKind(tok))
	}

	var (
		tag  string
		raw  json.RawMessage
		keys int
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, err
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return "", nil, err
		}
		if keys == 0 {
			tag, _ = tok.(string)
			raw = value
		}
		keys++
	}
	if _, err := dec.Token(); err != nil {
		return "", nil, err
	}

	if keys != 1 {
		return "", nil, fmt.Errorf("%w: got %d keys", ErrMalformedUnion, keys)
	}
	return tag, raw, nil
}

func jsonKind(tok json.Token) string {
	switch tok.(type) {
	case nil:
		return "null"
	case json.Delim:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	default:
		return "number"
	}
}

// decodeYAMLVariant is decodeJSONVariant for a YAML mapping node.
func decodeYAMLVariant(node *yaml.Node) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return "", nil, fmt.Errorf("%w: line %d is not a mapping", ErrMalformedUnion, node.Line)
	}
	if len(node.Content) != 2 {
		return "", nil, fmt.Errorf("%w: got %d keys", ErrMalformedUnion, len(node.Content)/2)
	}
	return node.Content[0].Value, node.Content[1], nil
}
