package api

import (
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/se-clavier/api/jsonschema"
)

// Variant tags of an Envelope.
const (
	TagCall   = "Call"
	TagReturn = "Return"
)

// State is the variant an Envelope holds.
type State uint8

// Envelope states. StateEmpty is the zero value and is never produced by a
// constructor.
const (
	StateEmpty State = iota
	StateCall
	StateReturn
)

// String returns the state's tag, or "Empty".
func (s State) String() string {
	switch s {
	case StateCall:
		return TagCall
	case StateReturn:
		return TagReturn
	case StateEmpty:
		return "Empty"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Envelope carries either the request or the response of one API call,
// never both. Build one with Call or Return.
type Envelope[Req, Resp any] struct {
	state State
	req   Req
	resp  Resp
}

// Call returns an envelope in the Call state holding req.
func Call[Req, Resp any](req Req) Envelope[Req, Resp] {
	return Envelope[Req, Resp]{state: StateCall, req: req}
}

// Return returns an envelope in the Return state holding resp.
func Return[Req, Resp any](resp Resp) Envelope[Req, Resp] {
	return Envelope[Req, Resp]{state: StateReturn, resp: resp}
}

// State returns the variant e holds.
func (e Envelope[Req, Resp]) State() State { return e.state }

// Request returns the request and whether e is in the Call state.
func (e Envelope[Req, Resp]) Request() (Req, bool) {
	return e.req, e.state == StateCall
}

// Response returns the response and whether e is in the Return state.
func (e Envelope[Req, Resp]) Response() (Resp, bool) {
	return e.resp, e.state == StateReturn
}

// UnionVariants implements jsonschema.Union.
func (Envelope[Req, Resp]) UnionVariants() []jsonschema.Variant {
	return []jsonschema.Variant{
		{Tag: TagCall, Type: reflect.TypeFor[Req]()},
		{Tag: TagReturn, Type: reflect.TypeFor[Resp]()},
	}
}

// payload returns the tag and value of the state e holds.
func (e Envelope[Req, Resp]) payload() (string, any, error) {
	switch e.state {
	case StateCall:
		return TagCall, e.req, nil
	case StateReturn:
		return TagReturn, e.resp, nil
	default:
		return "", nil, fmt.Errorf("envelope: %w", ErrEmptyUnion)
	}
}

// MarshalJSON encodes e as {"Call": req} or {"Return": resp}.
func (e Envelope[Req, Resp]) MarshalJSON() ([]byte, error) {
	tag, v, err := e.payload()
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]any{tag: v})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (e *Envelope[Req, Resp]) UnmarshalJSON(data []byte) error {
	tag, raw, err := decodeJSONVariant(data)
	if err != nil {
		return fmt.Errorf("envelope: %w", err)
	}
	switch tag {
	case TagCall:
		var req Req
		if err := json.Unmarshal(raw, &req); err != nil {
			return fmt.Errorf("envelope.%s: %w", tag, err)
		}
		*e = Call[Req, Resp](req)
	case TagReturn:
		var resp Resp
		if err := json.Unmarshal(raw, &resp); err != nil {
			return fmt.Errorf("envelope.%s: %w", tag, err)
		}
		*e = Return[Req, Resp](resp)
	default:
		return fmt.Errorf("envelope: %w %q", ErrUnknownVariant, tag)
	}
	return nil
}

// MarshalYAML encodes e as a single-key mapping.
func (e Envelope[Req, Resp]) MarshalYAML() (any, error) {
	tag, v, err := e.payload()
	if err != nil {
		return nil, err
	}
	return map[string]any{tag: v}, nil
}

// UnmarshalYAML decodes the form written by MarshalYAML.
func (e *Envelope[Req, Resp]) UnmarshalYAML(node *yaml.Node) error {
	tag, value, err := decodeYAMLVariant(node)
	if err != nil {
		return fmt.Errorf("envelope: %w", err)
	}
	switch tag {
	case TagCall:
		var req Req
		if err := value.Decode(&req); err != nil {
			return fmt.Errorf("envelope.%s: %w", tag, err)
		}
		*e = Call[Req, Resp](req)
	case TagReturn:
		var resp Resp
		if err := value.Decode(&resp); err != nil {
			return fmt.Errorf("envelope.%s: %w", tag, err)
		}
		*e = Return[Req, Resp](resp)
	default:
		return fmt.Errorf("envelope: %w %q", ErrUnknownVariant, tag)
	}
	return nil
}
