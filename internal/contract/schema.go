package contract

import (
	"errors"
	"fmt"

	"github.com/se-clavier/api/jsonschema"
)

// ErrUnknownType is returned by Schema for a root that names nothing in the
// description.
var ErrUnknownType = errors.New("unknown contract type")

// Schema derives the schema document of the named type straight from the
// description. root is a struct type, the collection, or an envelope
// definition name (see API.EnvelopeName). The result must equal what
// jsonschema.Reflect produces for the generated type.
func (d *Description) Schema(root string) (jsonschema.JSONSchema, error) {
	b := &builder{d: d, defs: make(map[string]jsonschema.JSONSchema)}
	s := b.inline(root)
	if b.err != nil {
		return jsonschema.JSONSchema{}, b.err
	}
	return jsonschema.Document(root, s, b.defs), nil
}

// Roots returns every name Schema accepts.
func (d *Description) Roots() []string {
	names := make([]string, 0, len(d.Types)+1+len(d.Collection.APIs))
	for _, t := range d.Types {
		names = append(names, t.Name)
	}
	names = append(names, d.Collection.Name)
	seen := make(map[string]bool)
	for _, a := range d.Collection.APIs {
		if n := a.EnvelopeName(); !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}

type builder struct {
	d    *Description
	defs map[string]jsonschema.JSONSchema
	err  error
}

func (b *builder) inline(name string) jsonschema.JSONSchema {
	if t, ok := b.d.Lookup(name); ok {
		return b.structSchema(t)
	}
	if name == b.d.Collection.Name {
		return b.collectionSchema()
	}
	for _, a := range b.d.Collection.APIs {
		if name == a.EnvelopeName() {
			return b.envelopeSchema(a)
		}
	}
	if b.err == nil {
		b.err = fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return jsonschema.JSONSchema{}
}

func (b *builder) ref(name string) jsonschema.JSONSchema {
	if _, ok := b.defs[name]; !ok {
		b.defs[name] = jsonschema.JSONSchema{}
		b.defs[name] = b.inline(name)
	}
	return jsonschema.Ref(name)
}

func (b *builder) structSchema(t *Type) jsonschema.JSONSchema {
	s := jsonschema.JSONSchema{
		Type:       "object",
		Properties: make(map[string]jsonschema.JSONSchema),
	}
	for _, f := range t.Fields {
		s.Properties[f.Name] = b.fieldSchema(f)
		if !f.Optional {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func (b *builder) fieldSchema(f Field) jsonschema.JSONSchema {
	var s jsonschema.JSONSchema
	if k, ok := ScalarKind(f.Type); ok {
		s = jsonschema.Scalar(k)
	} else {
		s = b.ref(f.Type)
	}
	if f.List {
		items := s
		s = jsonschema.JSONSchema{Type: "array", Items: &items}
	}
	s.Description = f.Doc
	return s
}

func (b *builder) collectionSchema() jsonschema.JSONSchema {
	var s jsonschema.JSONSchema
	for _, a := range b.d.Collection.APIs {
		s.OneOf = append(s.OneOf, jsonschema.VariantSchema(a.Name, b.ref(a.EnvelopeName())))
	}
	return s
}

func (b *builder) envelopeSchema(a API) jsonschema.JSONSchema {
	return jsonschema.JSONSchema{
		OneOf: []jsonschema.JSONSchema{
			jsonschema.VariantSchema(CallTag, b.ref(a.Request)),
			jsonschema.VariantSchema(ReturnTag, b.ref(a.Response)),
		},
	}
}
