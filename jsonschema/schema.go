// Package jsonschema reflects Go types into JSON Schema (draft 2020-12)
// documents. Named types are collected under $defs and referenced with $ref;
// types implementing [Union] become a oneOf over single-key objects.
package jsonschema

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Draft is the $schema URI written on every document.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// DefsPrefix is the JSON pointer prefix of every $ref produced by a Reflector.
const DefsPrefix = "#/$defs/"

// JSONSchema represents a JSON Schema object (the subset this package emits).
type JSONSchema struct {
	Schema      string `json:"$schema,omitempty" yaml:"$schema,omitempty"`
	Ref         string `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`

	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`

	Properties    map[string]JSONSchema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required      []string              `json:"required,omitempty" yaml:"required,omitempty"`
	MaxProperties int                   `json:"maxProperties,omitempty" yaml:"maxProperties,omitempty"`
	Items         *JSONSchema           `json:"items,omitempty" yaml:"items,omitempty"`

	// AdditionalProperties is the value schema of a string-keyed map.
	AdditionalProperties *JSONSchema `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	OneOf []JSONSchema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`

	Defs map[string]JSONSchema `json:"$defs,omitempty" yaml:"$defs,omitempty"`
}

// Ref returns a schema referring to the definition called name.
func Ref(name string) JSONSchema {
	return JSONSchema{Ref: DefsPrefix + name}
}

// Scalar returns the schema of a scalar kind. It panics for kinds that are
// not scalars.
func Scalar(k reflect.Kind) JSONSchema {
	//exhaustive:ignore
	switch k {
	case reflect.String:
		return JSONSchema{Type: "string"}
	case reflect.Bool:
		return JSONSchema{Type: "boolean"}
	case reflect.Int8:
		return JSONSchema{Type: "integer", Format: "int8"}
	case reflect.Int16:
		return JSONSchema{Type: "integer", Format: "int16"}
	case reflect.Int32:
		return JSONSchema{Type: "integer", Format: "int32"}
	case reflect.Int, reflect.Int64:
		return JSONSchema{Type: "integer", Format: "int64"}
	case reflect.Uint8:
		return unsigned("uint8")
	case reflect.Uint16:
		return unsigned("uint16")
	case reflect.Uint32:
		return unsigned("uint32")
	case reflect.Uint, reflect.Uint64:
		return unsigned("uint64")
	case reflect.Float32:
		return JSONSchema{Type: "number", Format: "float"}
	case reflect.Float64:
		return JSONSchema{Type: "number", Format: "double"}
	default:
		panic(fmt.Sprintf("jsonschema: %s is not a scalar kind", k))
	}
}

func unsigned(format string) JSONSchema {
	zero := 0.0
	return JSONSchema{Type: "integer", Format: format, Minimum: &zero}
}

// Reflector converts reflect.Types to schemas, collecting every named type
// it meets into a definitions table. A Reflector is not safe for concurrent
// use.
type Reflector struct {
	defs map[string]JSONSchema
}

// NewReflector returns a Reflector with an empty definitions table.
func NewReflector() *Reflector {
	return &Reflector{defs: make(map[string]JSONSchema)}
}

// Defs returns the definitions collected so far, keyed by [DefName].
func (r *Reflector) Defs() map[string]JSONSchema {
	return r.defs
}

// TypeToSchema returns the schema of t. Named structs and unions are added
// to the definitions table and returned as a $ref.
func (r *Reflector) TypeToSchema(t reflect.Type) JSONSchema {
	// Unwrap pointer.
	if t.Kind() == reflect.Pointer {
		return r.TypeToSchema(t.Elem())
	}

	// Handle well-known types.
	switch t {
	case reflect.TypeFor[time.Time]():
		return JSONSchema{Type: "string", Format: "date-time"}
	case reflect.TypeFor[time.Duration]():
		return JSONSchema{Type: "string", Format: "duration"}
	}

	if isUnion(t) {
		return r.define(t, r.unionSchema)
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Scalar(t.Kind())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return JSONSchema{Type: "string", Format: "byte"}
		}
		items := r.TypeToSchema(t.Elem())
		return JSONSchema{Type: "array", Items: &items}
	case reflect.Array:
		items := r.TypeToSchema(t.Elem())
		return JSONSchema{Type: "array", Items: &items}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return JSONSchema{Type: "object"}
		}
		valSchema := r.TypeToSchema(t.Elem())
		return JSONSchema{Type: "object", AdditionalProperties: &valSchema}
	case reflect.Struct:
		if t.Name() == "" {
			return r.structToSchema(t)
		}
		return r.define(t, r.structToSchema)
	case reflect.Interface:
		return JSONSchema{}
	default:
		panic(fmt.Sprintf("jsonschema: cannot reflect %s (kind %s)", t, t.Kind()))
	}
}

// Inline returns the schema of t without registering t itself as a
// definition. Types t refers to are still collected.
func (r *Reflector) Inline(t reflect.Type) JSONSchema {
	if t.Kind() == reflect.Pointer {
		return r.Inline(t.Elem())
	}
	switch {
	case isUnion(t):
		return r.unionSchema(t)
	case t.Kind() == reflect.Struct && t != reflect.TypeFor[time.Time]():
		return r.structToSchema(t)
	default:
		return r.TypeToSchema(t)
	}
}

// define registers t under its definition name and returns a $ref to it.
// The placeholder stored before build runs stops recursive types from
// looping.
func (r *Reflector) define(t reflect.Type, build func(reflect.Type) JSONSchema) JSONSchema {
	name := DefName(t)
	if _, ok := r.defs[name]; !ok {
		r.defs[name] = JSONSchema{}
		r.defs[name] = build(t)
	}
	return Ref(name)
}

// structToSchema converts a struct type to a JSONSchema with properties.
func (r *Reflector) structToSchema(t reflect.Type) JSONSchema {
	schema := JSONSchema{
		Type:       "object",
		Properties: make(map[string]JSONSchema),
	}
	r.collectFields(t, &schema)
	return schema
}

func (r *Reflector) collectFields(t reflect.Type, schema *JSONSchema) {
	for i := range t.NumField() {
		f := t.Field(i)

		name, opts := tagOptions(f.Tag.Get("json"))
		if name == "-" && opts == "" {
			continue
		}

		// Embedded structs without a JSON name are flattened, as encoding/json does.
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				r.collectFields(ft, schema)
				continue
			}
		}

		if !f.IsExported() {
			continue
		}

		name = jsonFieldName(f)
		prop := r.TypeToSchema(f.Type)

		if doc := f.Tag.Get("doc"); doc != "" {
			prop.Description = doc
		}

		schema.Properties[name] = prop

		if f.Type.Kind() != reflect.Pointer && !tagContains(opts, "omitempty") {
			schema.Required = append(schema.Required, name)
		}
	}
}

// unionSchema builds the oneOf schema of a Union type.
func (r *Reflector) unionSchema(t reflect.Type) JSONSchema {
	variants := unionVariants(t)
	schema := JSONSchema{OneOf: make([]JSONSchema, 0, len(variants))}
	for _, v := range variants {
		schema.OneOf = append(schema.OneOf, VariantSchema(v.Tag, r.TypeToSchema(v.Type)))
	}
	return schema
}

// VariantSchema returns the single-key object schema of one union variant.
func VariantSchema(tag string, payload JSONSchema) JSONSchema {
	return JSONSchema{
		Type:          "object",
		Properties:    map[string]JSONSchema{tag: payload},
		Required:      []string{tag},
		MaxProperties: 1,
	}
}

// DefName returns the definition name of t. Generic instantiations are
// rendered as Base_for_A_and_B with package paths stripped from the type
// arguments.
func DefName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return sanitize(t.String())
	}
	return shortName(name)
}

// GenericName joins a generic base name and its type argument names the way
// DefName renders them.
func GenericName(base string, args ...string) string {
	return base + "_for_" + strings.Join(args, "_and_")
}

func shortName(s string) string {
	switch {
	case strings.HasPrefix(s, "[]"):
		return "Array_of_" + shortName(s[2:])
	case strings.HasPrefix(s, "*"):
		return shortName(s[1:])
	}

	base, rest, generic := strings.Cut(s, "[")
	base = base[strings.LastIndexByte(base, '.')+1:]
	if !generic {
		return sanitize(base)
	}

	args := splitTypeArgs(strings.TrimSuffix(rest, "]"))
	for i, a := range args {
		args[i] = shortName(a)
	}
	return GenericName(sanitize(base), args...)
}

// splitTypeArgs splits a type argument list on its top-level commas.
func splitTypeArgs(s string) []string {
	var (
		args  []string
		depth int
		start int
	)
	for i := range len(s) {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	return append(args, s[start:])
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
