package codegen

const bindingsTemplate = `// Code generated by contractgen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/se-clavier/api/jsonschema"
)
{{range .Types}}
{{doc .Doc}}type {{.Name}} struct {
{{- range .Fields}}
	{{goName .Name}} {{goType .}} {{tag .}}
{{- end}}
}
{{end}}
{{- $c := .Collection.Name}}
// Variant tags of {{$c}}.
const (
{{- range .Collection.APIs}}
	Tag{{.Name}} = "{{.Name}}"
{{- end}}
)

{{unionDoc .Collection}}type {{$c}} struct {
	tag string
{{- range .Collection.APIs}}
	{{field .Name}} Envelope[{{.Request}}, {{.Response}}]
{{- end}}
}
{{range .Collection.APIs}}
{{ctorDoc .}}func {{.Name}}(e Envelope[{{.Request}}, {{.Response}}]) {{$c}} {
	return {{$c}}{tag: Tag{{.Name}}, {{field .Name}}: e}
}

// {{.Name}}Call wraps req in a Call envelope under the {{.Name}} variant.
func {{.Name}}Call(req {{.Request}}) {{$c}} {
	return {{.Name}}(Call[{{.Request}}, {{.Response}}](req))
}

// {{.Name}} returns the {{.Name}} envelope and whether c holds that variant.
func (c {{$c}}) {{.Name}}() (Envelope[{{.Request}}, {{.Response}}], bool) {
	return c.{{field .Name}}, c.tag == Tag{{.Name}}
}
{{end}}
// Tag returns the variant c holds, or "" for the zero value.
func (c {{$c}}) Tag() string { return c.tag }

// State returns the state of the envelope c holds, or StateEmpty for the
// zero value.
func (c {{$c}}) State() State {
	switch c.tag {
{{- range .Collection.APIs}}
	case Tag{{.Name}}:
		return c.{{field .Name}}.State()
{{- end}}
	default:
		return StateEmpty
	}
}

// UnionVariants implements jsonschema.Union.
func ({{$c}}) UnionVariants() []jsonschema.Variant {
	return []jsonschema.Variant{
{{- range .Collection.APIs}}
		{Tag: Tag{{.Name}}, Type: reflect.TypeFor[Envelope[{{.Request}}, {{.Response}}]]()},
{{- end}}
	}
}

// MarshalJSON encodes c as a single-key object keyed by its tag.
func (c {{$c}}) MarshalJSON() ([]byte, error) {
	switch c.tag {
{{- range .Collection.APIs}}
	case Tag{{.Name}}:
		return json.Marshal(map[string]any{c.tag: c.{{field .Name}}})
{{- end}}
	default:
		return nil, fmt.Errorf("{{$c}}: %w", ErrEmptyUnion)
	}
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (c *{{$c}}) UnmarshalJSON(data []byte) error {
	tag, raw, err := decodeJSONVariant(data)
	if err != nil {
		return fmt.Errorf("{{$c}}: %w", err)
	}
	switch tag {
{{- range .Collection.APIs}}
	case Tag{{.Name}}:
		var e Envelope[{{.Request}}, {{.Response}}]
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("{{$c}}.%s: %w", tag, err)
		}
		*c = {{.Name}}(e)
{{- end}}
	default:
		return fmt.Errorf("{{$c}}: %w %q", ErrUnknownVariant, tag)
	}
	return nil
}

// MarshalYAML encodes c as a single-key mapping keyed by its tag.
func (c {{$c}}) MarshalYAML() (any, error) {
	switch c.tag {
{{- range .Collection.APIs}}
	case Tag{{.Name}}:
		return map[string]any{c.tag: c.{{field .Name}}}, nil
{{- end}}
	default:
		return nil, fmt.Errorf("{{$c}}: %w", ErrEmptyUnion)
	}
}

// UnmarshalYAML decodes the form written by MarshalYAML.
func (c *{{$c}}) UnmarshalYAML(node *yaml.Node) error {
	tag, value, err := decodeYAMLVariant(node)
	if err != nil {
		return fmt.Errorf("{{$c}}: %w", err)
	}
	switch tag {
{{- range .Collection.APIs}}
	case Tag{{.Name}}:
		var e Envelope[{{.Request}}, {{.Response}}]
		if err := value.Decode(&e); err != nil {
			return fmt.Errorf("{{$c}}.%s: %w", tag, err)
		}
		// yaml.v3 skips UnmarshalYAML for a null node.
		if e.State() == StateEmpty {
			return fmt.Errorf("{{$c}}.%s: %w: no envelope", tag, ErrMalformedUnion)
		}
		*c = {{.Name}}(e)
{{- end}}
	default:
		return fmt.Errorf("{{$c}}: %w %q", ErrUnknownVariant, tag)
	}
	return nil
}

// Handlers binds one handler to every variant of {{$c}}. NewRouter rejects
// a Handlers value with any field left nil.
type Handlers struct {
{{- range .Collection.APIs}}
	{{.Name}} Handler[{{.Request}}, {{.Response}}]
{{- end}}
}

// missing returns the tags whose handler is nil.
func (h Handlers) missing() []string {
	var tags []string
{{- range .Collection.APIs}}
	if h.{{.Name}} == nil {
		tags = append(tags, Tag{{.Name}})
	}
{{- end}}
	return tags
}

// dispatch lifts the handler for c's tag over its envelope and re-wraps the
// result under the same tag.
func (h Handlers) dispatch(ctx context.Context, c {{$c}}) ({{$c}}, error) {
	switch c.tag {
{{- range .Collection.APIs}}
	case Tag{{.Name}}:
		e, err := Lift(h.{{.Name}})(ctx, c.{{field .Name}})
		if err != nil {
			return {{$c}}{}, err
		}
		return {{.Name}}(e), nil
{{- end}}
	default:
		return {{$c}}{}, fmt.Errorf("{{$c}}: %w", ErrEmptyUnion)
	}
}

// contractTypes maps definition names to every type the description declares.
var contractTypes = map[string]reflect.Type{
{{- range .Types}}
	"{{.Name}}": reflect.TypeFor[{{.Name}}](),
{{- end}}
	"{{$c}}": reflect.TypeFor[{{$c}}](),
{{- range .Envelopes}}
	"{{envelope .}}": reflect.TypeFor[Envelope[{{.Request}}, {{.Response}}]](),
{{- end}}
}
`
