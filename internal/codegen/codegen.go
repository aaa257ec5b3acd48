// Package codegen renders a contract description as Go source for the
// contract types, their union codecs and the router's handler table.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/se-clavier/api/internal/contract"
)

// Generate writes gofmt'd Go source for d to w. source names the
// description in the generated header.
func Generate(w io.Writer, d *contract.Description, source string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newData(d, source)); err != nil {
		return fmt.Errorf("render bindings: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format bindings: %w", err)
	}

	_, err = w.Write(src)
	return err
}

type data struct {
	Source     string
	Package    string
	Types      []contract.Type
	Collection contract.Collection
	// Envelopes holds one API per distinct request/response pair.
	Envelopes []contract.API
}

func newData(d *contract.Description, source string) data {
	out := data{
		Source:     source,
		Package:    d.Package,
		Types:      d.Types,
		Collection: d.Collection,
	}
	seen := make(map[string]bool)
	for _, a := range d.Collection.APIs {
		if n := a.EnvelopeName(); !seen[n] {
			seen[n] = true
			out.Envelopes = append(out.Envelopes, a)
		}
	}
	return out
}

// initialisms are rendered upper-case in Go identifiers.
var initialisms = map[string]bool{
	"api": true, "http": true, "id": true, "ip": true, "json": true,
	"jwt": true, "uri": true, "url": true, "uuid": true,
}

// GoName converts a snake_case field name to an exported Go identifier.
func GoName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		if initialisms[part] {
			b.WriteString(strings.ToUpper(part))
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

var goScalars = map[string]string{
	"string": "string",
	"bool":   "bool",
	"i32":    "int32",
	"i64":    "int64",
	"u32":    "uint32",
	"u64":    "uint64",
	"f32":    "float32",
	"f64":    "float64",
}

func goType(f contract.Field) string {
	t, ok := goScalars[f.Type]
	if !ok {
		t = f.Type
	}
	switch {
	case f.List:
		return "[]" + t
	case f.Optional:
		return "*" + t
	default:
		return t
	}
}

func structTag(f contract.Field) string {
	name := f.Name
	if f.Optional {
		name += ",omitempty"
	}
	tag := fmt.Sprintf("json:%q yaml:%q", name, name)
	if f.Doc != "" {
		tag += " doc:" + strconv.Quote(f.Doc)
	}
	return "`" + tag + "`"
}

func docComment(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// " + line + "\n")
	}
	return b.String()
}

func constructorDoc(a contract.API) string {
	text := fmt.Sprintf("%s wraps e under the %s variant.", a.Name, a.Name)
	if a.Doc != "" {
		text += "\n\n" + a.Doc
	}
	return docComment(text)
}

func collectionDoc(c contract.Collection) string {
	text := fmt.Sprintf("Exactly one variant of %s is set; the zero value holds none.", c.Name)
	if c.Doc != "" {
		text = c.Doc + "\n\n" + text
	}
	return docComment(text)
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

var tmpl = template.Must(template.New("bindings").Funcs(template.FuncMap{
	"goName":   GoName,
	"goType":   goType,
	"tag":      structTag,
	"doc":      docComment,
	"ctorDoc":  constructorDoc,
	"unionDoc": collectionDoc,
	"field":    lowerFirst,
	"envelope": func(a contract.API) string { return a.EnvelopeName() },
}).Parse(bindingsTemplate))
