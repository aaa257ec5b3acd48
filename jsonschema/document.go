package jsonschema

import "reflect"

// Reflect builds a complete schema document for t: the root schema is
// inlined and titled with DefName(t), and every named type it reaches is
// placed under $defs.
func Reflect(t reflect.Type) JSONSchema {
	r := NewReflector()
	doc := r.Inline(t)
	return Document(DefName(t), doc, r.Defs())
}

// For is Reflect for a type parameter.
func For[T any]() JSONSchema {
	return Reflect(reflect.TypeFor[T]())
}

// Document stamps root with the draft URI and title and attaches defs.
func Document(title string, root JSONSchema, defs map[string]JSONSchema) JSONSchema {
	root.Schema = Draft
	root.Title = title
	if len(defs) > 0 {
		root.Defs = defs
	}
	return root
}
