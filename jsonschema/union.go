package jsonschema

import "reflect"

// Variant is one arm of a tagged union: the object key it is encoded under
// and the type of its payload.
type Variant struct {
	Tag  string
	Type reflect.Type
}

// Union is implemented by closed tagged unions. Each value is encoded as an
// object with exactly one key, the tag of the variant it holds.
//
// UnionVariants must not depend on the receiver's value; it is called on
// zero values during reflection.
type Union interface {
	UnionVariants() []Variant
}

var unionType = reflect.TypeFor[Union]()

// isUnion reports whether t or *t implements Union.
func isUnion(t reflect.Type) bool {
	return t.Implements(unionType) || reflect.PointerTo(t).Implements(unionType)
}

func unionVariants(t reflect.Type) []Variant {
	u, _ := reflect.New(t).Interface().(Union)
	return u.UnionVariants()
}
