package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for dispatch and union decoding.
var (
	// ErrProtocolState is matched by every *StateError: an envelope that is
	// not in the Call state was handed to a dispatcher.
	ErrProtocolState = errors.New("protocol state")

	ErrNilHandler     = errors.New("nil handler")
	ErrMissingHandler = errors.New("missing handler")
	ErrEmptyUnion     = errors.New("union holds no variant")
	ErrUnknownVariant = errors.New("unknown variant")
	ErrMalformedUnion = errors.New("union must be an object with exactly one key")
	ErrTagMismatch    = errors.New("dispatch changed the variant tag")
	ErrRateLimited    = errors.New("rate limited")
	ErrUnknownFormat  = errors.New("unknown format")
	ErrUnknownType    = errors.New("unknown contract type")
)

// StateError reports an attempt to dispatch an envelope that is not in the
// Call state. Only Call -> Return is a legal transition.
type StateError struct {
	State State
}

// Error returns a description of the rejected state.
func (e *StateError) Error() string {
	return fmt.Sprintf("cannot dispatch envelope in %s state", e.State)
}

// Is reports whether target is ErrProtocolState.
func (e *StateError) Is(target error) bool {
	return target == ErrProtocolState
}

// PanicError is returned by the Recovery middleware when a handler panics.
type PanicError struct {
	Tag   string
	Value any
	Stack []byte
}

// Error returns the panic value.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s handler: %v", e.Tag, e.Value)
}
