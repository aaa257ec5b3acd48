package bindgen

import (
	"fmt"
	"strings"
)

// Policy decides what a failed regeneration does to the build.
type Policy uint8

const (
	// PolicyFail returns the failure, failing go generate.
	PolicyFail Policy = iota
	// PolicyWarn logs the failure and keeps the bindings already on disk.
	PolicyWarn
)

// ParsePolicy parses "fail" or "warn".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return PolicyFail, nil
	case "warn":
		return PolicyWarn, nil
	default:
		return PolicyFail, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyFail:
		return "fail"
	case PolicyWarn:
		return "warn"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so a Policy can be read
// from the environment or a flag.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
