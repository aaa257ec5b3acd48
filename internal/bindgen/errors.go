package bindgen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGeneratorNotFound means the generator command could not be started.
	ErrGeneratorNotFound = errors.New("generator not found")
	// ErrEmptyOutput means the generator succeeded but printed nothing.
	ErrEmptyOutput = errors.New("generator produced no output")
	// ErrStale means the bindings on disk differ from fresh generator output.
	ErrStale = errors.New("bindings are stale")

	ErrUnknownPolicy    = errors.New("unknown failure policy")
	ErrWarnInProduction = errors.New("warn policy is not allowed in production")
	ErrNoCommand        = errors.New("no generator command configured")
	ErrNoOutput         = errors.New("no output path configured")
)

// GenerationError reports a generator that exited with a non-zero status.
type GenerationError struct {
	Command  []string
	ExitCode int
	Stderr   string
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("generator %q exited with status %d", strings.Join(e.Command, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}
