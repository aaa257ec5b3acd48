package bindgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Runner runs the generator command and returns what it printed to stdout.
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) ([]byte, error)
}

// ExecRunner runs the generator as a child process.
type ExecRunner struct{}

// Run starts argv in dir. A command that cannot be started is
// ErrGeneratorNotFound; a non-zero exit is a *GenerationError.
func (ExecRunner) Run(ctx context.Context, dir string, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // the command comes from trusted build configuration
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return stdout.Bytes(), nil
	case errors.As(err, &exitErr):
		return nil, &GenerationError{Command: argv, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("%w: %s: %w", ErrGeneratorNotFound, argv[0], err)
	default:
		return nil, fmt.Errorf("run generator: %w", err)
	}
}
