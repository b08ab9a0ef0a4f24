// Package command runs the external tools precommit delegates to (ESLint,
// Prettier). Callers depend on the [Runner] interface so tests can swap in a
// fake without touching the filesystem or PATH.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Output holds what a finished process wrote.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes external commands.
type Runner interface {
	// Run executes name with args in dir, feeding stdin (may be nil).
	// A non-zero exit status is not an error: it is reported in
	// Output.ExitCode. Errors are returned only when the process could not be
	// started or was interrupted.
	Run(ctx context.Context, dir string, stdin io.Reader, name string, args ...string) (*Output, error)
}

// OSRunner runs commands with os/exec.
type OSRunner struct{}

// NewRunner returns the production runner.
func NewRunner() Runner {
	return OSRunner{}
}

// Run implements Runner.
func (OSRunner) Run(ctx context.Context, dir string, stdin io.Reader, name string, args ...string) (*Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return out, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return out, fmt.Errorf("run command %s: %w", name, err)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, dir string, stdin io.Reader, name string, args ...string) (*Output, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, dir string, stdin io.Reader, name string, args ...string) (*Output, error) {
	return f(ctx, dir, stdin, name, args...)
}

// Split separates a configured command line into program and leading args.
func Split(argv []string) (string, []string, error) {
	if len(argv) == 0 || argv[0] == "" {
		return "", nil, errors.New("empty command")
	}
	return argv[0], append([]string(nil), argv[1:]...), nil
}
