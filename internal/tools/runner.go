package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external invocation.
type Command struct {
	Name string
	Args []string
	// Env entries are appended to the parent environment.
	Env []string
	Dir string
}

func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// Runner abstracts external command execution for delegating adapters.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, []byte, int32, error)
	RunStreaming(ctx context.Context, cmd Command, stdout, stderr io.Writer) (int32, error)
}

// ExitError reports a delegated command that did not exit cleanly.
type ExitError struct {
	Command  string
	ExitCode int32
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit %d: %v", e.Command, e.ExitCode, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

func (r ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, []byte, int32, error) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	code, err := r.RunStreaming(ctx, cmd, &stdout, &stderr)
	return stdout.Bytes(), stderr.Bytes(), code, err
}

func (r ExecRunner) RunStreaming(ctx context.Context, cmd Command, stdout, stderr io.Writer) (int32, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return 127, &ExitError{Command: "<empty>", ExitCode: 127, Err: exec.ErrNotFound}
	}
	command := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	command.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		command.Env = append(os.Environ(), cmd.Env...)
	}
	command.Stdout = stdout
	command.Stderr = stderr

	err := command.Run()
	if err == nil {
		return 0, nil
	}
	code := exitCode(err)
	return code, &ExitError{Command: cmd.String(), ExitCode: code, Err: err}
}

func exitCode(err error) int32 {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return int32(exitErr.ExitCode())
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return 127
	}
	return 1
}
