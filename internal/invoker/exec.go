// SPDX-License-Identifier: MPL-2.0

package invoker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"cal2org-cli/pkg/types"

	"golang.org/x/sync/errgroup"
)

// pipeWaitDelay is how long output is still read after cancellation.
const pipeWaitDelay = 500 * time.Millisecond

type (
	// Command describes one process to spawn.
	Command struct {
		// Path is the resolved executable.
		Path string
		// Args are passed after the executable name.
		Args []string
		// Dir is the working directory (empty = current).
		Dir string
		// Env replaces the environment when non-nil.
		Env []string
	}

	// Output holds what a finished process produced.
	Output struct {
		Stdout   []byte
		Stderr   []byte
		ExitCode types.ExitCode
	}

	// Executor spawns processes. Execute returns an error only when the
	// process could not be started or waited on; a non-zero exit is reported
	// through Output.ExitCode.
	Executor interface {
		Execute(ctx context.Context, cmd Command) (*Output, error)
	}

	// ExecExecutor runs commands with os/exec. Standard input is the null
	// device; stdout and stderr are captured separately.
	ExecExecutor struct{}

	// StartError is returned by ExecExecutor when the process never ran.
	StartError struct {
		Path  string
		Cause error
	}
)

// NewExecExecutor returns the os/exec backed Executor.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Execute starts cmd, drains both output pipes concurrently and waits for
// the process. The pipes are closed and the process reaped on every path.
func (e *ExecExecutor) Execute(ctx context.Context, cmd Command) (*Output, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env

	stdoutPipe, err := c.StdoutPipe()
	if err != nil {
		return nil, &StartError{Path: cmd.Path, Cause: err}
	}
	stderrPipe, err := c.StderrPipe()
	if err != nil {
		_ = stdoutPipe.Close()
		return nil, &StartError{Path: cmd.Path, Cause: err}
	}

	// Start closes both pipes itself when it fails.
	if err := c.Start(); err != nil {
		return nil, &StartError{Path: cmd.Path, Cause: err}
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})

	// Descendants of a killed process can keep the pipes open; stop reading
	// after pipeWaitDelay once the context is done.
	drained := make(chan struct{})
	go func() {
		select {
		case <-drained:
		case <-ctx.Done():
			select {
			case <-drained:
			case <-time.After(pipeWaitDelay):
				_ = stdoutPipe.Close()
				_ = stderrPipe.Close()
			}
		}
	}()

	drainErr := g.Wait()
	close(drained)
	waitErr := c.Wait()

	out := &Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		out.ExitCode = exitCodeOf(waitErr)
		return out, fmt.Errorf("script interrupted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
		out.ExitCode = types.ExitCode(exitErr.ExitCode())
	default:
		return out, fmt.Errorf("failed to wait for script: %w", waitErr)
	}

	if drainErr != nil {
		return out, fmt.Errorf("failed to read script output: %w", drainErr)
	}
	return out, nil
}

func exitCodeOf(err error) types.ExitCode {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return types.ExitCode(exitErr.ExitCode())
	}
	return 0
}

// Error implements the error interface.
func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying start failure.
func (e *StartError) Unwrap() error { return e.Cause }
