// SPDX-License-Identifier: MPL-2.0

package invoker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cal2org-cli/pkg/types"
)

var (
	// ErrMissingScript is the sentinel error wrapped by MissingScriptError.
	ErrMissingScript = errors.New("companion script not found")
	// ErrInterpreterNotFound is the sentinel error wrapped by InterpreterNotFoundError.
	ErrInterpreterNotFound = errors.New("interpreter not found")
	// ErrSubprocessFailed is the sentinel error wrapped by SubprocessError.
	ErrSubprocessFailed = errors.New("script execution failed")
)

// maxStderrInError bounds how much stderr text is copied into error messages.
const maxStderrInError = 2048

type (
	// MissingScriptError is returned when the companion script does not exist
	// (or is not a regular file) at the derived path.
	MissingScriptError struct {
		Path  string
		Cause error
	}

	// InterpreterNotFoundError is returned when no executable resolves for the
	// configured or discovered interpreter reference.
	InterpreterNotFoundError struct {
		// Ref is the configured reference; empty when discovery was used.
		Ref types.InterpreterRef
		// Tried lists the candidate names that were looked up.
		Tried []string
		Cause error
	}

	// SubprocessError is returned when the script process could not be
	// started, exited with a non-zero status, wrote to stderr under strict
	// stderr handling, or was stopped by cancellation or timeout.
	SubprocessError struct {
		ExitCode types.ExitCode
		Stderr   string
		// Started is false when the process never ran.
		Started bool
		Cause   error
	}
)

// Error implements the error interface.
func (e *MissingScriptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("companion script not found at %s: %v", e.Path, e.Cause)
	}
	return "companion script not found at " + e.Path
}

// Unwrap exposes the sentinel and the underlying cause.
func (e *MissingScriptError) Unwrap() []error {
	return causes(ErrMissingScript, e.Cause)
}

// Error implements the error interface.
func (e *InterpreterNotFoundError) Error() string {
	var msg strings.Builder
	if e.Ref.IsDefault() {
		fmt.Fprintf(&msg, "no interpreter found on PATH (tried %s)", strings.Join(e.Tried, ", "))
	} else {
		fmt.Fprintf(&msg, "interpreter %q not found", e.Ref)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap exposes the sentinel and the underlying cause.
func (e *InterpreterNotFoundError) Unwrap() []error {
	return causes(ErrInterpreterNotFound, e.Cause)
}

// Error implements the error interface.
func (e *SubprocessError) Error() string {
	var msg strings.Builder
	switch {
	case e.Stopped():
		msg.WriteString("script was stopped")
	case !e.Started:
		msg.WriteString("script could not be started")
	case e.Cause != nil && e.ExitCode == 0:
		msg.WriteString("script was stopped")
	case e.ExitCode < 0:
		msg.WriteString("script was killed by a signal")
	case e.ExitCode != 0:
		fmt.Fprintf(&msg, "script exited with status %d", e.ExitCode)
	default:
		msg.WriteString("script wrote to stderr")
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		if len(stderr) > maxStderrInError {
			stderr = stderr[:maxStderrInError] + "..."
		}
		msg.WriteString("\nstderr:\n")
		msg.WriteString(stderr)
	}
	return msg.String()
}

// Stopped reports whether the script was stopped by cancellation or timeout.
func (e *SubprocessError) Stopped() bool {
	return errors.Is(e.Cause, context.Canceled) || errors.Is(e.Cause, context.DeadlineExceeded)
}

// Unwrap exposes the sentinel and the underlying cause.
func (e *SubprocessError) Unwrap() []error {
	return causes(ErrSubprocessFailed, e.Cause)
}

func causes(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}
