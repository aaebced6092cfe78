// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultScriptName is the companion script shipped next to the binary.
const DefaultScriptName ScriptName = "exactas-cal2org.py"

var (
	// ErrInvalidScriptName is the sentinel error wrapped by InvalidScriptNameError.
	ErrInvalidScriptName = errors.New("invalid script name")
	// ErrInvalidInterpreterRef is the sentinel error wrapped by InvalidInterpreterRefError.
	ErrInvalidInterpreterRef = errors.New("invalid interpreter reference")
)

type (
	// ScriptName is the base name of the companion script inside the
	// installation directory. It must be a bare file name.
	ScriptName string

	// InvalidScriptNameError is returned when a ScriptName is empty or
	// contains a path separator.
	InvalidScriptNameError struct {
		Value  ScriptName
		Reason string
	}

	// InterpreterRef names the executable used to run the script. It is
	// either a bare command looked up on PATH, an explicit path, or a
	// command followed by extra arguments ("python3 -u").
	// The zero value means "discover a Python interpreter on PATH".
	InterpreterRef string

	// InvalidInterpreterRefError is returned when a non-empty InterpreterRef
	// is whitespace-only.
	InvalidInterpreterRefError struct {
		Value InterpreterRef
	}
)

// String returns the script name.
func (n ScriptName) String() string { return string(n) }

// Validate checks that the name is a bare, non-empty file name.
func (n ScriptName) Validate() error {
	s := string(n)
	switch {
	case strings.TrimSpace(s) == "":
		return &InvalidScriptNameError{Value: n, Reason: "must be non-empty"}
	case strings.ContainsAny(s, `/\`):
		return &InvalidScriptNameError{Value: n, Reason: "must not contain path separators"}
	case s == "." || s == "..":
		return &InvalidScriptNameError{Value: n, Reason: "must name a file"}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidScriptNameError) Error() string {
	return fmt.Sprintf("invalid script name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidScriptName for errors.Is() compatibility.
func (e *InvalidScriptNameError) Unwrap() error { return ErrInvalidScriptName }

// String returns the interpreter reference.
func (r InterpreterRef) String() string { return string(r) }

// IsDefault reports whether the reference asks for interpreter discovery.
func (r InterpreterRef) IsDefault() bool { return r == "" }

// Validate accepts the zero value and any reference with a non-blank body.
func (r InterpreterRef) Validate() error {
	if r != "" && strings.TrimSpace(string(r)) == "" {
		return &InvalidInterpreterRefError{Value: r}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidInterpreterRefError) Error() string {
	return fmt.Sprintf("invalid interpreter reference %q: must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidInterpreterRef for errors.Is() compatibility.
func (e *InvalidInterpreterRefError) Unwrap() error { return ErrInvalidInterpreterRef }
