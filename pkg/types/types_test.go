// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "zero is valid", value: 0, wantValid: true},
		{name: "one is valid", value: 1, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodeOrFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ExitCode
		want ExitCode
	}{
		{in: 0, want: ExitFailure},
		{in: -1, want: ExitFailure},
		{in: 300, want: ExitFailure},
		{in: 2, want: 2},
		{in: 127, want: 127},
	}

	for _, tt := range tests {
		if got := tt.in.OrFailure(); got != tt.want {
			t.Errorf("ExitCode(%d).OrFailure() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    FilesystemPath
		wantErr bool
	}{
		{"absolute path", "/usr/bin/python3", false},
		{"relative path", "notes.org", false},
		{"path with spaces", "/path/to/my file.org", false},
		{"empty is invalid", "", true},
		{"whitespace only is invalid", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("FilesystemPath(%q).Validate() error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidFilesystemPath) {
				t.Errorf("error does not wrap ErrInvalidFilesystemPath: %v", err)
			}
		})
	}
}

func TestScriptName_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   ScriptName
		wantErr bool
	}{
		{"default", DefaultScriptName, false},
		{"other file", "gen.sh", false},
		{"empty", "", true},
		{"blank", "  ", true},
		{"unix separator", "bin/gen.py", true},
		{"windows separator", `bin\gen.py`, true},
		{"dot dot", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ScriptName(%q).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidScriptName) {
				t.Errorf("error does not wrap ErrInvalidScriptName: %v", err)
			}
		})
	}
}

func TestInterpreterRef(t *testing.T) {
	t.Parallel()

	if !InterpreterRef("").IsDefault() {
		t.Error(`InterpreterRef("").IsDefault() = false, want true`)
	}
	if InterpreterRef("python3").IsDefault() {
		t.Error(`InterpreterRef("python3").IsDefault() = true, want false`)
	}
	if err := InterpreterRef("").Validate(); err != nil {
		t.Errorf(`InterpreterRef("").Validate() = %v, want nil`, err)
	}
	if err := InterpreterRef("python3 -u").Validate(); err != nil {
		t.Errorf(`InterpreterRef("python3 -u").Validate() = %v, want nil`, err)
	}
	err := InterpreterRef(" \t").Validate()
	if !errors.Is(err, ErrInvalidInterpreterRef) {
		t.Errorf("InterpreterRef(blank).Validate() = %v, want ErrInvalidInterpreterRef", err)
	}
}
