// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io/fs"

	"cal2org-cli/internal/document"
	"cal2org-cli/internal/invoker"
	"cal2org-cli/internal/issue"
	"cal2org-cli/pkg/types"
)

// classifyRunError turns an invoker failure into an ActionableError carried
// by an ExitError. Subprocess failures keep the script's exit status.
func classifyRunError(err error, inv *invoker.Invoker) error {
	if err == nil {
		return nil
	}

	var (
		missing  *invoker.MissingScriptError
		notFound *invoker.InterpreterNotFoundError
		subErr   *invoker.SubprocessError
	)
	ctx := issue.NewErrorContext().Wrap(err)
	code := types.ExitFailure

	switch {
	case errors.As(err, &missing):
		ctx.WithOperation("find companion script").
			WithResource(missing.Path).
			WithIssue(issue.ScriptNotFoundId).
			WithSuggestions(
				"Install "+string(types.DefaultScriptName)+" next to the cal2org executable",
				"Point install_dir (or --install-dir) at the directory holding the script",
				"Run 'cal2org check' to see the resolved paths",
			)
	case errors.As(err, &notFound):
		resource := notFound.Ref.String()
		if notFound.Ref.IsDefault() {
			resource = "python3"
		}
		ctx.WithOperation("resolve interpreter").
			WithResource(resource).
			WithIssue(issue.InterpreterNotFoundId).
			WithSuggestions(
				"Install Python 3 and make sure it is on PATH",
				"Set interpreter in the config file, or pass --interpreter /path/to/python3",
			)
	case errors.As(err, &subErr):
		code = subErr.ExitCode.OrFailure()
		ctx.WithOperation("run companion script").
			WithResource(inv.ScriptPath()).
			WithIssue(issue.ScriptExecutionFailedId)
		switch {
		case subErr.Stopped():
			ctx.WithSuggestion("Raise timeout in the config file, or set it to 0 to disable it")
		case !subErr.Started:
			ctx.WithSuggestion("Check that the interpreter is executable")
		case errors.Is(err, fs.ErrPermission):
			ctx.WithIssue(issue.PermissionDeniedId)
		case subErr.ExitCode == 0 && subErr.Cause == nil:
			ctx.WithSuggestion("Set strict_stderr: false to accept output from scripts that print warnings")
		default:
			ctx.WithSuggestion("Run the script by hand to see its full output: " + inv.ScriptPath())
		}
	default:
		ctx.WithOperation("insert script output").WithIssue(issue.DocumentWriteFailedId)
	}

	return &ExitError{Code: code, Err: ctx.Build()}
}

// classifyDocumentError wraps failures opening, positioning or saving a document.
func classifyDocumentError(err error, operation, path string) error {
	if err == nil {
		return nil
	}
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(path).
		Wrap(err)

	switch {
	case errors.Is(err, document.ErrCursorOutOfRange), errors.Is(err, document.ErrInvalidPosition):
		ctx.WithIssue(issue.InvalidCursorId).
			WithSuggestion("Positions are counted in characters from 0; --at takes a 1-based line:column")
	case errors.Is(err, fs.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId)
	case errors.Is(err, fs.ErrNotExist):
		ctx.WithIssue(issue.DocumentWriteFailedId).
			WithSuggestion("Pass --create to start a new document")
	default:
		ctx.WithIssue(issue.DocumentWriteFailedId)
	}
	return &ExitError{Code: types.ExitFailure, Err: ctx.Build()}
}
