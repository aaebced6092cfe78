// SPDX-License-Identifier: MPL-2.0

// Package invoker runs the companion calendar script and inserts its output.
//
// A run is linear: resolve the script path inside the installation
// directory, resolve the interpreter, spawn the interpreter with the script
// path as its final argument, capture stdout and stderr, and insert stdout
// at the cursor of a document.Document.
//
// Failures never touch the document. They are reported as one of three
// typed errors, each wrapping a sentinel:
//
//   - MissingScriptError (ErrMissingScript): checked before spawning.
//   - InterpreterNotFoundError (ErrInterpreterNotFound): checked before spawning.
//   - SubprocessError (ErrSubprocessFailed): the process failed to start,
//     exited non-zero, was interrupted, or wrote to stderr in strict mode.
package invoker
