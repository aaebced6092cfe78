// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The Issue catalog holds longer Markdown pages, rendered
// with glamour, for the failure classes of a script run: missing script,
// missing interpreter, failed subprocess, configuration and document errors.
package issue
