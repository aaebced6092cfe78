// SPDX-License-Identifier: MPL-2.0

// Package preview renders the Org text produced by the calendar script for
// display in a terminal.
package preview
