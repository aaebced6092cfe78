// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by package tests: installing
// throwaway companion scripts, locating a POSIX shell to run them, and
// working directory management.
package testutil
