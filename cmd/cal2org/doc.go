// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the cal2org CLI commands.
//
// The root command wires an App (configuration provider, process executor,
// output streams) into the run, check, preview and config subcommands.
// Failures are returned as ExitError values carrying an
// issue.ActionableError and the process exit status.
package cmd
