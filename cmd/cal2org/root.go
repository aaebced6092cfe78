// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cal2org-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cal2org",
		Short: "Insert the academic calendar as Org headings",
		Long: TitleStyle.Render("cal2org") + SubtitleStyle.Render(" - Insert the academic calendar as Org headings") + `

cal2org runs the companion script exactas-cal2org.py, found next to the
cal2org executable, and inserts whatever it prints into a document at the
cursor. Without --file the output is written to standard output.

` + SubtitleStyle.Render("Examples:") + `
  cal2org run                          Print the calendar to stdout
  cal2org run --file agenda.org --end  Append the calendar to agenda.org
  cal2org run --file agenda.org --at 12:1
  cal2org check                        Show resolved script and interpreter
  cal2org preview                      Render the calendar in the terminal`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/cal2org/config.cue)")

	rootCmd.AddCommand(
		newRunCommand(app),
		newCheckCommand(app),
		newPreviewCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the resulting status.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(app)),
	)
	if err != nil {
		os.Exit(int(exitCodeOf(err)))
	}
}

// errorHandler prints errors that command handlers have not rendered yet.
// In verbose mode the catalogued issue page follows the error.
func errorHandler(app *App) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}
		var ae *issue.ActionableError
		if !errors.As(err, &ae) {
			fang.DefaultErrorHandler(w, styles, err)
			return
		}

		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, app.verbose))
		if !app.verbose {
			return
		}
		if page := ae.Issue(); page != nil {
			rendered, renderErr := page.Render(app.issueStyle())
			if renderErr != nil {
				app.logger().Warn("failed to render issue page", "issue", ae.IssueID, "err", renderErr)
				return
			}
			fmt.Fprint(w, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
