// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newCheckCommand(app *App) *cobra.Command {
	var overrides invokerOverrides

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the companion script and interpreter can be found",
		Long: `Check that the companion script and interpreter can be found.

Nothing is executed. Each precondition of 'cal2org run' is reported on its
own line; the command fails when any of them does not hold.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, app, overrides)
		},
	}
	addInvokerFlags(checkCmd, &overrides)

	return checkCmd
}

func runCheck(cmd *cobra.Command, app *App, overrides invokerOverrides) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	inv, err := app.newInvoker(cfg, overrides)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, TitleStyle.Render("cal2org preconditions"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render("install dir:"), inv.InstallDir())

	var failed []error

	scriptErr := inv.CheckScript()
	printCheck(w, "script", inv.ScriptPath(), scriptErr)
	if scriptErr != nil {
		failed = append(failed, scriptErr)
	}

	argv, interpErr := inv.ResolveInterpreter()
	printCheck(w, "interpreter", strings.Join(argv, " "), interpErr)
	if interpErr != nil {
		failed = append(failed, interpErr)
	}

	if len(failed) == 0 {
		fmt.Fprintf(w, "\n%s ready to run\n", SuccessStyle.Render("✓"))
		return nil
	}

	// Report the first failure the way 'run' would, keeping every cause.
	return classifyRunError(errors.Join(failed...), inv)
}

func printCheck(w io.Writer, label, value string, err error) {
	if err != nil {
		fmt.Fprintf(w, "  %s %-12s %s\n", ErrorStyle.Render("✗"), label+":", WarningStyle.Render(err.Error()))
		return
	}
	fmt.Fprintf(w, "  %s %-12s %s\n", SuccessStyle.Render("✓"), label+":", value)
}
