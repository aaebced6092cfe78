// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"cal2org-cli/internal/document"
	"cal2org-cli/internal/invoker"
	"cal2org-cli/internal/preview"

	"github.com/spf13/cobra"
)

// runOptions holds the `cal2org run` flag values.
type runOptions struct {
	file      string
	offset    int
	at        string
	end       bool
	create    bool
	dryRun    bool
	overrides invokerOverrides
}

func newRunCommand(app *App) *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the companion script and insert its output",
		Long: `Run the companion script and insert its output at the cursor.

Without --file the output is written to standard output unchanged. With
--file the output is inserted into the file at the position given by
--offset, --at or --end (default: the start of the file) and the file is
saved. Nothing is written when the script fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(cmd); err != nil {
				return err
			}
			return runScript(cmd, app, opts)
		},
	}

	runCmd.Flags().StringVarP(&opts.file, "file", "f", "", "insert into this file instead of printing to stdout")
	runCmd.Flags().IntVar(&opts.offset, "offset", 0, "insert at this character offset (0-based)")
	runCmd.Flags().StringVar(&opts.at, "at", "", "insert at LINE[:COL] (1-based)")
	runCmd.Flags().BoolVar(&opts.end, "end", false, "insert at the end of the file")
	runCmd.Flags().BoolVar(&opts.create, "create", false, "start an empty document when --file does not exist")
	runCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print what would run without running it")
	addInvokerFlags(runCmd, &opts.overrides)
	runCmd.MarkFlagsMutuallyExclusive("offset", "at", "end")

	return runCmd
}

// addInvokerFlags registers the flags that override invoker configuration.
func addInvokerFlags(cmd *cobra.Command, o *invokerOverrides) {
	cmd.Flags().StringVar(&o.interpreter, "interpreter", "", "interpreter to run the script with (overrides config)")
	cmd.Flags().StringVar(&o.installDir, "install-dir", "", "directory holding the companion script (overrides config)")
}

func (o *runOptions) validate(cmd *cobra.Command) error {
	if o.file != "" {
		if cmd.Flags().Changed("offset") && o.offset < 0 {
			return fmt.Errorf("--offset must not be negative, got %d", o.offset)
		}
		return nil
	}
	for _, name := range []string{"offset", "at", "end", "create"} {
		if cmd.Flags().Changed(name) {
			return fmt.Errorf("--%s requires --file", name)
		}
	}
	return nil
}

func runScript(cmd *cobra.Command, app *App, opts *runOptions) error {
	ctx := cmd.Context()
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	inv, err := app.newInvoker(cfg, opts.overrides)
	if err != nil {
		return err
	}

	if opts.dryRun {
		return printPlan(cmd, inv)
	}

	doc, file, err := opts.openDocument(cmd, app)
	if err != nil {
		return err
	}

	res, err := inv.Run(ctx, doc)
	if err != nil {
		return classifyRunError(err, inv)
	}

	if file != nil {
		if err := file.Save(); err != nil {
			return classifyDocumentError(err, "save document", file.Path())
		}
		fmt.Fprintf(app.stderr, "%s Inserted %d characters into %s at %d\n",
			SuccessStyle.Render("✓"), res.End-res.Start, file.Path(), res.Start)
	}

	if app.verbose {
		summary := preview.Summarize(res.Output)
		app.logger().Info("script finished",
			"id", res.ID.String(),
			"duration", res.Duration,
			"headlines", summary.Headlines,
			"timestamps", summary.Timestamps,
		)
	}
	return nil
}

// openDocument returns the target document. Without --file it is a stream
// over stdout and the returned File is nil.
func (o *runOptions) openDocument(cmd *cobra.Command, app *App) (document.Document, *document.File, error) {
	if o.file == "" {
		return document.NewStream(app.stdout), nil, nil
	}

	file, err := document.OpenFile(o.file, o.create)
	if err != nil {
		return nil, nil, classifyDocumentError(err, "open document", o.file)
	}

	switch {
	case o.end:
		file.MoveToEnd()
	case o.at != "":
		line, col, err := document.ParseLineCol(o.at)
		if err != nil {
			return nil, nil, classifyDocumentError(err, "position cursor", o.file)
		}
		if err := file.SetCursorLineCol(line, col); err != nil {
			return nil, nil, classifyDocumentError(err, "position cursor", o.file)
		}
	case cmd.Flags().Changed("offset"):
		if err := file.SetCursor(o.offset); err != nil {
			return nil, nil, classifyDocumentError(err, "position cursor", o.file)
		}
	}
	return file, file, nil
}

// printPlan reports what a run would execute, without spawning anything.
func printPlan(cmd *cobra.Command, inv *invoker.Invoker) error {
	plan, err := inv.Check()
	if err != nil {
		return classifyRunError(err, inv)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("would run:"), strings.Join(plan.Argv(), " "))
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("in:"), plan.InstallDir)
	return nil
}
