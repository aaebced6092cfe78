// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"cal2org-cli/internal/preview"

	"github.com/spf13/cobra"
)

func newPreviewCommand(app *App) *cobra.Command {
	var (
		overrides invokerOverrides
		width     int
		raw       bool
	)

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the script output in the terminal",
		Long: `Run the companion script and render its Org output in the terminal.

Nothing is inserted anywhere. Use --raw to print the captured text as-is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := app.loadConfig(ctx)
			if err != nil {
				return err
			}
			inv, err := app.newInvoker(cfg, overrides)
			if err != nil {
				return err
			}

			res, err := inv.Capture(ctx)
			if err != nil {
				return classifyRunError(err, inv)
			}

			w := cmd.OutOrStdout()
			if raw {
				_, err := fmt.Fprint(w, res.Output)
				return err
			}

			rendered, err := preview.Render(res.Output, preview.Options{
				Style: cfg.UI.ColorScheme.GlamourStyle(),
				Width: width,
			})
			if err != nil {
				return fmt.Errorf("failed to render preview: %w", err)
			}
			fmt.Fprint(w, rendered)

			summary := preview.Summarize(res.Output)
			fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("%d headlines, %d timestamps", summary.Headlines, summary.Timestamps)))
			return nil
		},
	}

	previewCmd.Flags().IntVar(&width, "width", 80, "word wrap width (0 disables wrapping)")
	previewCmd.Flags().BoolVar(&raw, "raw", false, "print the captured output without rendering")
	addInvokerFlags(previewCmd, &overrides)

	return previewCmd
}
