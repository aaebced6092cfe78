// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"cal2org-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `cal2org config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cal2org configuration",
		Long: `Manage cal2org configuration.

Configuration is stored in:
  - Linux: ~/.config/cal2org/config.cue
  - macOS: ~/Library/Application Support/cal2org/config.cue
  - Windows: %APPDATA%\cal2org\config.cue

Every key can also be set from the environment, e.g. CAL2ORG_INTERPRETER
or CAL2ORG_UI_VERBOSE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			out, err := config.Encode(cfg, config.Format(format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	showCmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "output format ("+formatNames()+")")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig(force)
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app)
		},
	}

	cfgCmd.AddCommand(showCmd, initCmd, pathCmd)
	return cfgCmd
}

func showConfigPath(cmd *cobra.Command, app *App) error {
	path := app.configPath
	if path == "" {
		var err error
		if path, err = config.ConfigFilePath(); err != nil {
			return err
		}
	}

	status := SubtitleStyle.Render("(not found, using defaults)")
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		status = SuccessStyle.Render("(exists)")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", path, status)
	return nil
}

func formatNames() string {
	formats := config.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, "|")
}
