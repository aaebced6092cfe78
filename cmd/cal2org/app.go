// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"cal2org-cli/internal/config"
	"cal2org-cli/internal/invoker"
	"cal2org-cli/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and reaches configuration and process execution
	// through it.
	App struct {
		Config   ConfigProvider
		Executor invoker.Executor
		LookPath func(string) (string, error)
		stdout   io.Writer
		stderr   io.Writer

		// Global flag values, bound by NewRootCommand.
		verbose    bool
		configPath string

		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Executor invoker.Executor
		LookPath func(string) (string, error)
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// invokerOverrides are per-invocation flag values that win over config.
	invokerOverrides struct {
		interpreter string
		installDir  string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config:   deps.Config,
		Executor: deps.Executor,
		LookPath: deps.LookPath,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// loadConfig loads configuration honoring --config, and folds ui.verbose
// into the --verbose flag when the flag was not given.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return nil, err
	}
	if cfg.UI.Verbose {
		a.verbose = true
	}
	a.colorScheme = cfg.UI.ColorScheme
	return cfg, nil
}

// issueStyle is the glamour style for issue pages.
func (a *App) issueStyle() string {
	return a.colorScheme.GlamourStyle()
}

// logger returns the diagnostic logger: debug level in verbose mode,
// warnings only otherwise.
func (a *App) logger() *log.Logger {
	level := log.WarnLevel
	if a.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// newInvoker builds an Invoker from the loaded configuration and flag overrides.
func (a *App) newInvoker(cfg *config.Config, overrides invokerOverrides) (*invoker.Invoker, error) {
	opts := invoker.Options{
		Interpreter:  cfg.Interpreter,
		ScriptName:   cfg.ScriptName,
		InstallDir:   cfg.InstallDir,
		Timeout:      cfg.Timeout,
		StrictStderr: cfg.StrictStderr,
		Executor:     a.Executor,
		LookPath:     a.LookPath,
		Logger:       a.logger(),
	}
	if overrides.interpreter != "" {
		opts.Interpreter = types.InterpreterRef(overrides.interpreter)
	}
	if overrides.installDir != "" {
		opts.InstallDir = overrides.installDir
	}
	return invoker.New(opts)
}
