// SPDX-License-Identifier: MPL-2.0

package invoker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"cal2org-cli/internal/document"
	"cal2org-cli/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"mvdan.cc/sh/v3/shell"
)

// defaultInterpreters are looked up on PATH, in order, when no interpreter
// is configured.
var defaultInterpreters = []string{"python3", "python"}

type (
	// Options configures an Invoker.
	Options struct {
		// Interpreter is the configured interpreter reference ("" = discover).
		Interpreter types.InterpreterRef
		// ScriptName is the script file inside InstallDir.
		ScriptName types.ScriptName
		// InstallDir is where the script lives ("" = executable's directory).
		InstallDir string
		// Timeout bounds a run; zero means no limit.
		Timeout time.Duration
		// StrictStderr fails runs that wrote to stderr.
		StrictStderr bool
		// Executor spawns the process (nil = ExecExecutor).
		Executor Executor
		// LookPath resolves executables (nil = exec.LookPath).
		LookPath func(file string) (string, error)
		// Logger receives run diagnostics (nil = warnings to stderr).
		Logger *log.Logger
	}

	// Invoker runs the companion script and inserts its output into a Document.
	Invoker struct {
		interpreter  types.InterpreterRef
		installDir   string
		scriptPath   string
		timeout      time.Duration
		strictStderr bool
		executor     Executor
		lookPath     func(string) (string, error)
		logger       *log.Logger
	}

	// Plan is the fully resolved invocation: what would be spawned, and where.
	Plan struct {
		InstallDir  string
		ScriptPath  string
		Interpreter []string
	}

	// Result describes one completed run.
	Result struct {
		ID        uuid.UUID
		Plan      *Plan
		ExitCode  types.ExitCode
		Output    string
		ErrOutput string
		Duration  time.Duration
		// Start and End delimit the inserted text (Run only).
		Start int
		End   int
	}
)

// New validates opts and fixes the installation directory and script path
// for the lifetime of the Invoker.
func New(opts Options) (*Invoker, error) {
	if err := opts.Interpreter.Validate(); err != nil {
		return nil, err
	}
	scriptName := opts.ScriptName
	if scriptName == "" {
		scriptName = types.DefaultScriptName
	}
	if err := scriptName.Validate(); err != nil {
		return nil, err
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", opts.Timeout)
	}

	installDir := opts.InstallDir
	if installDir == "" {
		dir, err := DefaultInstallDir()
		if err != nil {
			return nil, err
		}
		installDir = dir
	}
	installDir, err := filepath.Abs(installDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve install directory: %w", err)
	}

	inv := &Invoker{
		interpreter:  opts.Interpreter,
		installDir:   installDir,
		scriptPath:   filepath.Join(installDir, string(scriptName)),
		timeout:      opts.Timeout,
		strictStderr: opts.StrictStderr,
		executor:     opts.Executor,
		lookPath:     opts.LookPath,
		logger:       opts.Logger,
	}
	if inv.executor == nil {
		inv.executor = NewExecExecutor()
	}
	if inv.lookPath == nil {
		inv.lookPath = exec.LookPath
	}
	if inv.logger == nil {
		inv.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "invoker",
			Level:  log.WarnLevel,
		})
	}
	return inv, nil
}

// DefaultInstallDir returns the directory of the running executable with
// symlinks resolved, so a linked binary still finds its sibling script.
func DefaultInstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// InstallDir returns the resolved installation directory.
func (i *Invoker) InstallDir() string { return i.installDir }

// ScriptPath returns the derived script path.
func (i *Invoker) ScriptPath() string { return i.scriptPath }

// CheckScript verifies the script exists and is a regular file.
func (i *Invoker) CheckScript() error {
	info, err := os.Stat(i.scriptPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingScriptError{Path: i.scriptPath}
		}
		return &MissingScriptError{Path: i.scriptPath, Cause: err}
	}
	if !info.Mode().IsRegular() {
		return &MissingScriptError{Path: i.scriptPath, Cause: errors.New("not a regular file")}
	}
	return nil
}

// ResolveInterpreter returns the interpreter argv (absolute executable path
// followed by any configured arguments). A configured reference is split with
// POSIX shell word rules, expanding environment variables; it is never run
// through a shell.
func (i *Invoker) ResolveInterpreter() ([]string, error) {
	if i.interpreter.IsDefault() {
		for _, name := range defaultInterpreters {
			if path, err := i.lookPath(name); err == nil {
				return []string{path}, nil
			}
		}
		return nil, &InterpreterNotFoundError{Tried: slices.Clone(defaultInterpreters)}
	}

	fields, err := shell.Fields(string(i.interpreter), nil)
	if err != nil {
		return nil, &InterpreterNotFoundError{
			Ref:   i.interpreter,
			Cause: fmt.Errorf("invalid interpreter reference: %w", err),
		}
	}
	if len(fields) == 0 || strings.TrimSpace(fields[0]) == "" {
		return nil, &InterpreterNotFoundError{Ref: i.interpreter, Cause: errors.New("empty command")}
	}

	path, err := i.lookPath(fields[0])
	if err != nil {
		return nil, &InterpreterNotFoundError{Ref: i.interpreter, Tried: fields[:1], Cause: err}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return append([]string{path}, fields[1:]...), nil
}

// Check verifies every precondition of a run without spawning anything.
// The script is checked first.
func (i *Invoker) Check() (*Plan, error) {
	if err := i.CheckScript(); err != nil {
		return nil, err
	}
	argv, err := i.ResolveInterpreter()
	if err != nil {
		return nil, err
	}
	return &Plan{
		InstallDir:  i.installDir,
		ScriptPath:  i.scriptPath,
		Interpreter: argv,
	}, nil
}

// Argv returns the full command line: interpreter, its arguments, then the script.
func (p *Plan) Argv() []string {
	return append(slices.Clone(p.Interpreter), p.ScriptPath)
}

// Capture runs the script and returns its output without inserting it.
// Failures are reported as MissingScriptError, InterpreterNotFoundError or
// SubprocessError; no process is spawned when a precondition fails.
func (i *Invoker) Capture(ctx context.Context) (*Result, error) {
	plan, err := i.Check()
	if err != nil {
		return nil, err
	}

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	res := &Result{ID: uuid.Must(uuid.NewV7()), Plan: plan}
	logger := i.logger.With("id", res.ID.String())
	argv := plan.Argv()
	logger.Debug("running script", "argv", argv, "dir", plan.InstallDir)

	started := time.Now()
	out, err := i.executor.Execute(ctx, Command{
		Path: argv[0],
		Args: argv[1:],
		Dir:  plan.InstallDir,
	})
	res.Duration = time.Since(started)

	if out != nil {
		res.ExitCode = out.ExitCode
		res.Output = string(out.Stdout)
		res.ErrOutput = string(out.Stderr)
	}

	if err != nil {
		var startErr *StartError
		logger.Error("script failed", "err", err, "duration", res.Duration)
		return res, &SubprocessError{
			ExitCode: res.ExitCode,
			Stderr:   res.ErrOutput,
			Started:  !errors.As(err, &startErr),
			Cause:    err,
		}
	}

	if !res.ExitCode.IsSuccess() {
		logger.Error("script exited with failure", "exit_code", res.ExitCode, "duration", res.Duration)
		return res, &SubprocessError{ExitCode: res.ExitCode, Stderr: res.ErrOutput, Started: true}
	}

	if res.ErrOutput != "" {
		if i.strictStderr {
			logger.Error("script wrote to stderr", "duration", res.Duration)
			return res, &SubprocessError{Stderr: res.ErrOutput, Started: true}
		}
		logger.Warn("script wrote to stderr", "stderr", strings.TrimSpace(res.ErrOutput))
	}

	logger.Debug("script finished", "bytes", len(res.Output), "duration", res.Duration)
	return res, nil
}

// Run captures the script output and inserts it verbatim at the document's
// cursor, leaving the cursor after the inserted text. The cursor is read when
// the script has finished, not when it was started. On any failure the
// document is left untouched.
func (i *Invoker) Run(ctx context.Context, doc document.Document) (*Result, error) {
	res, err := i.Capture(ctx)
	if err != nil {
		return res, err
	}

	start, err := doc.InsertAtCursor(res.Output)
	if err != nil {
		return res, fmt.Errorf("failed to insert script output: %w", err)
	}
	res.Start = start
	res.End = start + utf8.RuneCountInString(res.Output)

	i.logger.Debug("inserted script output", "id", res.ID.String(), "start", res.Start, "end", res.End)
	return res, nil
}
