// Package commands contains the sqlsh command implementations.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/sqlsh/internal/cli/config"
	"github.com/leapstack-labs/sqlsh/internal/shell"
	"golang.org/x/term"
)

// ShellOptions holds what the root command resolved for one shell run.
type ShellOptions struct {
	Config *config.Config

	// Database overrides Config.Database when FILENAME is given.
	Database string
	// Command is executed once instead of reading input.
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle = lipgloss.NewStyle().Bold(true)
)

// RunShell opens the session and drives it from the command, a script on
// stdin, or the interactive line editor. A non-zero exit is returned as
// *shell.ExitError after its cause has already been reported.
func RunShell(ctx context.Context, opts ShellOptions) error {
	cfg := opts.Config
	path := cfg.Database
	if opts.Database != "" {
		path = opts.Database
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	session, err := shell.New(ctx, shell.Options{
		Driver:         cfg.Driver,
		Path:           path,
		Params:         cfg.Params,
		Mode:           cfg.RenderMode(),
		WithHeader:     cfg.Header,
		WithEcho:       cfg.Echo,
		NullValue:      cfg.NullValue,
		Prompt:         cfg.Prompt,
		ContinuePrompt: cfg.ContinuePrompt,
		Stdin:          opts.Stdin,
		Stdout:         opts.Stdout,
		Stderr:         opts.Stderr,
		Logger:         config.GetLogger(ctx),
		LogLevel:       level,
	})
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	sh := shell.NewShell(session, nil)
	sh.StyleError = ErrorStyle(opts.Stderr)

	if cfg.Init != "" {
		if err := runInit(ctx, sh, cfg.Init); err != nil {
			return exitStatus(err)
		}
	}

	switch {
	case opts.Command != "":
		return exitStatus(sh.Run(ctx, opts.Command))
	case !isTerminal(session.Stdin()):
		return exitStatus(sh.RunScript(ctx, session.Stdin()))
	default:
		return runREPL(ctx, sh, cfg.HistoryFile)
	}
}

func runInit(ctx context.Context, sh *shell.Shell, path string) error {
	f, err := os.Open(sh.Resolve(path))
	if err != nil {
		err = fmt.Errorf("cannot open init file %q: %w", path, err)
		sh.Report(err)
		return err
	}
	defer func() { _ = f.Close() }()
	return sh.RunScript(ctx, f)
}

// exitStatus maps the outcome of non-interactive input to an exit status.
// Failures were already reported by the shell.
func exitStatus(err error) error {
	if err == nil {
		return nil
	}
	if code, ok := shell.IsExit(err); ok {
		if code == 0 {
			return nil
		}
		return err
	}
	return &shell.ExitError{Code: 1}
}

// ErrorStyle returns a styler for error text written to w, or nil when w
// is not a terminal.
func ErrorStyle(w io.Writer) func(string) string {
	if !isTerminal(w) {
		return nil
	}
	return func(s string) string { return errorStyle.Render(s) }
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
