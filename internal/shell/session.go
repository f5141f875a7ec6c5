// Package shell implements the interactive SQL shell: the session state,
// the dot-command router, result materialization and the .dump exporter.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sqlsh/internal/render"
	"github.com/leapstack-labs/sqlsh/pkg/adapter"
)

// MemoryPath opens a transient in-memory database.
const MemoryPath = ":memory:"

// Options configures a new Session.
type Options struct {
	Driver string
	Path   string
	Params map[string]any

	Mode       render.Mode
	WithHeader bool
	WithEcho   bool
	NullValue  string

	// Cwd resolves relative paths; defaults to the process working directory.
	Cwd string

	Prompt         string
	ContinuePrompt string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger   *slog.Logger
	LogLevel slog.Leveler
}

// Session is the mutable state shared by every command for the lifetime
// of the shell. It owns exactly one connection and one output sink.
type Session struct {
	ID string

	conn     adapter.Adapter
	driver   string
	params   map[string]any
	filename string

	stdout *sink
	out    *sink
	once   *sink
	stderr io.Writer
	stdin  io.Reader

	Mode        render.Mode
	WithHeader  bool
	WithEcho    bool
	NullValue   string
	Cwd         string
	InsertTable string
	Separator   string
	Widths      []int

	Timer   bool
	Changes bool
	Bail    bool
	EQP     bool

	Prompt         string
	ContinuePrompt string

	logger   *slog.Logger
	logLevel slog.Leveler
	logFile  *os.File
	logName  string
}

// New opens the configured database and returns a ready session.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Driver == "" {
		opts.Driver = "sqlite"
	}
	if opts.Cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		opts.Cwd = wd
	}
	if opts.Prompt == "" {
		opts.Prompt = "sqlsh> "
	}
	if opts.ContinuePrompt == "" {
		opts.ContinuePrompt = "   ...> "
	}
	if opts.LogLevel == nil {
		opts.LogLevel = slog.LevelInfo
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	stdout := newStreamSink("stdout", opts.Stdout)
	s := &Session{
		ID:             id,
		driver:         opts.Driver,
		params:         opts.Params,
		stdout:         stdout,
		out:            stdout,
		stderr:         opts.Stderr,
		stdin:          opts.Stdin,
		Mode:           opts.Mode,
		WithHeader:     opts.WithHeader,
		WithEcho:       opts.WithEcho,
		NullValue:      opts.NullValue,
		Cwd:            opts.Cwd,
		Separator:      "|",
		Prompt:         opts.Prompt,
		ContinuePrompt: opts.ContinuePrompt,
		logger:         logger.With("session", id),
		logLevel:       opts.LogLevel,
		logName:        "stderr",
	}

	if err := s.Open(ctx, opts.Path); err != nil {
		return nil, err
	}
	return s, nil
}

// Open replaces the connection with one to path. On failure the previous
// connection stays live.
func (s *Session) Open(ctx context.Context, path string) error {
	if path == "" {
		path = MemoryPath
	}
	resolved := s.Resolve(path)

	conn, err := adapter.NewAdapter(adapter.Config{Driver: s.driver}, s.logger)
	if err != nil {
		return err
	}
	if err := conn.Connect(ctx, adapter.Config{Driver: s.driver, Path: resolved, Params: s.params}); err != nil {
		return fmt.Errorf("unable to open database %q: %w", path, err)
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.logger.Warn("failed to close previous database", "path", s.filename, "error", err)
		}
	}
	s.conn = conn
	s.filename = resolved
	s.logger.Debug("database opened", "driver", s.driver, "path", resolved)
	return nil
}

// Conn returns the live database adapter.
func (s *Session) Conn() adapter.Adapter {
	return s.conn
}

// Filename returns the resolved path of the open database.
func (s *Session) Filename() string {
	return s.filename
}

// Driver returns the adapter name used for connections.
func (s *Session) Driver() string {
	return s.driver
}

// Resolve joins a relative path onto the session working directory.
func (s *Session) Resolve(path string) string {
	if path == MemoryPath || path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Cwd, path)
}

// Cd changes the session working directory.
func (s *Session) Cd(path string) error {
	target := s.Resolve(path)
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("cannot change directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot change directory: %s is not a directory", target)
	}
	s.Cwd = filepath.Clean(target)
	return nil
}

// SetMode switches the render mode. Unknown names leave the mode unchanged.
func (s *Session) SetMode(name string) error {
	m, err := render.ParseMode(name)
	if err != nil {
		return err
	}
	s.Mode = m
	return nil
}

// SetOutput redirects output to the file at path, appending to it.
// An empty path or "stdout" restores standard output.
func (s *Session) SetOutput(path string) error {
	if path == "" || path == "stdout" {
		return s.swapOutput(s.stdout)
	}
	next, err := openFileSink(s.Resolve(path))
	if err != nil {
		return err
	}
	return s.swapOutput(next)
}

func (s *Session) swapOutput(next *sink) error {
	prev := s.out
	var err error
	if prev.isFile() {
		err = prev.Close()
	} else {
		err = prev.Flush()
	}
	s.out = next
	return err
}

// SetOnce sends only the next command's output to path.
func (s *Session) SetOnce(path string) error {
	next, err := openFileSink(s.Resolve(path))
	if err != nil {
		return err
	}
	if s.once != nil {
		_ = s.once.Close()
	}
	s.once = next
	return nil
}

func (s *Session) endOnce() error {
	if s.once == nil {
		return nil
	}
	err := s.once.Close()
	s.once = nil
	return err
}

// OutputName describes the current sink.
func (s *Session) OutputName() string {
	return s.out.name
}

// Out returns the writer results should go to.
func (s *Session) Out() io.Writer {
	if s.once != nil {
		return s.once
	}
	return s.out
}

// Stdout returns the terminal output, bypassing any redirection.
func (s *Session) Stdout() io.Writer {
	return s.stdout
}

// Stderr returns the diagnostic writer.
func (s *Session) Stderr() io.Writer {
	return s.stderr
}

// Stdin returns the input stream.
func (s *Session) Stdin() io.Reader {
	return s.stdin
}

// Flush flushes every buffered sink.
func (s *Session) Flush() error {
	var errs []error
	if s.once != nil {
		errs = append(errs, s.once.Flush())
	}
	errs = append(errs, s.out.Flush())
	if s.out != s.stdout {
		errs = append(errs, s.stdout.Flush())
	}
	return errors.Join(errs...)
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// SetLog redirects the session logger to a file, stderr, or nowhere ("off").
func (s *Session) SetLog(target string) error {
	var w io.Writer
	var file *os.File
	switch target {
	case "off":
	case "stderr":
		w = s.stderr
	case "stdout":
		w = s.stdout
	default:
		f, err := os.OpenFile(s.Resolve(target), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		w, file = f, f
	}

	if s.logFile != nil {
		_ = s.logFile.Close()
	}
	s.logFile = file
	s.logName = target

	if w == nil {
		s.logger = slog.New(slog.DiscardHandler).With("session", s.ID)
		return nil
	}
	s.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: s.logLevel})).With("session", s.ID)
	return nil
}

// Close flushes output and releases the connection and any open files.
func (s *Session) Close() error {
	var errs []error
	errs = append(errs, s.endOnce())
	if s.out.isFile() {
		errs = append(errs, s.out.Close())
		s.out = s.stdout
	}
	errs = append(errs, s.stdout.Flush())
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
	}
	if s.logFile != nil {
		errs = append(errs, s.logFile.Close())
		s.logFile = nil
	}
	return errors.Join(errs...)
}
