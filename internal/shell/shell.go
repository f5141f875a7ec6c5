package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Shell routes input lines to dot-command handlers or the database.
type Shell struct {
	*Session
	registry *Registry

	// StyleError decorates error text written to stderr. Nil leaves it plain.
	StyleError func(string) string
}

// NewShell binds a session to a command registry.
func NewShell(s *Session, reg *Registry) *Shell {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Shell{Session: s, registry: reg}
}

// Registry returns the command registry.
func (sh *Shell) Registry() *Registry {
	return sh.registry
}

// Execute runs one unit of input: a dot-command line or SQL text holding
// one or more statements. Errors are returned, not reported.
func (sh *Shell) Execute(ctx context.Context, input string) error {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil
	}
	if sh.WithEcho {
		if _, err := fmt.Fprintln(sh.Out(), text); err != nil {
			return err
		}
	}

	onceActive := sh.once != nil
	var err error
	if strings.HasPrefix(text, ".") {
		err = sh.dispatch(ctx, text)
	} else {
		err = sh.executeSQL(ctx, text)
	}
	if onceActive {
		if cerr := sh.endOnce(); err == nil {
			err = cerr
		}
	}
	return err
}

func (sh *Shell) dispatch(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, ok := sh.registry.Lookup(fields[0])
	if !ok {
		return &UnknownCommandError{Name: fields[0]}
	}
	sh.logger.Debug("meta command", "name", cmd.Name, "args", len(fields)-1)
	if err := cmd.Run(ctx, sh, fields[1:]); err != nil {
		return err
	}
	return sh.Flush()
}

func (sh *Shell) executeSQL(ctx context.Context, text string) error {
	stmts, rest := SplitStatements(text)
	if rest != "" {
		stmts = append(stmts, rest)
	}
	for _, stmt := range stmts {
		if err := sh.execStatement(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (sh *Shell) execStatement(ctx context.Context, stmt string) error {
	start := time.Now()

	if sh.EQP {
		if err := sh.explainPlan(ctx, stmt); err != nil {
			sh.logger.Debug("query plan unavailable", "error", err)
		}
	}

	res, err := sh.Materialize(ctx, stmt)
	if err != nil {
		return err
	}
	if res != nil {
		if err := sh.RenderResult(res); err != nil {
			return err
		}
	} else if sh.Changes {
		if err := sh.printChanges(ctx); err != nil {
			return err
		}
	}

	if sh.Timer {
		_, _ = fmt.Fprintf(sh.Out(), "Run Time: real %.3f\n", time.Since(start).Seconds())
	}
	return sh.Flush()
}

func (sh *Shell) printChanges(ctx context.Context) error {
	q := sh.conn.Dialect().ChangesQuery
	if q == "" {
		return nil
	}
	_, rows, err := sh.queryStrings(ctx, q)
	if err != nil || len(rows) == 0 {
		return err
	}
	_, err = fmt.Fprintf(sh.Out(), "changes: %s\n", rows[0][0])
	return err
}

// reportedError marks an error already written to stderr.
type reportedError struct {
	error
}

func (e *reportedError) Unwrap() error {
	return e.error
}

// Run executes input and reports any failure to stderr. The returned
// error is nil on success, an *ExitError to terminate, or the reported
// failure so scripted callers can honour .bail.
func (sh *Shell) Run(ctx context.Context, input string) error {
	err := sh.Execute(ctx, input)
	if err == nil {
		return nil
	}
	if _, ok := IsExit(err); ok {
		return err
	}
	var rep *reportedError
	if errors.As(err, &rep) {
		return err
	}
	sh.Report(err)
	return &reportedError{err}
}

// Report writes err to stderr in the shell's error format.
func (sh *Shell) Report(err error) {
	_ = sh.Flush()

	var usage *UsageError
	msg := "Error: " + err.Error()
	if errors.As(err, &usage) {
		msg = usage.Error()
	}
	if sh.StyleError != nil {
		msg = sh.StyleError(msg)
	}
	_, _ = fmt.Fprintln(sh.stderr, msg)
	sh.logger.Debug("command failed", "error", err)
}

// RunScript executes every command and statement read from r. It stops
// on exit requests, and on the first failure when bail is on.
func (sh *Shell) RunScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var pending strings.Builder
	flush := func() error {
		text := pending.String()
		pending.Reset()
		return sh.Run(ctx, text)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if pending.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ".") {
			if err := sh.Run(ctx, line); err != nil && stopScript(sh, err) {
				return err
			}
			continue
		}

		pending.WriteString(line)
		pending.WriteByte('\n')
		if IsComplete(pending.String()) {
			if err := flush(); err != nil && stopScript(sh, err) {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}

	if strings.TrimSpace(pending.String()) != "" {
		if err := flush(); err != nil && stopScript(sh, err) {
			return err
		}
	}
	return nil
}

func stopScript(sh *Shell, err error) bool {
	if _, ok := IsExit(err); ok {
		return true
	}
	return sh.Bail
}
