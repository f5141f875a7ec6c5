package shell

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/leapstack-labs/sqlsh/internal/render"
)

func cmdRead(ctx context.Context, sh *Shell, args []string) error {
	if len(args) != 1 {
		return &UsageError{Usage: ".read FILE"}
	}
	f, err := os.Open(sh.Resolve(args[0]))
	if err != nil {
		return fmt.Errorf("cannot open %q: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()

	sh.logger.Debug("reading script", "path", f.Name())
	return sh.RunScript(ctx, f)
}

func cmdDump(ctx context.Context, sh *Shell, args []string) error {
	return sh.Dump(ctx, sh.Out(), args)
}

// cmdSystem runs a command line through the platform shell.
func cmdSystem(ctx context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		return &UsageError{Usage: ".system COMMAND"}
	}
	if err := sh.Flush(); err != nil {
		return err
	}

	line := strings.Join(args, " ")
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", line)
	} else {
		cmd = exec.CommandContext(ctx, "/bin/sh", "-c", line)
	}
	cmd.Dir = sh.Cwd
	cmd.Stdout = sh.Out()
	cmd.Stderr = sh.Stderr()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("command exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run command: %w", err)
	}
	return nil
}

// cmdImport loads CSV (or tab-separated, in tabs mode) rows into TABLE,
// creating it from the header row when it does not exist yet.
func cmdImport(ctx context.Context, sh *Shell, args []string) error {
	if len(args) != 2 {
		return &UsageError{Usage: ".import FILE TABLE"}
	}
	path, table := args[0], args[1]

	f, err := os.Open(sh.Resolve(path))
	if err != nil {
		return fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	switch sh.Mode {
	case render.Tabs:
		r.Comma = '\t'
	case render.List:
		if sep := []rune(sh.Separator); len(sep) == 1 {
			r.Comma = sep[0]
		}
	}

	exists, err := sh.tableExists(ctx, table)
	if err != nil {
		return err
	}

	first, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var pending [][]string
	width := len(first)
	if exists {
		cols, _, err := sh.queryValues(ctx, "SELECT * FROM "+render.QuoteIdent(table)+" LIMIT 0")
		if err != nil {
			return err
		}
		width = len(cols)
		pending = append(pending, first)
	} else if err := createImportTable(ctx, sh.Session, table, first); err != nil {
		return err
	}

	return importRows(ctx, sh, r, path, table, width, pending)
}

func createImportTable(ctx context.Context, s *Session, table string, header []string) error {
	defs := make([]string, len(header))
	for i, h := range header {
		defs[i] = render.QuoteIdent(h) + " TEXT"
	}
	ddl := fmt.Sprintf("CREATE TABLE %s(%s)", render.QuoteIdent(table), strings.Join(defs, ", "))
	if err := s.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("cannot create %s: %w", table, err)
	}
	return nil
}

func importRows(ctx context.Context, sh *Shell, r *csv.Reader, path, table string, width int, pending [][]string) error {
	query, _, err := catalogSQL.Insert(render.QuoteIdent(table)).Values(make([]any, width)...).ToSql()
	if err != nil {
		return err
	}

	tx, err := sh.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()

	line := 1
	if len(pending) > 0 {
		line = 0
	}
	insert := func(rec []string) error {
		line++
		if len(rec) != width {
			_, _ = fmt.Fprintf(sh.Stderr(), "%s:%d: expected %d columns but found %d - %s\n",
				path, line, width, len(rec), fillMode(len(rec), width))
		}
		vals := make([]any, width)
		for i := range vals {
			if i < len(rec) {
				vals[i] = rec[i]
			}
		}
		_, err := stmt.ExecContext(ctx, vals...)
		return err
	}

	count := 0
	for _, rec := range pending {
		if err := insert(rec); err != nil {
			_ = tx.Rollback()
			return err
		}
		count++
	}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := insert(rec); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	sh.logger.Debug("import complete", "table", table, "rows", count)
	return nil
}

func fillMode(got, want int) string {
	if got < want {
		return "filling the rest with NULL"
	}
	return "extras ignored"
}
