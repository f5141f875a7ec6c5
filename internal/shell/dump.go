package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/sqlsh/internal/render"
)

// Dump writes a SQL script that recreates the database: tables with their
// rows, then views, indexes and triggers. INSERTs name the stored columns
// so generated ones are recomputed on replay. Objects whose rows cannot be
// read are recorded as comments and summarized in a *DumpError after COMMIT.
func (s *Session) Dump(ctx context.Context, w io.Writer, patterns []string) error {
	objs, err := s.listObjects(ctx, patterns)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	var tables, views, indexes, triggers []schemaObject
	for _, o := range objs {
		switch o.Type {
		case "table":
			tables = append(tables, o)
		case "view":
			views = append(views, o)
		case "index":
			indexes = append(indexes, o)
		case "trigger":
			triggers = append(triggers, o)
		}
	}

	d := &dumper{s: s, w: w}
	d.line("PRAGMA foreign_keys=OFF;")
	d.line("BEGIN TRANSACTION;")

	for _, t := range tables {
		d.line(terminate(t.SQL))
		if err := d.rows(ctx, t.Name); err != nil {
			d.fail(t.Name, err)
		}
	}
	if len(patterns) == 0 {
		d.sequences(ctx)
	}
	for _, group := range [][]schemaObject{views, indexes, triggers} {
		for _, o := range group {
			d.line(terminate(o.SQL))
		}
	}

	d.line("COMMIT;")
	if d.err != nil {
		return d.err
	}
	if len(d.failures) > 0 {
		return &DumpError{Failures: d.failures}
	}
	return nil
}

type dumper struct {
	s        *Session
	w        io.Writer
	err      error
	failures []ObjectError
}

func (d *dumper) line(text string) {
	if d.err != nil {
		return
	}
	_, d.err = io.WriteString(d.w, text+"\n")
}

func (d *dumper) fail(name string, err error) {
	d.failures = append(d.failures, ObjectError{Name: name, Err: err})
	d.line(fmt.Sprintf("/* error reading %s: %s */", name, strings.ReplaceAll(err.Error(), "*/", "* /")))
}

func (d *dumper) rows(ctx context.Context, table string) error {
	cols, err := d.s.storedColumns(ctx, table)
	if err != nil {
		return err
	}

	ident := render.QuoteIdent(table)
	list, target := "*", ident
	if len(cols) > 0 {
		quoted := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = render.QuoteIdent(c)
		}
		list = strings.Join(quoted, ",")
		target = ident + "(" + list + ")"
	}

	_, rows, err := d.s.queryValues(ctx, "SELECT "+list+" FROM "+ident)
	if err != nil {
		return err
	}

	prefix := "INSERT INTO " + target + " VALUES("
	for _, row := range rows {
		lits := make([]string, len(row))
		for i, v := range row {
			lits[i] = v.SQL()
		}
		d.line(prefix + strings.Join(lits, ",") + ");")
	}
	return nil
}

// sequences carries AUTOINCREMENT counters over when the engine keeps them.
func (d *dumper) sequences(ctx context.Context) {
	exists, err := d.s.tableExists(ctx, "sqlite_sequence")
	if err != nil || !exists {
		return
	}
	d.line("DELETE FROM sqlite_sequence;")
	if err := d.rows(ctx, "sqlite_sequence"); err != nil {
		d.fail("sqlite_sequence", err)
	}
}

func terminate(sql string) string {
	sql = strings.TrimSpace(sql)
	if strings.HasSuffix(sql, ";") {
		return sql
	}
	return sql + ";"
}
