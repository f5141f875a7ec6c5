package shell

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlsh/internal/render"
	"github.com/leapstack-labs/sqlsh/pkg/adapter"
)

// Materialize runs one statement and collects its full result, with every
// cell formatted for the session mode. Statements that return no columns
// are executed for effect and yield a nil result.
func (s *Session) Materialize(ctx context.Context, query string) (*render.Result, error) {
	return s.materializeAs(ctx, query, s.Mode)
}

func (s *Session) materializeAs(ctx context.Context, query string, mode render.Mode) (*render.Result, error) {
	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, &StatementError{SQL: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &StatementError{SQL: query, Err: err}
	}

	if len(cols) == 0 {
		for rows.Next() {
		}
		if err := rows.Err(); err != nil {
			return nil, &StatementError{SQL: query, Err: err}
		}
		return nil, nil
	}

	res := render.NewResult(cols, mode)
	if err := scanInto(rows, res, mode, s.NullValue); err != nil {
		return nil, &StatementError{SQL: query, Err: err}
	}
	return res, nil
}

func scanInto(rows *sql.Rows, res *render.Result, mode render.Mode, nullValue string) error {
	n := len(res.Columns)
	for rows.Next() {
		raw := make([]any, n)
		ptrs := make([]any, n)
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}

		vals := make([]render.Value, n)
		for i, v := range raw {
			vals[i] = render.ValueOf(v)
		}
		if err := res.AppendValues(vals, mode, nullValue); err != nil {
			return err
		}
	}
	return rows.Err()
}

// queryValues runs a catalog query and returns its rows as typed values.
func (s *Session) queryValues(ctx context.Context, query string, args ...any) ([]string, [][]render.Value, error) {
	db := s.conn.DB()
	if db == nil {
		return nil, nil, adapter.ErrNotConnected
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]render.Value
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		vals := make([]render.Value, len(raw))
		for i, v := range raw {
			vals[i] = render.ValueOf(v)
		}
		out = append(out, vals)
	}
	return cols, out, rows.Err()
}

// queryStrings is queryValues flattened to display text.
func (s *Session) queryStrings(ctx context.Context, query string, args ...any) ([]string, [][]string, error) {
	cols, rows, err := s.queryValues(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = v.Format(render.List, "")
		}
	}
	return cols, out, nil
}

// RenderResult writes res through the session mode and flushes the sink.
func (s *Session) RenderResult(res *render.Result) error {
	opts := render.Options{
		Mode:       s.Mode,
		WithHeader: s.WithHeader,
		Separator:  s.Separator,
		Table:      s.InsertTable,
		Widths:     s.Widths,
	}
	if err := render.Render(s.Out(), res, opts); err != nil {
		return err
	}
	return s.Flush()
}

// RenderStrings renders a shell-generated table in the session mode.
func (s *Session) RenderStrings(cols []string, rows [][]string) error {
	res, err := render.FromStrings(cols, rows, s.Mode)
	if err != nil {
		return err
	}
	return s.RenderResult(res)
}

// explainPlan prints the query plan tree for query.
func (s *Session) explainPlan(ctx context.Context, query string) error {
	prefix := s.conn.Dialect().PlanPrefix
	if prefix == "" {
		return nil
	}
	_, rows, err := s.queryStrings(ctx, prefix+query)
	if err != nil {
		return err
	}

	w := s.Out()
	if _, err := fmt.Fprintln(w, "QUERY PLAN"); err != nil {
		return err
	}
	// sqlite plans are (id, parent, notused, detail); other engines print as-is
	depth := map[string]int{"0": 0}
	for _, r := range rows {
		if len(r) == 4 {
			d := depth[r[1]] + 1
			depth[r[0]] = d
			_, _ = fmt.Fprintf(w, "%s`--%s\n", strings.Repeat("   ", d-1), r[3])
			continue
		}
		_, _ = fmt.Fprintln(w, strings.Join(r, " "))
	}
	return nil
}
