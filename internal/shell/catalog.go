package shell

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// schemaObject is one row of the engine catalog.
type schemaObject struct {
	Type  string
	Name  string
	Table string
	SQL   string
}

var catalogSQL = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func (s *Session) catalog() string {
	return s.conn.Dialect().Catalog
}

// tablesQuery lists user tables and views, optionally filtered by a LIKE pattern.
func (s *Session) tablesQuery(pattern string) sq.SelectBuilder {
	q := catalogSQL.Select("name").
		From(s.catalog()).
		Where(sq.Eq{"type": []string{"table", "view"}}).
		Where(sq.NotLike{"name": "sqlite_%"}).
		OrderBy("1")
	if pattern != "" {
		q = q.Where(sq.Like{"name": pattern})
	}
	return q
}

// indexesQuery lists user indexes, optionally for tables matching pattern.
func (s *Session) indexesQuery(pattern string) sq.SelectBuilder {
	q := catalogSQL.Select("name").
		From(s.catalog()).
		Where(sq.Eq{"type": "index"}).
		Where(sq.NotLike{"name": "sqlite_%"}).
		OrderBy("1")
	if pattern != "" {
		q = q.Where(sq.Like{"tbl_name": pattern})
	}
	return q
}

// schemaQuery returns stored CREATE statements grouped by table.
func (s *Session) schemaQuery(pattern string) sq.SelectBuilder {
	q := catalogSQL.Select("sql").
		From(s.catalog()).
		Where(sq.NotEq{"sql": nil}).
		Where(sq.NotLike{"name": "sqlite_autoindex_%"}).
		OrderBy("tbl_name", "type DESC", "name")
	if pattern != "" {
		q = q.Where(sq.Or{sq.Like{"name": pattern}, sq.Like{"tbl_name": pattern}})
	}
	return q
}

// objectsQuery returns every exportable object, restricted to objects
// on tables matching any of patterns when given.
func (s *Session) objectsQuery(patterns []string) sq.SelectBuilder {
	q := catalogSQL.Select("type", "name", "tbl_name", "sql").
		From(s.catalog()).
		Where(sq.NotEq{"sql": nil}).
		Where(sq.NotLike{"name": "sqlite_%"}).
		OrderBy("name")
	if len(patterns) > 0 {
		or := sq.Or{}
		for _, p := range patterns {
			or = append(or, sq.Like{"tbl_name": p})
		}
		q = q.Where(or)
	}
	return q
}

func (s *Session) objectCountsQuery() sq.SelectBuilder {
	return catalogSQL.Select("type", "count(*)").
		From(s.catalog()).
		Where(sq.NotLike{"name": "sqlite_%"}).
		GroupBy("type").
		OrderBy("type")
}

func (s *Session) tableExists(ctx context.Context, name string) (bool, error) {
	query, args, err := catalogSQL.Select("count(*)").
		From(s.catalog()).
		Where(sq.Eq{"type": "table", "name": name}).
		ToSql()
	if err != nil {
		return false, err
	}
	_, rows, err := s.queryValues(ctx, query, args...)
	if err != nil || len(rows) == 0 {
		return false, err
	}
	return rows[0][0].Int > 0, nil
}

// listObjects loads catalog rows for the exporter. Shadow tables and
// anything defined on them are left out: CREATE VIRTUAL TABLE rebuilds them.
func (s *Session) listObjects(ctx context.Context, patterns []string) ([]schemaObject, error) {
	query, args, err := s.objectsQuery(patterns).ToSql()
	if err != nil {
		return nil, err
	}
	_, rows, err := s.queryValues(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	shadow, err := s.shadowTables(ctx)
	if err != nil {
		return nil, err
	}

	objs := make([]schemaObject, 0, len(rows))
	for _, r := range rows {
		o := schemaObject{Type: r[0].Str, Name: r[1].Str, Table: r[2].Str, SQL: r[3].Str}
		if shadow[o.Name] || shadow[o.Table] {
			continue
		}
		objs = append(objs, o)
	}
	return objs, nil
}

// shadowTables names the tables owned by virtual tables.
func (s *Session) shadowTables(ctx context.Context) (map[string]bool, error) {
	if !s.conn.Dialect().Pragmas {
		return nil, nil
	}
	names, err := s.selectColumn(ctx, catalogSQL.Select("name").
		From("pragma_table_list").
		Where(sq.Eq{"type": "shadow"}))
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}

// storedColumns lists the columns of table that hold stored values,
// leaving out generated and hidden ones. Nil means the engine cannot
// tell, and callers select every column.
func (s *Session) storedColumns(ctx context.Context, table string) ([]string, error) {
	if !s.conn.Dialect().Pragmas {
		return nil, nil
	}
	return s.selectColumn(ctx, catalogSQL.Select("name").
		From("pragma_table_xinfo").
		Where(sq.Eq{"arg": table, "hidden": 0}).
		OrderBy("cid"))
}

// selectColumn runs b and returns its first column as text.
func (s *Session) selectColumn(ctx context.Context, b sq.SelectBuilder) ([]string, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	_, rows, err := s.queryValues(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r[0].Str
	}
	return out, nil
}

// selectStrings runs a squirrel query and returns display text.
func (s *Session) selectStrings(ctx context.Context, b sq.SelectBuilder) ([]string, [][]string, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, nil, err
	}
	return s.queryStrings(ctx, query, args...)
}

// TableNames lists user tables and views in name order.
func (s *Session) TableNames(ctx context.Context) ([]string, error) {
	_, rows, err := s.selectStrings(ctx, s.tablesQuery(""))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r[0]
	}
	return names, nil
}
