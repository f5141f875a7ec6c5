package shell

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash"
	"runtime"
	"strings"

	"github.com/leapstack-labs/sqlsh/internal/render"
	"golang.org/x/crypto/sha3"
)

func cmdTables(ctx context.Context, sh *Shell, args []string) error {
	if len(args) > 1 {
		return &UsageError{Usage: ".tables ?TABLE?"}
	}
	cols, rows, err := sh.selectStrings(ctx, sh.tablesQuery(firstArg(args)))
	if err != nil {
		return err
	}
	return sh.RenderStrings(cols, rows)
}

func cmdIndexes(ctx context.Context, sh *Shell, args []string) error {
	if len(args) > 1 {
		return &UsageError{Usage: ".indexes ?TABLE?"}
	}
	cols, rows, err := sh.selectStrings(ctx, sh.indexesQuery(firstArg(args)))
	if err != nil {
		return err
	}
	return sh.RenderStrings(cols, rows)
}

func cmdSchema(ctx context.Context, sh *Shell, args []string) error {
	if len(args) > 1 {
		return &UsageError{Usage: ".schema ?PATTERN?"}
	}
	return sh.writeSchema(ctx, firstArg(args))
}

func (sh *Shell) writeSchema(ctx context.Context, pattern string) error {
	_, rows, err := sh.selectStrings(ctx, sh.schemaQuery(pattern))
	if err != nil {
		return err
	}
	w := sh.Out()
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, terminate(r[0])); err != nil {
			return err
		}
	}
	return nil
}

func cmdFullSchema(ctx context.Context, sh *Shell, args []string) error {
	if len(args) > 0 {
		return &UsageError{Usage: ".fullschema"}
	}
	if err := sh.writeSchema(ctx, ""); err != nil {
		return err
	}

	w := sh.Out()
	exists, err := sh.tableExists(ctx, "sqlite_stat1")
	if err != nil {
		return err
	}
	if !exists {
		_, err := fmt.Fprintln(w, "/* No STAT tables available */")
		return err
	}

	_, rows, err := sh.queryValues(ctx, "SELECT tbl, idx, stat FROM sqlite_stat1")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "ANALYZE sqlite_schema;")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "INSERT INTO sqlite_stat1 VALUES(%s,%s,%s);\n", r[0].SQL(), r[1].SQL(), r[2].SQL())
	}
	_, err = fmt.Fprintln(w, "ANALYZE sqlite_schema;")
	return err
}

func cmdDatabases(ctx context.Context, sh *Shell, _ []string) error {
	q := sh.conn.Dialect().DatabasesQuery
	if q == "" {
		return fmt.Errorf(".databases is not available for the %s driver", sh.driver)
	}
	res, err := sh.materializeAs(ctx, q, sh.Mode)
	if err != nil {
		return err
	}
	return sh.RenderResult(res)
}

// dbconfigPragmas are the boolean connection settings reported by .dbconfig.
var dbconfigPragmas = []string{
	"automatic_index",
	"cell_size_check",
	"defer_foreign_keys",
	"foreign_keys",
	"legacy_alter_table",
	"query_only",
	"recursive_triggers",
	"reverse_unordered_selects",
	"trusted_schema",
}

func cmdDBConfig(ctx context.Context, sh *Shell, _ []string) error {
	if !sh.conn.Dialect().Pragmas {
		return fmt.Errorf(".dbconfig is not available for the %s driver", sh.driver)
	}
	rows := make([][]string, 0, len(dbconfigPragmas))
	for _, name := range dbconfigPragmas {
		_, vals, err := sh.queryValues(ctx, "PRAGMA "+name)
		if err != nil || len(vals) == 0 {
			continue
		}
		rows = append(rows, []string{name, onOff(vals[0][0].Int != 0)})
	}
	return sh.RenderStrings([]string{"setting", "value"}, rows)
}

var dbinfoPragmas = []string{
	"page_size",
	"page_count",
	"freelist_count",
	"schema_version",
	"user_version",
	"application_id",
	"encoding",
	"journal_mode",
	"auto_vacuum",
}

func cmdDBInfo(ctx context.Context, sh *Shell, _ []string) error {
	if !sh.conn.Dialect().Pragmas {
		return fmt.Errorf(".dbinfo is not available for the %s driver", sh.driver)
	}

	var rows [][]string
	for _, name := range dbinfoPragmas {
		_, vals, err := sh.queryStrings(ctx, "PRAGMA "+name)
		if err != nil || len(vals) == 0 {
			continue
		}
		rows = append(rows, []string{name, vals[0][0]})
	}

	counts := map[string]string{"table": "0", "index": "0", "trigger": "0", "view": "0"}
	_, vals, err := sh.selectStrings(ctx, sh.objectCountsQuery())
	if err != nil {
		return err
	}
	for _, r := range vals {
		counts[r[0]] = r[1]
	}
	for _, k := range [][2]string{{"table", "tables"}, {"index", "indexes"}, {"trigger", "triggers"}, {"view", "views"}} {
		rows = append(rows, []string{"number of " + k[1], counts[k[0]]})
	}

	w := sh.Out()
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", r[0]+":", r[1]); err != nil {
			return err
		}
	}
	return nil
}

func cmdVersion(ctx context.Context, sh *Shell, _ []string) error {
	d := sh.conn.Dialect()
	_, rows, err := sh.queryStrings(ctx, d.VersionQuery)
	if err != nil {
		return err
	}
	version := ""
	if len(rows) > 0 {
		version = rows[0][0]
	}

	source := ""
	if d.SourceIDQuery != "" {
		if _, rows, err := sh.queryStrings(ctx, d.SourceIDQuery); err == nil && len(rows) > 0 {
			source = rows[0][0]
		}
	}

	w := sh.Out()
	_, _ = fmt.Fprintln(w, strings.TrimSpace(fmt.Sprintf("%s %s %s", d.Name, version, source)))
	_, err = fmt.Fprintf(w, "%s %s/%s (driver %s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH, sh.driver)
	return err
}

// cmdSHA3Sum hashes every table's rows, in name order, rendered as SQL literals.
func cmdSHA3Sum(ctx context.Context, sh *Shell, args []string) error {
	usage := ".sha3sum ?--sha3-224|--sha3-256|--sha3-384|--sha3-512? ?--schema? ?LIKE-PATTERN?"
	newHash := sha3.New256
	withSchema := false
	pattern := ""
	for _, a := range args {
		switch a {
		case "--sha3-224":
			newHash = sha3.New224
		case "--sha3-256":
			newHash = sha3.New256
		case "--sha3-384":
			newHash = sha3.New384
		case "--sha3-512":
			newHash = sha3.New512
		case "--schema":
			withSchema = true
		default:
			if strings.HasPrefix(a, "-") || pattern != "" {
				return &UsageError{Usage: usage}
			}
			pattern = a
		}
	}

	h := newHash()
	var patterns []string
	if pattern != "" {
		patterns = []string{pattern}
	}
	objs, err := sh.listObjects(ctx, patterns)
	if err != nil {
		return err
	}
	for _, o := range objs {
		if withSchema {
			_, _ = fmt.Fprintf(h, "%s\n", o.SQL)
		}
		if o.Type != "table" {
			continue
		}
		if err := hashTable(ctx, sh.Session, h, o.Name); err != nil {
			return fmt.Errorf("hashing %s: %w", o.Name, err)
		}
	}

	_, err = fmt.Fprintln(sh.Out(), hex.EncodeToString(h.Sum(nil)))
	return err
}

func hashTable(ctx context.Context, s *Session, h hash.Hash, name string) error {
	_, _ = fmt.Fprintf(h, "T%s\n", name)
	_, rows, err := s.queryValues(ctx, "SELECT * FROM "+render.QuoteIdent(name))
	if err != nil {
		return err
	}
	for _, r := range rows {
		lits := make([]string, len(r))
		for i, v := range r {
			lits[i] = v.SQL()
		}
		_, _ = fmt.Fprintf(h, "R%s\n", strings.Join(lits, ","))
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
