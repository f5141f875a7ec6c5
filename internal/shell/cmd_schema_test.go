package shell

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogQueries(t *testing.T) {
	ts := newTestShell(t)

	query, args, err := ts.tablesQuery("us%").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM sqlite_master WHERE type IN (?,?) AND name NOT LIKE ? AND name LIKE ? ORDER BY 1", query)
	assert.Equal(t, []any{"table", "view", "sqlite_%", "us%"}, args)

	query, args, err = ts.objectsQuery([]string{"a%", "b"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "(tbl_name LIKE ? OR tbl_name LIKE ?)")
	assert.Equal(t, []any{"sqlite_%", "a%", "b"}, args)
}

func TestCmdTables(t *testing.T) {
	ts := newTestShell(t)
	ts.seed(t)

	assert.Equal(t, "audit\nusers\nv_users\n", ts.run(t, ".tables"))
	assert.Equal(t, "users\n", ts.run(t, ".tables u%s"))
	assert.Equal(t, "", ts.run(t, ".tables nomatch"))
}

func TestSession_TableNames(t *testing.T) {
	ts := newTestShell(t)
	ts.seed(t)

	names, err := ts.TableNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"audit", "users", "v_users"}, names)
}

func TestCmdIndexes(t *testing.T) {
	ts := newTestShell(t)
	ts.seed(t)

	assert.Equal(t, "idx_users_name\n", ts.run(t, ".indexes"))
	assert.Equal(t, "idx_users_name\n", ts.run(t, ".indexes users"))
	assert.Equal(t, "", ts.run(t, ".indexes audit"))
}

func TestCmdSchema(t *testing.T) {
	ts := newTestShell(t)
	ts.seed(t)

	out := ts.run(t, ".schema users")
	assert.Contains(t, out, "CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT")
	assert.Contains(t, out, "CREATE INDEX idx_users_name ON users(name);")
	assert.Contains(t, out, "CREATE TRIGGER trg_users_insert")
	assert.NotContains(t, out, "CREATE TABLE audit")

	for _, line := range strings.Split(strings.TrimSpace(ts.run(t, ".schema")), "\n") {
		if strings.HasPrefix(line, "CREATE") && !strings.HasPrefix(line, "CREATE TRIGGER") {
			assert.True(t, strings.HasSuffix(line, ";"), line)
		}
	}

	err := ts.Execute(context.Background(), ".schema a b")
	var usage *UsageError
	assert.ErrorAs(t, err, &usage)
}

func TestCmdFullSchema(t *testing.T) {
	ts := newTestShell(t)
	ts.seed(t)

	out := ts.run(t, ".fullschema")
	assert.Contains(t, out, "CREATE VIEW v_users")
	assert.Contains(t, out, "/* No STAT tables available */")

	out = ts.run(t, "ANALYZE;", ".fullschema")
	assert.Contains(t, out, "ANALYZE sqlite_schema;")
	assert.Contains(t, out, "INSERT INTO sqlite_stat1 VALUES('users','idx_users_name',")
}

func TestCmdDatabases(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, ".databases")
	assert.True(t, strings.HasPrefix(out, "0|main|"), out)
}

func TestCmdDBConfig(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "PRAGMA foreign_keys = ON;")
	out := ts.run(t, ".dbconfig")
	assert.Contains(t, out, "foreign_keys|on\n")
	assert.Contains(t, out, "query_only|off\n")
}

func TestCmdDBInfo(t *testing.T) {
	ts := newTestShell(t)
	ts.seed(t)

	out := ts.run(t, ".dbinfo")
	assert.Contains(t, out, "page_size:")
	assert.Contains(t, out, "encoding:            UTF-8\n")
	assert.Contains(t, out, "number of tables:    2\n")
	assert.Contains(t, out, "number of indexes:   1\n")
	assert.Contains(t, out, "number of views:     1\n")
	assert.Contains(t, out, "number of triggers:  1\n")
}

func TestCmdVersion(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, ".version")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "sqlite 3."), lines[0])
	assert.Contains(t, lines[1], "(driver sqlite)")
}

func TestCmdSHA3Sum(t *testing.T) {
	a := newTestShell(t)
	a.seed(t)
	b := newTestShell(t)
	b.seed(t)

	sumA := strings.TrimSpace(a.run(t, ".sha3sum"))
	assert.Len(t, sumA, 64)
	assert.Equal(t, sumA, strings.TrimSpace(b.run(t, ".sha3sum")))

	b.run(t, "UPDATE users SET score = 1 WHERE name = 'alice';")
	assert.NotEqual(t, sumA, strings.TrimSpace(b.run(t, ".sha3sum")))

	assert.Len(t, strings.TrimSpace(a.run(t, ".sha3sum --sha3-512 --schema")), 128)
	assert.Len(t, strings.TrimSpace(a.run(t, ".sha3sum --sha3-224 users")), 56)

	err := a.Execute(context.Background(), ".sha3sum --md5")
	var usage *UsageError
	assert.ErrorAs(t, err, &usage)
}
