package shell

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlsh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdRead(t *testing.T) {
	ts := newTestShell(t)
	testutil.WriteFile(t, ts.Cwd, "setup.sql", ".headers on\nCREATE TABLE t(a);\nINSERT INTO t VALUES (1),\n (2);\nSELECT sum(a) AS total FROM t;\n")

	assert.Equal(t, "total\n3\n", ts.run(t, ".read setup.sql"))
	assert.True(t, ts.WithHeader)
}

func TestCmdRead_Nested(t *testing.T) {
	ts := newTestShell(t)
	testutil.WriteFile(t, ts.Cwd, "inner.sql", "SELECT 'inner';\n")
	testutil.WriteFile(t, ts.Cwd, "outer.sql", "SELECT 'outer';\n.read inner.sql\n")

	assert.Equal(t, "outer\ninner\n", ts.run(t, ".read outer.sql"))
}

func TestCmdRead_ErrorsReportedOnce(t *testing.T) {
	ts := newTestShell(t)
	testutil.WriteFile(t, ts.Cwd, "bad.sql", ".bail on\nSELECT * FROM nope;\nSELECT 1;\n")

	err := ts.Run(context.Background(), ".read bad.sql")
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(ts.ErrOut.String(), "Error: "))
	assert.Empty(t, ts.Out.String())
}

func TestCmdRead_Missing(t *testing.T) {
	ts := newTestShell(t)
	assert.Error(t, ts.Execute(context.Background(), ".read nope.sql"))
}

func TestCmdImport_CreatesTable(t *testing.T) {
	ts := newTestShell(t)
	testutil.WriteFile(t, ts.Cwd, "people.csv", "name,age\nann,31\n\"smith, bob\",40\n")

	ts.run(t, ".mode csv", ".import people.csv people")
	out := ts.run(t, ".mode list", "SELECT name, age, typeof(age) FROM people ORDER BY rowid;")
	assert.Equal(t, "ann|31|text\nsmith, bob|40|text\n", out)
}

func TestCmdImport_ExistingTable(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "CREATE TABLE nums(a INTEGER, b INTEGER, c INTEGER);")
	testutil.WriteFile(t, ts.Cwd, "nums.csv", "1,2,3\n4,5\n6,7,8,9\n")

	ts.run(t, ".mode csv", ".import nums.csv nums")
	out := ts.run(t, ".mode list", ".nullvalue NULL", "SELECT a, b, c FROM nums ORDER BY rowid;")
	assert.Equal(t, "1|2|3\n4|5|NULL\n6|7|8\n", out)
	assert.Contains(t, ts.ErrOut.String(), "nums.csv:2: expected 3 columns but found 2 - filling the rest with NULL")
	assert.Contains(t, ts.ErrOut.String(), "nums.csv:3: expected 3 columns but found 4 - extras ignored")
}

func TestCmdImport_Tabs(t *testing.T) {
	ts := newTestShell(t)
	testutil.WriteFile(t, ts.Cwd, "data.tsv", "k\tv\nx\ta,b\n")

	ts.run(t, ".mode tabs", ".import data.tsv kv")
	assert.Equal(t, "x\ta,b\n", ts.run(t, "SELECT k, v FROM kv;"))
}

func TestCmdImport_Usage(t *testing.T) {
	ts := newTestShell(t)
	var usage *UsageError
	assert.ErrorAs(t, ts.Execute(context.Background(), ".import only-file"), &usage)
	assert.Error(t, ts.Execute(context.Background(), ".import missing.csv t"))
}

func TestCmdSystem(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	ts := newTestShell(t)
	testutil.WriteFile(t, ts.Cwd, "marker.txt", "")

	assert.Equal(t, "hello\n", ts.run(t, ".system echo hello"))
	assert.Equal(t, "marker.txt\n", ts.run(t, ".shell ls"))

	err := ts.Execute(context.Background(), ".system exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 3")
}
