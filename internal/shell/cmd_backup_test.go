package shell

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdBackupAndRestore(t *testing.T) {
	ts := newTestShell(t)
	ts.seed(t)

	out := ts.run(t, ".backup snap.db")
	assert.Contains(t, out, "100% (")
	assert.True(t, strings.HasSuffix(out, "\n"))

	ts.run(t, "DELETE FROM users;")
	assert.Equal(t, "0\n", ts.run(t, "SELECT count(*) FROM users;"))

	ts.run(t, ".restore snap.db")
	assert.Equal(t, "2\n", ts.run(t, "SELECT count(*) FROM users;"))

	other := newTestShell(t)
	other.run(t, ".open "+filepath.Join(ts.Cwd, "snap.db"))
	assert.Equal(t, "alice\nbob's\n", other.run(t, "SELECT name FROM users ORDER BY id;"))
}

func TestCmdBackup_SchemaArgument(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "CREATE TABLE t(a);")

	ts.run(t, ".backup main named.db")
	err := ts.Execute(context.Background(), ".backup aux other.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aux")

	var usage *UsageError
	assert.ErrorAs(t, ts.Execute(context.Background(), ".backup"), &usage)
	assert.ErrorAs(t, ts.Execute(context.Background(), ".backup a b c"), &usage)
}

func TestCmdSave(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "CREATE TABLE t(a);", "INSERT INTO t VALUES ('saved');")
	ts.run(t, ".save saved.db")

	ts.run(t, ".open saved.db")
	assert.Equal(t, "saved\n", ts.run(t, "SELECT a FROM t;"))
}

func TestCmdClone(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "CREATE TABLE t(a);", "INSERT INTO t VALUES (42);")

	out := ts.run(t, ".clone copy.db")
	assert.Contains(t, out, "cloned :memory: into copy.db\n")

	err := ts.Execute(context.Background(), ".clone copy.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	ts.run(t, ".open copy.db")
	assert.Equal(t, "42\n", ts.run(t, "SELECT a FROM t;"))
}

func TestCmdRestore_MissingFile(t *testing.T) {
	ts := newTestShell(t)
	err := ts.Execute(context.Background(), ".restore nothing.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing.db")
}

func TestProgressBar(t *testing.T) {
	var sb strings.Builder
	bar := progressBar(&sb)

	bar(25, 100)
	assert.Equal(t, "\r["+strings.Repeat("█", 12)+strings.Repeat("░", 38)+"] 25% (25/100)", sb.String())

	sb.Reset()
	bar(150, 100)
	assert.Equal(t, "\r["+strings.Repeat("█", 50)+"] 100% (100/100)", sb.String())

	sb.Reset()
	bar(7, 0)
	assert.Equal(t, "\r7 pages", sb.String())
}
