package shell

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlsh/internal/render"
	"github.com/leapstack-labs/sqlsh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// sqlite adapter for in-memory sessions.
	_ "github.com/leapstack-labs/sqlsh/pkg/adapters/sqlite"
)

type testShell struct {
	*Shell
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

func newTestShell(t *testing.T) *testShell {
	t.Helper()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	s, err := New(context.Background(), Options{
		Driver:   "sqlite",
		Path:     MemoryPath,
		Mode:     render.List,
		Cwd:      t.TempDir(),
		Stdin:    strings.NewReader(""),
		Stdout:   out,
		Stderr:   errOut,
		Logger:   testutil.NewTestLogger(t),
		LogLevel: slog.LevelDebug,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return &testShell{Shell: NewShell(s, nil), Out: out, ErrOut: errOut}
}

func (ts *testShell) run(t *testing.T, lines ...string) string {
	t.Helper()
	ts.Out.Reset()
	for _, l := range lines {
		require.NoError(t, ts.Execute(context.Background(), l), "input: %s", l)
	}
	return ts.Out.String()
}

func (ts *testShell) seed(t *testing.T) {
	t.Helper()
	require.NoError(t, ts.RunScript(context.Background(), strings.NewReader(testutil.SeedSQL)))
	require.Empty(t, ts.ErrOut.String())
	ts.Out.Reset()
}

func TestShell_HeadersInListMode(t *testing.T) {
	ts := newTestShell(t)

	out := ts.run(t, "SELECT 1 AS a, 'x' AS b;")
	assert.Equal(t, "1|x\n", out)

	out = ts.run(t, ".headers on", "SELECT 1 AS a, 'x' AS b;")
	assert.Equal(t, "a|b\n1|x\n", out)

	out = ts.run(t, ".headers off", "SELECT 1 AS a, 'x' AS b;")
	assert.Equal(t, "1|x\n", out)
}

func TestShell_MultipleStatements(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, "CREATE TABLE t(a); INSERT INTO t VALUES (1); INSERT INTO t VALUES ('a;b'); SELECT a FROM t;")
	assert.Equal(t, "1\na;b\n", out)
}

func TestShell_UnterminatedStatementRuns(t *testing.T) {
	ts := newTestShell(t)
	assert.Equal(t, "2\n", ts.run(t, "SELECT 2"))
}

func TestShell_ModeBadNameKeepsMode(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, ".mode csv")

	err := ts.Run(context.Background(), ".mode badname")
	require.Error(t, err)
	var unknown *render.UnknownModeError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, render.CSV, ts.Mode)
	assert.Contains(t, ts.ErrOut.String(), "Error: ")
	assert.Contains(t, ts.ErrOut.String(), "badname")

	assert.Equal(t, "current output mode: csv\n", ts.run(t, ".mode"))
}

func TestShell_JSONMode(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, ".mode json", "SELECT 1 AS a, 'x' AS b UNION ALL SELECT 2, NULL;")
	assert.Equal(t, "[\n  {\"a\": 1, \"b\": \"x\"},\n  {\"a\": 2, \"b\": \"\"}\n]\n", out)
}

func TestShell_QuoteModeReplays(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "CREATE TABLE t(a, b, c);", `INSERT INTO t VALUES ('it''s', 1.5, NULL);`)

	out := ts.run(t, ".mode quote", "SELECT * FROM t;")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "'a','b','c'", lines[0])
	assert.Equal(t, "'it''s',1.5,NULL", lines[1])

	ts.run(t, "CREATE TABLE u(a, b, c);", "INSERT INTO u VALUES ("+lines[1]+");")
	out = ts.run(t, ".mode list", "SELECT count(*) FROM t JOIN u ON t.a = u.a AND t.b = u.b AND u.c IS NULL;")
	assert.Equal(t, "1\n", out)
}

func TestShell_InsertModeTable(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, ".mode insert people", "SELECT 1 AS id, 'ann' AS name;")
	assert.Equal(t, "INSERT INTO \"people\" (id,name) VALUES (1,'ann');\n", out)
}

func TestShell_NullValue(t *testing.T) {
	ts := newTestShell(t)
	assert.Equal(t, "1|(null)\n", ts.run(t, ".nullvalue (null)", "SELECT 1, NULL;"))
	assert.Equal(t, "1|\n", ts.run(t, ".nullvalue", "SELECT 1, NULL;"))
}

func TestShell_Separator(t *testing.T) {
	ts := newTestShell(t)
	assert.Equal(t, "1,2\n", ts.run(t, ".separator ,", "SELECT 1, 2;"))
	assert.Equal(t, "1\t2\n", ts.run(t, `.separator \t`, "SELECT 1, 2;"))
}

func TestShell_Echo(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, ".echo on", "SELECT 3;")
	assert.Equal(t, "SELECT 3;\n3\n", out)
}

func TestShell_Changes(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "CREATE TABLE t(a);")
	out := ts.run(t, ".changes on", "INSERT INTO t VALUES (1), (2);")
	assert.Equal(t, "changes: 2\n", out)
}

func TestShell_Timer(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, ".timer on", "SELECT 1;")
	assert.Contains(t, out, "1\nRun Time: real ")
}

func TestShell_UnknownCommand(t *testing.T) {
	ts := newTestShell(t)
	err := ts.Run(context.Background(), ".frobnicate now")
	require.Error(t, err)

	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, ".frobnicate", unknown.Name)
	assert.Equal(t, "Error: unknown command or invalid arguments: \".frobnicate\". Enter \".help\" for help\n", ts.ErrOut.String())
}

func TestShell_UnsupportedCommand(t *testing.T) {
	ts := newTestShell(t)
	err := ts.Execute(context.Background(), ".trace on")
	var unsupported *UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".trace is not supported by sqlsh", err.Error())
}

func TestShell_UsageErrorReport(t *testing.T) {
	ts := newTestShell(t)
	require.Error(t, ts.Run(context.Background(), ".bail maybe"))
	assert.Contains(t, ts.ErrOut.String(), "Usage: .bail on|off")
	assert.NotContains(t, ts.ErrOut.String(), "Error: ")
}

func TestShell_StatementErrorReport(t *testing.T) {
	ts := newTestShell(t)
	ts.StyleError = func(s string) string { return "<" + s + ">" }

	err := ts.Run(context.Background(), "SELECT * FROM missing;")
	var stmtErr *StatementError
	require.ErrorAs(t, err, &stmtErr)
	assert.Equal(t, "SELECT * FROM missing", stmtErr.SQL)
	assert.True(t, strings.HasPrefix(ts.ErrOut.String(), "<Error: "))
	assert.Contains(t, ts.ErrOut.String(), "no such table: missing")
}

func TestShell_Exit(t *testing.T) {
	ts := newTestShell(t)

	code, ok := IsExit(ts.Execute(context.Background(), ".exit 3"))
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	code, ok = IsExit(ts.Execute(context.Background(), ".quit"))
	assert.True(t, ok)
	assert.Equal(t, 0, code)

	assert.Error(t, ts.Execute(context.Background(), ".exit nope"))
}

func TestShell_RunScript(t *testing.T) {
	ts := newTestShell(t)
	script := `.headers on
CREATE TABLE t(a,
  b);
INSERT INTO t VALUES (1, 'x;y');
-- comment only
SELECT * FROM t;
`
	require.NoError(t, ts.RunScript(context.Background(), strings.NewReader(script)))
	assert.Equal(t, "a|b\n1|x;y\n", ts.Out.String())
	assert.Empty(t, ts.ErrOut.String())
}

func TestShell_RunScriptContinuesWithoutBail(t *testing.T) {
	ts := newTestShell(t)
	script := "SELECT * FROM nope;\nSELECT 1;\n"
	require.NoError(t, ts.RunScript(context.Background(), strings.NewReader(script)))
	assert.Equal(t, "1\n", ts.Out.String())
	assert.Contains(t, ts.ErrOut.String(), "no such table")
}

func TestShell_RunScriptBail(t *testing.T) {
	ts := newTestShell(t)
	script := ".bail on\nSELECT * FROM nope;\nSELECT 1;\n"
	err := ts.RunScript(context.Background(), strings.NewReader(script))
	require.Error(t, err)
	assert.Empty(t, ts.Out.String())
	assert.Equal(t, 1, strings.Count(ts.ErrOut.String(), "Error: "))
}

func TestShell_RunScriptStopsOnExit(t *testing.T) {
	ts := newTestShell(t)
	err := ts.RunScript(context.Background(), strings.NewReader("SELECT 1;\n.exit 2\nSELECT 2;\n"))
	code, ok := IsExit(err)
	require.True(t, ok)
	assert.Equal(t, 2, code)
	assert.Equal(t, "1\n", ts.Out.String())
}

func TestShell_TriggerBodyInScript(t *testing.T) {
	ts := newTestShell(t)
	ts.seed(t)
	out := ts.run(t, "INSERT INTO users (name) VALUES ('carol');", "SELECT note FROM audit;")
	assert.Equal(t, "created; ok\n", out)
}

func TestShell_OutputRedirect(t *testing.T) {
	ts := newTestShell(t)
	path := filepath.Join(ts.Cwd, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("before\n"), 0o644))

	ts.run(t, ".output out.txt", "SELECT 'to file';")
	assert.Equal(t, path, ts.OutputName())
	out := ts.run(t, ".output", "SELECT 'to stdout';")
	assert.Equal(t, "to stdout\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "before\nto file\n", string(data))
	assert.Equal(t, "stdout", ts.OutputName())
}

func TestShell_Once(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, ".once once.txt", "SELECT 'first';", "SELECT 'second';")
	assert.Equal(t, "second\n", out)

	data, err := os.ReadFile(filepath.Join(ts.Cwd, "once.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))
}

func TestShell_Print(t *testing.T) {
	ts := newTestShell(t)
	assert.Equal(t, "hello world\n", ts.run(t, ".print hello world"))
}

func TestShell_Clear(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, ".clear")
	require.NoError(t, ts.Flush())
	assert.Equal(t, "\033[H\033[2J", ts.Out.String())
}

func TestShell_Show(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, ".headers on", ".mode insert things", ".show")
	assert.Contains(t, out, "'headers','on'")
	assert.Contains(t, out, "'mode','insert things'")
}

func TestShell_Help(t *testing.T) {
	ts := newTestShell(t)
	out := ts.run(t, ".help tab")
	assert.Contains(t, out, ".tables")
	assert.NotContains(t, out, ".schema")

	out = ts.run(t, ".help trace")
	assert.Contains(t, out, "(not supported)")

	assert.Error(t, ts.Execute(context.Background(), ".help zzz"))
}

func TestShell_Cd(t *testing.T) {
	ts := newTestShell(t)
	sub := filepath.Join(ts.Cwd, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	ts.run(t, ".cd sub")
	assert.Equal(t, sub, ts.Cwd)
	assert.Error(t, ts.Execute(context.Background(), ".cd nowhere"))
	assert.Equal(t, sub, ts.Cwd)
}

func TestShell_OpenFile(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, ".open data.db", "CREATE TABLE t(a);", "INSERT INTO t VALUES (7);")
	assert.Equal(t, filepath.Join(ts.Cwd, "data.db"), ts.Filename())

	ts.run(t, ".open")
	assert.Equal(t, MemoryPath, ts.Filename())
	assert.Error(t, ts.Execute(context.Background(), "SELECT * FROM t;"))

	assert.Equal(t, "7\n", ts.run(t, ".open data.db", "SELECT a FROM t;"))

	ts.run(t, ".open --new data.db")
	assert.Equal(t, "", ts.run(t, ".tables"))
}

func TestShell_OpenFailureKeepsConnection(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "CREATE TABLE keep(a);")

	err := ts.Execute(context.Background(), ".open "+filepath.Join(ts.Cwd, "missing", "dir", "x.db"))
	require.Error(t, err)
	assert.Equal(t, "keep\n", ts.run(t, ".tables"))
}

func TestShell_Width(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, ".width 5 -3")
	assert.Equal(t, []int{5, -3}, ts.Widths)
	assert.Error(t, ts.Execute(context.Background(), ".width x"))
}

func TestShell_Prompt(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, `.prompt db>\x20 ...\x20`)
	assert.Equal(t, "db> ", ts.Prompt)
	assert.Equal(t, "... ", ts.ContinuePrompt)
}

func TestShell_Log(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, ".log shell.log", "SELECT 1;", ".print x")
	ts.run(t, ".log off")

	data, err := os.ReadFile(filepath.Join(ts.Cwd, "shell.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "session="+ts.ID)
}

func TestShell_EQP(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "CREATE TABLE t(a);")
	out := ts.run(t, ".eqp on", "SELECT * FROM t WHERE a = 1;")
	assert.True(t, strings.HasPrefix(out, "QUERY PLAN\n"))
	assert.Contains(t, out, "`--")
}

func TestShell_Timeout(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, ".timeout 250")
	assert.Equal(t, "250\n", ts.run(t, "PRAGMA busy_timeout;"))
}
