// Package testutil provides test utilities for structured logging and
// scratch files.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// WriteFile creates name under dir with content and returns its path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// SeedSQL creates a small schema exercising tables, views, indexes,
// triggers, AUTOINCREMENT and every storage class.
const SeedSQL = `
CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, score REAL, avatar BLOB);
INSERT INTO users (name, score, avatar) VALUES ('alice', 9.5, X'CAFE');
INSERT INTO users (name, score, avatar) VALUES ('bob''s', NULL, NULL);
CREATE TABLE audit (user_id INTEGER, note TEXT);
CREATE INDEX idx_users_name ON users(name);
CREATE VIEW v_users AS SELECT id, name FROM users;
CREATE TRIGGER trg_users_insert AFTER INSERT ON users BEGIN
  INSERT INTO audit VALUES (new.id, 'created; ok');
END;
`
