// Package adapter provides the database engine contract used by the shell.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves with this package from their init() functions.
package adapter

import (
	"context"
	"database/sql"
)

// Config describes which engine to open and where.
type Config struct {
	// Driver is the registered adapter name (sqlite, sqlite3, duckdb).
	Driver string

	// Path is the database file, or ":memory:".
	Path string

	// Params holds adapter-specific settings decoded by the adapter itself.
	Params map[string]any
}

// Adapter defines the interface every database engine must implement.
type Adapter interface {
	// Connect opens the database described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a statement that may return rows.
	// The caller must close the returned rows.
	Query(ctx context.Context, sql string) (*sql.Rows, error)

	// DB exposes the underlying handle. It is pinned to a single
	// connection so in-memory databases keep their state.
	DB() *sql.DB

	// Dialect returns the catalog and introspection queries for this engine.
	Dialect() *Dialect
}

// ProgressFunc receives page progress during backup and restore.
// total is zero when the engine cannot report it.
type ProgressFunc func(done, total int)

// Backuper is implemented by adapters supporting online page-level backup.
type Backuper interface {
	// Backup copies the named schema into the file at dest.
	Backup(ctx context.Context, schema, dest string, progress ProgressFunc) error

	// Restore replaces the named schema with the contents of the file at src.
	Restore(ctx context.Context, schema, src string, progress ProgressFunc) error
}
