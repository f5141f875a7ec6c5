package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNotConnected is returned by operations attempted before Connect or after Close.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and DB implementations.
type BaseSQLAdapter struct {
	Handle *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// OpenPinned opens a database/sql handle restricted to one connection.
// Every statement then runs on the same session, which in-memory
// databases and connection-scoped settings depend on.
func OpenPinned(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}
	return db, nil
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.Handle != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection", "path", b.Cfg.Path)
		}
		err := b.Handle.Close()
		b.Handle = nil
		return err
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if !b.IsConnected() {
		return ErrNotConnected
	}
	_, err := b.Handle.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*sql.Rows, error) {
	if !b.IsConnected() {
		return nil, ErrNotConnected
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.Handle.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DB returns the pinned handle, nil when not connected.
func (b *BaseSQLAdapter) DB() *sql.DB {
	return b.Handle
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.Handle != nil
}

// VacuumInto writes a compacted copy of schema into dest.
// Used as the backup path for engines without a page-level backup API.
func (b *BaseSQLAdapter) VacuumInto(ctx context.Context, schema, dest string) error {
	if !b.IsConnected() {
		return ErrNotConnected
	}
	if schema == "" {
		schema = "main"
	}
	stmt := fmt.Sprintf("VACUUM %s INTO '%s'", QuoteIdent(schema), strings.ReplaceAll(dest, "'", "''"))
	if _, err := b.Handle.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	return nil
}

// QuoteIdent wraps an identifier in double quotes, doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
