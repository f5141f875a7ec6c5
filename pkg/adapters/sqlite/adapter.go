package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlsh/pkg/adapter"

	msqlite "modernc.org/sqlite"
)

const driverName = "sqlite"

// stepPages is the number of pages copied per backup step.
const stepPages = 100

// Adapter implements adapter.Adapter and adapter.Backuper on modernc.org/sqlite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// backupConn is the subset of the modernc driver connection used for backups.
type backupConn interface {
	NewBackup(dstURI string) (*msqlite.Backup, error)
	NewRestore(srcURI string) (*msqlite.Backup, error)
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Dialect returns the SQLite introspection queries.
func (a *Adapter) Dialect() *adapter.Dialect {
	return adapter.SQLiteDialect
}

// Connect opens the database file, creating it if needed.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := adapter.OpenPinned(ctx, driverName, path)
	if err != nil {
		return err
	}
	a.Handle = db
	a.Cfg = cfg

	a.Logger.Debug("opened sqlite database", "path", path)
	return nil
}

// Backup copies the main database into dest using the online backup API.
func (a *Adapter) Backup(ctx context.Context, schema, dest string, progress adapter.ProgressFunc) error {
	if err := mainOnly(schema); err != nil {
		return err
	}
	if !a.IsConnected() {
		return adapter.ErrNotConnected
	}

	total, err := pageCount(ctx, a.Handle)
	if err != nil {
		return err
	}

	return a.withBackupConn(ctx, func(bc backupConn) error {
		b, err := bc.NewBackup(dest)
		if err != nil {
			return fmt.Errorf("backup to %s: %w", dest, err)
		}
		return copyPages(b, total, progress)
	})
}

// Restore overwrites the main database with the contents of src.
func (a *Adapter) Restore(ctx context.Context, schema, src string, progress adapter.ProgressFunc) error {
	if err := mainOnly(schema); err != nil {
		return err
	}
	if !a.IsConnected() {
		return adapter.ErrNotConnected
	}

	srcDB, err := adapter.OpenPinned(ctx, driverName, src)
	if err != nil {
		return err
	}
	total, err := pageCount(ctx, srcDB)
	_ = srcDB.Close()
	if err != nil {
		return err
	}

	return a.withBackupConn(ctx, func(bc backupConn) error {
		b, err := bc.NewRestore(src)
		if err != nil {
			return fmt.Errorf("restore from %s: %w", src, err)
		}
		return copyPages(b, total, progress)
	})
}

func (a *Adapter) withBackupConn(ctx context.Context, fn func(backupConn) error) error {
	conn, err := a.Handle.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	return conn.Raw(func(driverConn any) error {
		bc, ok := driverConn.(backupConn)
		if !ok {
			return fmt.Errorf("driver connection %T does not support backup", driverConn)
		}
		return fn(bc)
	})
}

func copyPages(b *msqlite.Backup, total int, progress adapter.ProgressFunc) error {
	done := 0
	for {
		more, err := b.Step(stepPages)
		if err != nil {
			_ = b.Finish()
			return err
		}
		done += stepPages
		if total > 0 && (done > total || !more) {
			done = total
		}
		if progress != nil {
			progress(done, total)
		}
		if !more {
			break
		}
	}
	return b.Finish()
}

func pageCount(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to read page count: %w", err)
	}
	return n, nil
}

func mainOnly(schema string) error {
	if schema != "" && schema != "main" {
		return fmt.Errorf("the sqlite driver can only back up the main database, not %q", schema)
	}
	return nil
}
