package sqlite3

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlsh/pkg/adapter"

	"github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

const stepPages = 100

// Adapter implements adapter.Adapter and adapter.Backuper on mattn/go-sqlite3.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new sqlite3 adapter instance.
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

	a.Logger.Debug("opened sqlite3 database", "path", path, "version", libVersion())
	return nil
}

// Backup copies schema into the file at dest.
func (a *Adapter) Backup(ctx context.Context, schema, dest string, progress adapter.ProgressFunc) error {
	if !a.IsConnected() {
		return adapter.ErrNotConnected
	}
	destDB, err := sql.Open(driverName, dest)
	if err != nil {
		return fmt.Errorf("backup to %s: %w", dest, err)
	}
	defer func() { _ = destDB.Close() }()

	return copyDatabase(ctx, destDB, "main", a.Handle, schemaOrMain(schema), progress)
}

// Restore replaces schema with the contents of the file at src.
func (a *Adapter) Restore(ctx context.Context, schema, src string, progress adapter.ProgressFunc) error {
	if !a.IsConnected() {
		return adapter.ErrNotConnected
	}
	srcDB, err := sql.Open(driverName, src)
	if err != nil {
		return fmt.Errorf("restore from %s: %w", src, err)
	}
	defer func() { _ = srcDB.Close() }()

	return copyDatabase(ctx, a.Handle, schemaOrMain(schema), srcDB, "main", progress)
}

func copyDatabase(ctx context.Context, dst *sql.DB, dstSchema string, src *sql.DB, srcSchema string, progress adapter.ProgressFunc) error {
	dc, err := dst.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = dc.Close() }()

	sc, err := src.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Close() }()

	return dc.Raw(func(d any) error {
		return sc.Raw(func(s any) error {
			dconn, ok := d.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("unexpected driver connection %T", d)
			}
			sconn, ok := s.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("unexpected driver connection %T", s)
			}

			b, err := dconn.Backup(dstSchema, sconn, srcSchema)
			if err != nil {
				return err
			}
			for {
				finished, err := b.Step(stepPages)
				if err != nil {
					_ = b.Finish()
					return err
				}
				if progress != nil {
					total := b.PageCount()
					progress(total-b.Remaining(), total)
				}
				if finished {
					break
				}
			}
			return b.Finish()
		})
	})
}

func schemaOrMain(schema string) string {
	if schema == "" {
		return "main"
	}
	return schema
}

func libVersion() string {
	v, _, _ := sqlite3.Version()
	return v
}
