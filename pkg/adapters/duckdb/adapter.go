package duckdb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlsh/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// Dialect returns DuckDB introspection queries.
func (a *Adapter) Dialect() *adapter.Dialect {
	return adapter.DuckDBDialect
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}

	db, err := adapter.OpenPinned(ctx, "duckdb", path)
	if err != nil {
		return err
	}
	a.Handle = db
	a.Cfg = cfg

	for _, stmt := range params.statements() {
		if err := a.Exec(ctx, stmt); err != nil {
			_ = a.Close()
			return err
		}
	}

	a.Logger.Debug("opened duckdb database", "path", cfg.Path, "extensions", len(params.Extensions))
	return nil
}

// statements returns the setup SQL for params in a stable order.
func (p *Params) statements() []string {
	var out []string
	for _, ext := range p.Extensions {
		out = append(out, fmt.Sprintf("INSTALL %s", ext), fmt.Sprintf("LOAD %s", ext))
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("SET %s = '%s'", k, strings.ReplaceAll(p.Settings[k], "'", "''")))
	}
	return out
}
