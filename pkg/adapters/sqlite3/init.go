// Package sqlite3 provides a cgo SQLite adapter backed by github.com/mattn/go-sqlite3.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/sqlsh/pkg/adapters/sqlite3"
package sqlite3

import (
	"log/slog"

	"github.com/leapstack-labs/sqlsh/pkg/adapter"
)

func init() {
	adapter.Register("sqlite3", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
