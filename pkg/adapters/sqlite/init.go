// Package sqlite provides the default pure-Go SQLite adapter for sqlsh,
// backed by modernc.org/sqlite.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/sqlsh/pkg/adapters/sqlite"
package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/sqlsh/pkg/adapter"
)

func init() {
	adapter.Register("sqlite", func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
