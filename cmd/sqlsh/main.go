// Package main provides the sqlsh interactive SQL shell.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlsh/internal/cli"

	// Register database adapters.
	_ "github.com/leapstack-labs/sqlsh/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/sqlsh/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/sqlsh/pkg/adapters/sqlite3"
)

func main() {
	os.Exit(cli.Execute())
}
