package commands

import (
	"context"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlsh/internal/shell"
)

// newCompleter creates a readline completer for dot-commands and table names.
func newCompleter(ctx context.Context, sh *shell.Shell) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	// Table names are a convenience; a failing catalog query leaves them out.
	tables, _ := sh.TableNames(ctx)
	for _, name := range tables {
		items = append(items, readline.PcItem(name))
	}

	for _, name := range sh.Registry().Names() {
		c, _ := sh.Registry().Lookup(name)
		if c == nil || !c.Supported {
			continue
		}
		items = append(items, readline.PcItem(name))
	}

	return readline.NewPrefixCompleter(items...)
}
