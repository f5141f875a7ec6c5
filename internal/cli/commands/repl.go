package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlsh/internal/shell"
)

func runREPL(ctx context.Context, sh *shell.Shell, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            sh.Prompt,
		HistoryFile:       historyFile,
		HistorySearchFold: true,
		AutoComplete:      newCompleter(ctx, sh),
		InterruptPrompt:   "^C",
		EOFPrompt:         ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	printBanner(sh)

	var pending strings.Builder
	for {
		if pending.Len() == 0 {
			rl.SetPrompt(sh.Prompt)
		} else {
			rl.SetPrompt(sh.ContinuePrompt)
		}

		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			// ^C abandons a partial statement, or leaves the shell
			if pending.Len() > 0 {
				pending.Reset()
				continue
			}
			return nil
		case errors.Is(err, io.EOF):
			if strings.TrimSpace(pending.String()) != "" {
				_, err := stopREPL(sh.Run(ctx, pending.String()))
				return err
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		input, ready := accumulate(&pending, line)
		if !ready {
			continue
		}
		if stop, err := stopREPL(sh.Run(ctx, input)); stop {
			return err
		}
	}
}

// accumulate adds line to pending input and reports whether a complete
// unit is ready: a dot-command line, or SQL ending in a terminated
// statement.
func accumulate(pending *strings.Builder, line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if pending.Len() == 0 {
		if trimmed == "" {
			return "", false
		}
		if strings.HasPrefix(trimmed, ".") {
			return trimmed, true
		}
	}

	pending.WriteString(line)
	pending.WriteByte('\n')
	if !shell.IsComplete(pending.String()) {
		return "", false
	}
	input := pending.String()
	pending.Reset()
	return input, true
}

// stopREPL reports whether err ends the loop and what to return. Only
// exit requests stop it; other failures were already reported.
func stopREPL(err error) (bool, error) {
	code, ok := shell.IsExit(err)
	if !ok {
		return false, nil
	}
	if code == 0 {
		return true, nil
	}
	return true, err
}

func printBanner(sh *shell.Shell) {
	out := sh.Stdout()
	title := fmt.Sprintf("sqlsh: connected to %s (%s)", sh.Filename(), sh.Driver())
	if isTerminal(os.Stdout) {
		title = bannerStyle.Render(title)
	}
	_, _ = fmt.Fprintln(out, title)
	_, _ = fmt.Fprintln(out, `Enter ".help" for usage hints.`)
	_ = sh.Flush()
}
