package shell

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlsh/internal/render"
)

var (
	cmdBail    = toggle(".bail on|off", func(s *Session, v bool) { s.Bail = v })
	cmdChanges = toggle(".changes on|off", func(s *Session, v bool) { s.Changes = v })
	cmdEcho    = toggle(".echo on|off", func(s *Session, v bool) { s.WithEcho = v })
	cmdHeaders = toggle(".headers on|off", func(s *Session, v bool) { s.WithHeader = v })
	cmdTimer   = toggle(".timer on|off", func(s *Session, v bool) { s.Timer = v })
)

var eqpToggle = toggle(".eqp on|off|full", func(s *Session, v bool) { s.EQP = v })

func cmdEQP(ctx context.Context, sh *Shell, args []string) error {
	if len(args) == 1 && strings.EqualFold(args[0], "full") {
		sh.EQP = true
		return nil
	}
	return eqpToggle(ctx, sh, args)
}

func cmdCd(_ context.Context, sh *Shell, args []string) error {
	if len(args) != 1 {
		return &UsageError{Usage: ".cd DIRECTORY"}
	}
	return sh.Cd(args[0])
}

func cmdClear(_ context.Context, sh *Shell, _ []string) error {
	_, err := fmt.Fprint(sh.Stdout(), "\033[H\033[2J")
	return err
}

func cmdExit(_ context.Context, _ *Shell, args []string) error {
	code := 0
	if len(args) > 0 {
		n, err := parseInt(".exit ?CODE?", args[0])
		if err != nil {
			return err
		}
		code = n
	}
	return &ExitError{Code: code}
}

func cmdQuit(_ context.Context, _ *Shell, _ []string) error {
	return &ExitError{Code: 0}
}

func cmdMode(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 {
		_, err := fmt.Fprintf(sh.Out(), "current output mode: %s\n", sh.Mode)
		return err
	}
	if err := sh.SetMode(args[0]); err != nil {
		return err
	}
	sh.InsertTable = ""
	if sh.Mode == render.Insert && len(args) > 1 {
		sh.InsertTable = args[1]
	}
	return nil
}

func cmdNullValue(_ context.Context, sh *Shell, args []string) error {
	if len(args) > 1 {
		return &UsageError{Usage: ".nullvalue STRING"}
	}
	sh.NullValue = ""
	if len(args) == 1 {
		sh.NullValue = unescape(args[0])
	}
	return nil
}

func cmdOpen(ctx context.Context, sh *Shell, args []string) error {
	usage := ".open ?--new? ?FILE?"
	fresh := false
	var path string
	for _, a := range args {
		switch {
		case a == "--new":
			fresh = true
		case strings.HasPrefix(a, "-"):
			return &UsageError{Usage: usage, Reason: fmt.Sprintf("unknown option: %s", a)}
		case path != "":
			return &UsageError{Usage: usage, Reason: fmt.Sprintf("extra argument: %q", a)}
		default:
			path = a
		}
	}

	if fresh && path != "" && path != MemoryPath {
		if err := os.Remove(sh.Resolve(path)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("cannot truncate %s: %w", path, err)
		}
	}
	return sh.Open(ctx, path)
}

func cmdOutput(_ context.Context, sh *Shell, args []string) error {
	if len(args) > 1 {
		return &UsageError{Usage: ".output ?FILE?"}
	}
	if len(args) == 0 {
		return sh.SetOutput("")
	}
	return sh.SetOutput(args[0])
}

func cmdOnce(_ context.Context, sh *Shell, args []string) error {
	if len(args) != 1 {
		return &UsageError{Usage: ".once FILE"}
	}
	return sh.SetOnce(args[0])
}

func cmdPrint(_ context.Context, sh *Shell, args []string) error {
	_, err := fmt.Fprintln(sh.Out(), strings.Join(args, " "))
	return err
}

func cmdPrompt(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return &UsageError{Usage: ".prompt MAIN ?CONTINUE?"}
	}
	sh.Prompt = unescape(args[0])
	if len(args) == 2 {
		sh.ContinuePrompt = unescape(args[1])
	}
	return nil
}

func cmdSeparator(_ context.Context, sh *Shell, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return &UsageError{Usage: ".separator COL ?ROW?"}
	}
	sh.Separator = unescape(args[0])
	return nil
}

func cmdWidth(_ context.Context, sh *Shell, args []string) error {
	widths := make([]int, 0, len(args))
	for _, a := range args {
		n, err := parseInt(".width NUM1 NUM2 ...", a)
		if err != nil {
			return err
		}
		widths = append(widths, n)
	}
	sh.Widths = widths
	return nil
}

func cmdLog(_ context.Context, sh *Shell, args []string) error {
	if len(args) != 1 {
		return &UsageError{Usage: ".log FILE|stderr|off"}
	}
	return sh.SetLog(args[0])
}

func cmdTimeout(ctx context.Context, sh *Shell, args []string) error {
	if len(args) != 1 {
		return &UsageError{Usage: ".timeout MS"}
	}
	ms, err := parseInt(".timeout MS", args[0])
	if err != nil {
		return err
	}
	if !sh.conn.Dialect().Pragmas {
		return fmt.Errorf(".timeout is not available for the %s driver", sh.driver)
	}
	return sh.conn.Exec(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
}

func cmdShow(_ context.Context, sh *Shell, _ []string) error {
	widths := make([]string, len(sh.Widths))
	for i, w := range sh.Widths {
		widths[i] = strconv.Itoa(w)
	}
	mode := sh.Mode.String()
	if sh.Mode == render.Insert && sh.InsertTable != "" {
		mode += " " + sh.InsertTable
	}

	rows := [][]string{
		{"echo", onOff(sh.WithEcho)},
		{"eqp", onOff(sh.EQP)},
		{"bail", onOff(sh.Bail)},
		{"changes", onOff(sh.Changes)},
		{"headers", onOff(sh.WithHeader)},
		{"mode", mode},
		{"nullvalue", strconv.Quote(sh.NullValue)},
		{"output", sh.OutputName()},
		{"separator", strconv.Quote(sh.Separator)},
		{"timer", onOff(sh.Timer)},
		{"width", strings.Join(widths, " ")},
		{"filename", sh.Filename()},
		{"cwd", sh.Cwd},
		{"driver", sh.driver},
		{"log", sh.logName},
	}
	return sh.RenderStrings([]string{"setting", "value"}, rows)
}

func cmdHelp(_ context.Context, sh *Shell, args []string) error {
	pattern := ""
	if len(args) > 0 {
		pattern = strings.TrimPrefix(args[0], ".")
	}

	var rows [][]string
	for _, c := range sh.registry.Commands() {
		if pattern != "" && !strings.HasPrefix(strings.TrimPrefix(c.Name, "."), pattern) {
			continue
		}
		help := c.Help
		if !c.Supported {
			help += " (not supported)"
		}
		rows = append(rows, []string{c.Name, c.Args, help})
	}
	if len(rows) == 0 {
		return fmt.Errorf("no commands match %q", pattern)
	}
	return sh.RenderStrings([]string{"command", "arguments", "description"}, rows)
}

// unescape interprets C-style escapes such as \t and \n.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	if u, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`); err == nil {
		return u
	}
	return s
}
