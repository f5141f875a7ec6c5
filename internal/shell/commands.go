package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func builtinCommands() []*Command {
	cmds := []*Command{
		{Name: ".backup", Args: "?DB? FILE", Help: "Backup DB (default \"main\") to FILE", Run: cmdBackup},
		{Name: ".bail", Args: "on|off", Help: "Stop after hitting an error", Run: cmdBail},
		{Name: ".cd", Args: "DIRECTORY", Help: "Change the working directory to DIRECTORY", Run: cmdCd},
		{Name: ".changes", Args: "on|off", Help: "Show number of rows changed by SQL", Run: cmdChanges},
		{Name: ".clear", Help: "Clear the terminal screen", Run: cmdClear},
		{Name: ".clone", Args: "NEWDB", Help: "Clone data into NEWDB from the existing database", Run: cmdClone},
		{Name: ".databases", Help: "List names and files of attached databases", Run: cmdDatabases},
		{Name: ".dbconfig", Help: "List database configuration settings", Run: cmdDBConfig},
		{Name: ".dbinfo", Help: "Show status information about the database", Run: cmdDBInfo},
		{Name: ".dump", Args: "?PATTERN ...?", Help: "Render database content as SQL", Run: cmdDump},
		{Name: ".echo", Args: "on|off", Help: "Turn command echo on or off", Run: cmdEcho},
		{Name: ".eqp", Args: "on|off", Help: "Enable or disable automatic EXPLAIN QUERY PLAN", Run: cmdEQP},
		{Name: ".exit", Args: "?CODE?", Help: "Exit this program with return-code CODE", Run: cmdExit},
		{Name: ".fullschema", Help: "Show schema and the content of sqlite_stat tables", Run: cmdFullSchema},
		{Name: ".headers", Args: "on|off", Help: "Turn display of headers on or off", Run: cmdHeaders},
		{Name: ".help", Args: "?PATTERN?", Help: "Show help text for PATTERN", Run: cmdHelp},
		{Name: ".import", Args: "FILE TABLE", Help: "Import data from FILE into TABLE", Run: cmdImport},
		{Name: ".indexes", Args: "?TABLE?", Help: "Show names of indexes", Run: cmdIndexes},
		{Name: ".log", Args: "FILE|stderr|off", Help: "Turn logging on or off", Run: cmdLog},
		{Name: ".mode", Args: "MODE ?TABLE?", Help: "Set output mode", Run: cmdMode},
		{Name: ".nullvalue", Args: "STRING", Help: "Use STRING in place of NULL values", Run: cmdNullValue},
		{Name: ".once", Args: "FILE", Help: "Output for the next SQL command only to FILE", Run: cmdOnce},
		{Name: ".open", Args: "?--new? ?FILE?", Help: "Close existing database and reopen FILE", Run: cmdOpen},
		{Name: ".output", Args: "?FILE?", Help: "Send output to FILE or stdout if FILE is omitted", Run: cmdOutput},
		{Name: ".print", Args: "STRING...", Help: "Print literal STRING", Run: cmdPrint},
		{Name: ".prompt", Args: "MAIN CONTINUE", Help: "Replace the standard prompts", Run: cmdPrompt},
		{Name: ".quit", Help: "Stop interpreting input stream, exit if primary.", Run: cmdQuit},
		{Name: ".read", Args: "FILE", Help: "Read input from FILE", Run: cmdRead},
		{Name: ".restore", Args: "?DB? FILE", Help: "Restore content of DB (default \"main\") from FILE", Run: cmdRestore},
		{Name: ".save", Args: "?DB? FILE", Help: "Write database to FILE (an alias for .backup)", Run: cmdSave},
		{Name: ".schema", Args: "?PATTERN?", Help: "Show the CREATE statements matching PATTERN", Run: cmdSchema},
		{Name: ".separator", Args: "COL ?ROW?", Help: "Change the column separator for list mode", Run: cmdSeparator},
		{Name: ".sha3sum", Args: "?OPTIONS...?", Help: "Compute a SHA3 hash of database content", Run: cmdSHA3Sum},
		{Name: ".shell", Args: "CMD ARGS...", Help: "Run CMD ARGS... in a system shell", Run: cmdSystem},
		{Name: ".show", Help: "Show the current values for various settings", Run: cmdShow},
		{Name: ".system", Args: "CMD ARGS...", Help: "Run CMD ARGS... in a system shell", Run: cmdSystem},
		{Name: ".tables", Args: "?TABLE?", Help: "List names of tables matching LIKE pattern TABLE", Run: cmdTables},
		{Name: ".timeout", Args: "MS", Help: "Try opening locked tables for MS milliseconds", Run: cmdTimeout},
		{Name: ".timer", Args: "on|off", Help: "Turn SQL timer on or off", Run: cmdTimer},
		{Name: ".version", Help: "Show source, library and compiler versions", Run: cmdVersion},
		{Name: ".width", Args: "NUM1 NUM2 ...", Help: "Set minimum column widths for columnar output", Run: cmdWidth},
	}
	for _, c := range cmds {
		c.Supported = true
	}
	return append(cmds, unsupportedCommands()...)
}

// unsupportedCommands are recognized so they fail with a clear message.
func unsupportedCommands() []*Command {
	help := map[string]string{
		".archive":    "Manage SQL archives",
		".auth":       "Show authorizer callbacks",
		".check":      "Fail if output since .testcase does not match",
		".connection": "Open or close an auxiliary database connection",
		".crlf":       "Change the line terminator used for output",
		".dbtotxt":    "Hex dump of the database file",
		".excel":      "Display the output of next command in spreadsheet",
		".expert":     "Suggest indexes for queries",
		".explain":    "Change the EXPLAIN formatting mode",
		".filectrl":   "Run various sqlite3_file_control() operations",
		".imposter":   "Create imposter table TABLE on index INDEX",
		".intck":      "Run an incremental integrity check on the db",
		".limit":      "Display or change the value of an SQLITE_LIMIT",
		".lint":       "Report potential schema issues",
		".load":       "Load an extension library",
		".nonce":      "Suspend safe mode for one command if nonce matches",
		".parameter":  "Manage SQL parameter bindings",
		".progress":   "Invoke progress handler after every N opcodes",
		".recover":    "Recover as much data as possible from corrupt db",
		".scanstats":  "Turn sqlite3_stmt_scanstatus() metrics on or off",
		".session":    "Create or control sessions",
		".stats":      "Show stats or turn stats on or off",
		".trace":      "Output each SQL statement as it is run",
		".unmodule":   "Unregister virtual table modules",
		".vfsinfo":    "Information about the top-level VFS",
		".vfslist":    "List all available VFSes",
		".vfsname":    "Print the name of the VFS stack",
		".www":        "Display output of the next command in web browser",
	}

	cmds := make([]*Command, 0, len(help))
	for name, text := range help {
		cmds = append(cmds, &Command{Name: name, Help: text, Run: unsupported(name)})
	}
	return cmds
}

func unsupported(name string) Handler {
	return func(_ context.Context, _ *Shell, _ []string) error {
		return &UnsupportedError{Name: name}
	}
}

// parseBool accepts the on/off spellings the shell understands.
func parseBool(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "yes", "true", "1":
		return true, nil
	case "off", "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", arg)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// toggle builds a handler setting a boolean session flag.
func toggle(usage string, set func(*Session, bool)) Handler {
	return func(_ context.Context, sh *Shell, args []string) error {
		if len(args) != 1 {
			return &UsageError{Usage: usage}
		}
		v, err := parseBool(args[0])
		if err != nil {
			return &UsageError{Usage: usage, Reason: err.Error()}
		}
		set(sh.Session, v)
		return nil
	}
}

// schemaAndFile splits the "?DB? FILE" argument form.
func schemaAndFile(usage string, args []string) (string, string, error) {
	switch len(args) {
	case 1:
		return "main", args[0], nil
	case 2:
		return args[0], args[1], nil
	}
	return "", "", &UsageError{Usage: usage}
}

func parseInt(usage, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, &UsageError{Usage: usage, Reason: fmt.Sprintf("not a number: %q", arg)}
	}
	return n, nil
}
