package shell

import (
	"errors"
	"fmt"
	"strings"
)

// StatementError wraps an engine failure for one SQL statement.
type StatementError struct {
	SQL string
	Err error
}

func (e *StatementError) Error() string {
	return e.Err.Error()
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// UsageError is returned when a meta-command receives bad arguments.
type UsageError struct {
	Usage  string
	Reason string
}

func (e *UsageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s\nUsage: %s", e.Reason, e.Usage)
	}
	return "Usage: " + e.Usage
}

// UnknownCommandError names a dot-command that is not registered.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command or invalid arguments: %q. Enter \".help\" for help", e.Name)
}

// UnsupportedError is returned by registered commands this shell does not implement.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported by sqlsh", e.Name)
}

// ExitError requests termination with Code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// IsExit reports whether err requests termination, returning the code.
func IsExit(err error) (int, bool) {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code, true
	}
	return 0, false
}

// ObjectError records a schema object that could not be exported.
type ObjectError struct {
	Name string
	Err  error
}

// DumpError summarizes every object that failed during an export.
type DumpError struct {
	Failures []ObjectError
}

func (e *DumpError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = fmt.Sprintf("%s (%v)", f.Name, f.Err)
	}
	return fmt.Sprintf("dump incomplete, %d object(s) failed: %s", len(e.Failures), strings.Join(names, "; "))
}
