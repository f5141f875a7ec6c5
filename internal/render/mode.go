// Package render turns materialized query results into text in one of the
// shell's output modes.
package render

import (
	"fmt"
	"strings"
)

// Mode selects the layout and escaping applied to a result.
type Mode int

// Output modes. Box is the default.
const (
	Box Mode = iota
	ASCII
	CSV
	Column
	HTML
	Insert
	JSON
	Line
	List
	Markdown
	Quote
	Table
	Tabs
	Tcl
)

var modeNames = [...]string{
	Box:      "box",
	ASCII:    "ascii",
	CSV:      "csv",
	Column:   "column",
	HTML:     "html",
	Insert:   "insert",
	JSON:     "json",
	Line:     "line",
	List:     "list",
	Markdown: "markdown",
	Quote:    "quote",
	Table:    "table",
	Tabs:     "tabs",
	Tcl:      "tcl",
}

// Modes returns every mode in name order.
func Modes() []Mode {
	return []Mode{ASCII, Box, CSV, Column, HTML, Insert, JSON, Line, List, Markdown, Quote, Table, Tabs, Tcl}
}

// ModeNames returns the canonical mode names in alphabetical order.
func ModeNames() []string {
	modes := Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return names
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Delimited reports whether the mode only shows a title row when headers are on.
func (m Mode) Delimited() bool {
	return m == CSV || m == Tabs || m == List
}

// SQLLiteral reports whether values render as SQL literals.
func (m Mode) SQLLiteral() bool {
	return m == Quote || m == Insert
}

// UnknownModeError is returned by ParseMode for unrecognized names.
type UnknownModeError struct {
	Name string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown mode %q, valid modes: %s", e.Name, strings.Join(ModeNames(), ", "))
}

// ParseMode resolves a mode name. Matching is case-insensitive and
// accepts "boxed" as an alias for box.
func ParseMode(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "boxed" {
		return Box, nil
	}
	for i, s := range modeNames {
		if s == n {
			return Mode(i), nil
		}
	}
	return Box, &UnknownModeError{Name: name}
}
