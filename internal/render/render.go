package render

import (
	"fmt"
	"io"
)

// Cell is a formatted value. Text is the display form for the mode the
// result was materialized in; Value keeps the kind for typed outputs.
type Cell struct {
	Value Value
	Text  string
}

// Result is a fully materialized statement result.
type Result struct {
	// Columns are the raw column names.
	Columns []string
	// Titles are the column names wrapped for the result's mode.
	Titles []string
	Rows   [][]Cell
}

// NewResult starts an empty result with titles formatted for mode.
func NewResult(columns []string, mode Mode) *Result {
	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = FormatTitle(c, mode)
	}
	return &Result{Columns: columns, Titles: titles}
}

// AppendValues formats vals for mode and adds them as a row.
func (r *Result) AppendValues(vals []Value, mode Mode, nullValue string) error {
	if len(vals) != len(r.Columns) {
		return &MalformedRowError{Row: len(r.Rows), Want: len(r.Columns), Got: len(vals)}
	}
	row := make([]Cell, len(vals))
	for i, v := range vals {
		row[i] = Cell{Value: v, Text: v.Format(mode, nullValue)}
	}
	r.Rows = append(r.Rows, row)
	return nil
}

// FromStrings builds a text-only result, used for shell-generated tables.
func FromStrings(columns []string, rows [][]string, mode Mode) (*Result, error) {
	r := NewResult(columns, mode)
	for _, row := range rows {
		vals := make([]Value, len(row))
		for i, s := range row {
			vals[i] = Value{Kind: Text, Str: s}
		}
		if err := r.AppendValues(vals, mode, ""); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Validate checks that every row has one cell per column.
func (r *Result) Validate() error {
	if len(r.Titles) != len(r.Columns) {
		return fmt.Errorf("result has %d titles for %d columns", len(r.Titles), len(r.Columns))
	}
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return &MalformedRowError{Row: i, Want: len(r.Columns), Got: len(row)}
		}
	}
	return nil
}

// MalformedRowError reports a row whose width differs from the column count.
type MalformedRowError struct {
	Row  int
	Want int
	Got  int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed result: row %d has %d cells, expected %d", e.Row+1, e.Got, e.Want)
}

// Options carries the session settings that affect rendering.
type Options struct {
	Mode       Mode
	WithHeader bool

	// Separator overrides the list mode field separator.
	Separator string

	// Table is the target table name for insert mode.
	Table string

	// Widths are minimum column widths for the tabular modes.
	// Negative widths right-align the column.
	Widths []int
}

// DefaultInsertTable is used by insert mode when no table is named.
const DefaultInsertTable = "table"

// Renderer writes a result in one output mode.
type Renderer interface {
	Render(w io.Writer, r *Result, opts Options) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, r *Result, opts Options) error

// Render implements Renderer.
func (f RendererFunc) Render(w io.Writer, r *Result, opts Options) error {
	return f(w, r, opts)
}

var renderers = map[Mode]Renderer{
	Box:      tabular(Box),
	ASCII:    tabular(ASCII),
	Table:    tabular(Table),
	Column:   tabular(Column),
	Markdown: RendererFunc(renderMarkdown),
	CSV:      RendererFunc(renderCSV),
	Tabs:     delimited("\t"),
	List:     delimited("|"),
	JSON:     RendererFunc(renderJSON),
	HTML:     RendererFunc(renderHTML),
	Insert:   RendererFunc(renderInsert),
	Quote:    joined(","),
	Tcl:      joined(" "),
	Line:     RendererFunc(renderLine),
}

// For returns the renderer for mode.
func For(mode Mode) (Renderer, error) {
	r, ok := renderers[mode]
	if !ok {
		return nil, fmt.Errorf("no renderer for mode %s", mode)
	}
	return r, nil
}

// Render validates r and writes it to w in opts.Mode.
func Render(w io.Writer, r *Result, opts Options) error {
	if err := r.Validate(); err != nil {
		return err
	}
	rr, err := For(opts.Mode)
	if err != nil {
		return err
	}
	return rr.Render(w, r, opts)
}

func showTitles(opts Options) bool {
	return !opts.Mode.Delimited() || opts.WithHeader
}

func texts(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Text
	}
	return out
}
