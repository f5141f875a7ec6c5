package render

import (
	"fmt"
	"io"
	"strings"
)

func renderInsert(w io.Writer, r *Result, opts Options) error {
	name := opts.Table
	if name == "" {
		name = DefaultInsertTable
	}
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES (", QuoteIdent(name), strings.Join(r.Columns, ","))

	for _, row := range r.Rows {
		if err := writeLine(w, prefix+strings.Join(texts(row), ",")+");"); err != nil {
			return err
		}
	}
	return nil
}

// joined renders quote and tcl modes: a title row then one line per row.
func joined(sep string) Renderer {
	return RendererFunc(func(w io.Writer, r *Result, _ Options) error {
		if err := writeLine(w, strings.Join(r.Titles, sep)); err != nil {
			return err
		}
		for _, row := range r.Rows {
			if err := writeLine(w, strings.Join(texts(row), sep)); err != nil {
				return err
			}
		}
		return nil
	})
}

// QuoteIdent wraps an identifier in double quotes, doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
