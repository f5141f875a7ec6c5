package render

import (
	"encoding/csv"
	"io"
	"strings"
)

func renderCSV(w io.Writer, r *Result, opts Options) error {
	cw := csv.NewWriter(w)
	if showTitles(opts) {
		if err := cw.Write(r.Titles); err != nil {
			return err
		}
	}
	for _, row := range r.Rows {
		if err := cw.Write(texts(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// delimited joins fields with sep, or with opts.Separator when set.
func delimited(sep string) Renderer {
	return RendererFunc(func(w io.Writer, r *Result, opts Options) error {
		s := sep
		if opts.Mode == List && opts.Separator != "" {
			s = opts.Separator
		}
		if showTitles(opts) {
			if err := writeLine(w, strings.Join(r.Titles, s)); err != nil {
				return err
			}
		}
		for _, row := range r.Rows {
			if err := writeLine(w, strings.Join(texts(row), s)); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeLine(w io.Writer, s string) error {
	_, err := io.WriteString(w, s+"\n")
	return err
}
