package render

import (
	"bytes"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
)

// renderLine prints one "name = value" line per cell, names right-aligned
// to the widest column name, with a blank line between rows.
func renderLine(w io.Writer, r *Result, _ Options) error {
	width := 0
	for _, t := range r.Titles {
		if n := text.RuneWidthWithoutEscSequences(t); n > width {
			width = n
		}
	}

	var buf bytes.Buffer
	for i, row := range r.Rows {
		if i > 0 {
			buf.WriteByte('\n')
		}
		for j, c := range row {
			buf.WriteString(text.AlignRight.Apply(r.Titles[j], width))
			buf.WriteString(" = ")
			buf.WriteString(c.Text)
			buf.WriteByte('\n')
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}
