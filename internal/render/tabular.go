package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// columnStyle draws no borders and a dashed rule under the header.
var columnStyle = table.Style{
	Name: "column",
	Box: table.BoxStyle{
		MiddleHorizontal: "-",
		MiddleSeparator:  "  ",
		MiddleVertical:   "  ",
	},
	Format: table.FormatOptions{
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
		Footer: text.FormatDefault,
	},
	Options: table.Options{
		SeparateColumns: true,
		SeparateHeader:  true,
	},
}

func styleFor(mode Mode) table.Style {
	var s table.Style
	switch mode {
	case Box:
		s = table.StyleRounded
	case ASCII:
		s = table.StyleDefault
		s.Options.SeparateRows = true
	case Column:
		return columnStyle
	default:
		s = table.StyleDefault
	}
	s.Format.Header = text.FormatDefault
	return s
}

func newWriter(r *Result, opts Options) table.Writer {
	t := table.NewWriter()

	header := make(table.Row, len(r.Titles))
	for i, title := range r.Titles {
		header[i] = title
	}
	t.AppendHeader(header)

	for _, row := range r.Rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c.Text
		}
		t.AppendRow(tr)
	}

	// Columns hold display text, so alignment is set outright; otherwise
	// go-pretty guesses right alignment for columns without any rows.
	configs := make([]table.ColumnConfig, len(r.Titles))
	for i := range configs {
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if i >= len(opts.Widths) || opts.Widths[i] == 0 {
			continue
		}
		w := opts.Widths[i]
		if w < 0 {
			w = -w
			configs[i].Align = text.AlignRight
		}
		configs[i].WidthMin = w
	}
	t.SetColumnConfigs(configs)
	return t
}

func tabular(mode Mode) Renderer {
	return RendererFunc(func(w io.Writer, r *Result, opts Options) error {
		t := newWriter(r, opts)
		t.SetStyle(styleFor(mode))
		_, err := fmt.Fprintln(w, t.Render())
		return err
	})
}

func renderMarkdown(w io.Writer, r *Result, opts Options) error {
	t := newWriter(r, opts)
	_, err := fmt.Fprintln(w, t.RenderMarkdown())
	return err
}
