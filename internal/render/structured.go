package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"golang.org/x/net/html"
)

// renderJSON writes an array of objects with keys in column order.
// Numbers stay numbers; NULL is the null replacement string.
func renderJSON(w io.Writer, r *Result, _ Options) error {
	var buf bytes.Buffer
	if len(r.Rows) == 0 {
		_, err := io.WriteString(w, "[]\n")
		return err
	}

	buf.WriteString("[\n")
	for i, row := range r.Rows {
		buf.WriteString("  {")
		for j, c := range row {
			if j > 0 {
				buf.WriteString(", ")
			}
			key, err := json.Marshal(r.Columns[j])
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteString(": ")

			val, err := jsonValue(c)
			if err != nil {
				return err
			}
			buf.Write(val)
		}
		buf.WriteString("}")
		if i < len(r.Rows)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func jsonValue(c Cell) ([]byte, error) {
	switch c.Value.Kind {
	case Integer:
		return []byte(c.Text), nil
	case Real:
		if math.IsInf(c.Value.Float, 0) || math.IsNaN(c.Value.Float) {
			return json.Marshal(c.Text)
		}
		return []byte(c.Text), nil
	default:
		return json.Marshal(c.Text)
	}
}

func renderHTML(w io.Writer, r *Result, _ Options) error {
	var buf bytes.Buffer
	buf.WriteString("<tr>\n")
	for _, t := range r.Titles {
		fmt.Fprintf(&buf, "    <th>%s</th>\n", html.EscapeString(t))
	}
	buf.WriteString("</tr>\n")

	for _, row := range r.Rows {
		buf.WriteString("<tr>\n")
		for _, c := range row {
			fmt.Fprintf(&buf, "    <td>%s</td>\n", html.EscapeString(c.Text))
		}
		buf.WriteString("</tr>\n")
	}

	_, err := w.Write(buf.Bytes())
	return err
}
