package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/sqlsh/pkg/adapter"
)

const progressCells = 50

// progressBar returns a callback drawing a single-line bar on w.
func progressBar(w io.Writer) adapter.ProgressFunc {
	return func(done, total int) {
		if total <= 0 {
			_, _ = fmt.Fprintf(w, "\r%d pages", done)
			flush(w)
			return
		}
		done = min(done, total)
		pct := done * 100 / total
		filled := done * progressCells / total
		bar := strings.Repeat("█", filled) + strings.Repeat("░", progressCells-filled)
		_, _ = fmt.Fprintf(w, "\r[%s] %d%% (%d/%d)", bar, pct, done, total)
		flush(w)
	}
}

func flush(w io.Writer) {
	if f, ok := w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}
