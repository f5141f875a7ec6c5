package shell

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/sqlsh/pkg/adapter"
)

// vacuumer is implemented by adapters that can write a compacted copy
// of a schema with VACUUM INTO.
type vacuumer interface {
	VacuumInto(ctx context.Context, schema, dest string) error
}

func cmdBackup(ctx context.Context, sh *Shell, args []string) error {
	schema, file, err := schemaAndFile(".backup ?DB? FILE", args)
	if err != nil {
		return err
	}
	return sh.backup(ctx, schema, sh.Resolve(file))
}

func cmdSave(ctx context.Context, sh *Shell, args []string) error {
	schema, file, err := schemaAndFile(".save ?DB? FILE", args)
	if err != nil {
		return err
	}
	return sh.backup(ctx, schema, sh.Resolve(file))
}

func cmdClone(ctx context.Context, sh *Shell, args []string) error {
	if len(args) != 1 {
		return &UsageError{Usage: ".clone NEWDB"}
	}
	dest := sh.Resolve(args[0])
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("file %q already exists", args[0])
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := sh.backup(ctx, "main", dest); err != nil {
		return err
	}
	_, err := fmt.Fprintf(sh.Stdout(), "cloned %s into %s\n", sh.Filename(), args[0])
	return err
}

func cmdRestore(ctx context.Context, sh *Shell, args []string) error {
	schema, file, err := schemaAndFile(".restore ?DB? FILE", args)
	if err != nil {
		return err
	}
	src := sh.Resolve(file)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("cannot open %q: %w", file, err)
	}

	b, ok := sh.conn.(adapter.Backuper)
	if !ok {
		return fmt.Errorf(".restore is not available for the %s driver", sh.driver)
	}
	sh.logger.Debug("restoring database", "schema", schema, "from", src)
	return withProgress(sh, func(progress adapter.ProgressFunc) error {
		return b.Restore(ctx, schema, src, progress)
	})
}

// backup copies schema to dest with the page-level API when the adapter
// has one, and with VACUUM INTO otherwise.
func (sh *Shell) backup(ctx context.Context, schema, dest string) error {
	sh.logger.Debug("backing up database", "schema", schema, "to", dest)
	if b, ok := sh.conn.(adapter.Backuper); ok {
		return withProgress(sh, func(progress adapter.ProgressFunc) error {
			return b.Backup(ctx, schema, dest, progress)
		})
	}

	v, ok := sh.conn.(vacuumer)
	if !ok || !sh.conn.Dialect().VacuumInto {
		return fmt.Errorf(".backup is not available for the %s driver", sh.driver)
	}
	if err := os.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return v.VacuumInto(ctx, schema, dest)
}

// withProgress draws a progress bar on stdout while fn runs and ends the
// bar line once it has been started.
func withProgress(sh *Shell, fn func(adapter.ProgressFunc) error) error {
	w := sh.Stdout()
	drawn := false
	bar := progressBar(w)
	err := fn(func(done, total int) {
		drawn = true
		bar(done, total)
	})
	if drawn {
		_, _ = fmt.Fprintln(w)
	}
	return err
}
