// Package importer provides the runner that appends entries read from a
// text or JSON export.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/export"
	"tableflip.dev/jot/pkg/printers"
)

// Import reads Path ("-" for In) and appends its entries.
type Import struct {
	Service *app.Service
	Path    string
	Format  string
	In      io.Reader

	Out io.Writer
}

func (n *Import) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not import, no service")
	}

	format := export.FormatFor(n.Path)
	if n.Format != "" {
		var err error
		if format, err = export.ParseFormat(n.Format); err != nil {
			return err
		}
	}

	r := n.In
	if n.Path != "" && n.Path != "-" {
		f, err := os.Open(n.Path)
		if err != nil {
			return fmt.Errorf("open %s: %w", n.Path, err)
		}
		defer f.Close()
		r = f
	}
	if r == nil {
		return errors.New("nothing to import")
	}

	entries, err := export.Parse(r, format)
	if err != nil {
		return err
	}
	added, err := n.Service.Import(ctx, entries)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(printers.Writer(n.Out), "imported %d entries\n", len(added))
	return nil
}
