// Package export provides the runner that writes the list to a file.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/export"
	"tableflip.dev/jot/pkg/printers"
)

// Export writes the list to Path, or to Out when Path is "" or "-". The format
// follows the file extension unless Format is set.
type Export struct {
	Service *app.Service
	Path    string
	Format  string

	Out io.Writer
}

func (n *Export) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not export, no service")
	}
	doc, err := n.Service.Document(ctx)
	if err != nil {
		return err
	}

	format := export.FormatFor(n.Path)
	if n.Format != "" {
		if format, err = export.ParseFormat(n.Format); err != nil {
			return err
		}
	}

	if n.Path == "" || n.Path == "-" {
		return export.Write(printers.Writer(n.Out), format, doc)
	}

	if err := export.ToFile(n.Path, format, doc); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(printers.Writer(n.Out), "exported %d entries to %s\n", len(doc.Entries), n.Path)
	return nil
}
