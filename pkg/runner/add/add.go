// Package add provides the runner for appending entries.
package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/printers"
)

// Add writes a new entry. Kind is applied after the message is typed, so an
// explicit kind wins over any marker in the message.
type Add struct {
	Service *app.Service

	Kind    *glyph.Kind
	Message string
	// After is the 1-based entry to insert behind; zero appends.
	After int

	Out io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}

	afterID := ""
	if n.After > 0 {
		after, err := n.Service.EntryAt(ctx, n.After)
		if err != nil {
			return err
		}
		afterID = after.ID
	}

	e, err := n.Service.Add(ctx, afterID, n.Message)
	if err != nil {
		return err
	}
	if n.Kind != nil && e.Kind != *n.Kind {
		if e, err = n.Service.SetKind(ctx, e.ID, *n.Kind); err != nil {
			return err
		}
	}

	entries, err := n.Service.Entries(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowNumbers: true, Out: n.Out}
	for i, c := range app.Numbered(entries) {
		if c.ID == e.ID {
			pp.Entry(c, i+1)
			break
		}
	}
	return nil
}
