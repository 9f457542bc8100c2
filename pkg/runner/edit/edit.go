// Package edit provides the runner that rewrites an entry's text.
package edit

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/printers"
)

// Edit replaces the text of the entry at Index. A leading "## " or "- " in
// Message changes the kind, just like typing it.
type Edit struct {
	Service *app.Service
	Index   int
	Message string

	Out io.Writer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not edit, no service")
	}
	e, err := n.Service.EntryAt(ctx, n.Index)
	if err != nil {
		return err
	}
	if e, err = n.Service.Edit(ctx, e.ID, n.Message); err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowNumbers: true, Out: n.Out}
	pp.Entry(e, n.Index)
	return nil
}
