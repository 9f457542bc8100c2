// Package complete provides the runner logic for marking tasks done.
package complete

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/printers"
)

// Complete marks the entry at Index done, or open again with Undo. A note or
// header becomes a task.
type Complete struct {
	Service *app.Service
	Index   int
	Undo    bool

	Out io.Writer
}

// Do executes the completion operation for the configured entry.
func (n *Complete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not complete, no service")
	}
	e, err := n.Service.EntryAt(ctx, n.Index)
	if err != nil {
		return err
	}
	if e, err = n.Service.SetDone(ctx, e.ID, !n.Undo); err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowNumbers: true, Out: n.Out}
	pp.Entry(e, n.Index)
	return nil
}
