// Package watch provides the runner that reprints the list whenever the
// document changes on disk.
package watch

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"
	"github.com/muesli/termenv"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/printers"
	"tableflip.dev/jot/pkg/store"
)

type Watch struct {
	Service *app.Service
	Width   int
	// Clear wipes the screen before each reprint.
	Clear bool

	Out io.Writer
}

// Do prints the list, then reloads and reprints it on every external change
// until ctx is done.
func (n *Watch) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not watch, no service")
	}
	ch, err := n.Service.Watch(ctx)
	if err != nil {
		return err
	}
	if err := n.print(ctx, ""); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			note := "changed"
			if ev.Type == store.EventRemoved {
				note = "removed"
			} else if err := n.Service.Reload(ctx); err != nil {
				return err
			}
			if err := n.print(ctx, note); err != nil {
				return err
			}
		}
	}
}

func (n *Watch) print(ctx context.Context, note string) error {
	entries, err := n.Service.Entries(ctx)
	if err != nil {
		return err
	}
	out := printers.Writer(n.Out)
	if n.Clear {
		termenv.NewOutput(out).ClearScreen()
	}
	pp := printers.PrettyPrint{ShowNumbers: true, Width: n.Width, Out: n.Out}
	if note != "" {
		f := color.New(color.Faint)
		_, _ = f.Fprintf(out, "-- %s\n", note)
	}
	pp.List(entries)
	return nil
}
