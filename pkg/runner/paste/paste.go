// Package paste provides the runner that writes multi-line text into the
// list, one entry per line.
package paste

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/printers"
)

type Paste struct {
	Service *app.Service

	// Text is pasted when set. Otherwise In is read, and when In is nil
	// the system clipboard is used.
	Text string
	In   io.Reader
	// After is the 1-based entry to paste behind; zero appends.
	After int

	Out io.Writer
}

func (n *Paste) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not paste, no service")
	}
	text, err := n.text()
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("nothing to paste")
	}

	// Paste lands in a blank row: the trailing placeholder, or a fresh row
	// behind the chosen entry.
	target := ""
	if n.After > 0 {
		after, err := n.Service.EntryAt(ctx, n.After)
		if err != nil {
			return err
		}
		e, err := n.Service.Add(ctx, after.ID, "")
		if err != nil {
			return err
		}
		target = e.ID
	} else {
		entries, err := n.Service.Entries(ctx)
		if err != nil {
			return err
		}
		target = entries[len(entries)-1].ID
	}

	written, err := n.Service.Paste(ctx, target, text)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(printers.Writer(n.Out), "pasted %d entries\n", len(written))

	entries, err := n.Service.Entries(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowNumbers: true, Out: n.Out}
	pp.List(entries)
	return nil
}

func (n *Paste) text() (string, error) {
	switch {
	case n.Text != "":
		return n.Text, nil
	case n.In != nil:
		b, err := io.ReadAll(n.In)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(b), nil
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}
