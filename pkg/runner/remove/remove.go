// Package remove provides the runner that deletes entries.
package remove

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/printers"
)

// Remove deletes the entries at the given 1-based indexes.
type Remove struct {
	Service *app.Service
	Indexes []int

	Out io.Writer
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not remove, no service")
	}
	entries, err := n.Service.Entries(ctx)
	if err != nil {
		return err
	}
	numbered := app.Numbered(entries)

	ids := make([]string, 0, len(n.Indexes))
	seen := map[int]bool{}
	idx := append([]int(nil), n.Indexes...)
	sort.Ints(idx)
	for _, i := range idx {
		if i < 1 || i > len(numbered) {
			return fmt.Errorf("%w: no entry %d (have %d)", app.ErrNotFound, i, len(numbered))
		}
		if !seen[i] {
			seen[i] = true
			ids = append(ids, numbered[i-1].ID)
		}
	}
	for _, id := range ids {
		if err := n.Service.Remove(ctx, id); err != nil {
			return err
		}
	}

	if entries, err = n.Service.Entries(ctx); err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowNumbers: true, Out: n.Out}
	pp.List(entries)
	return nil
}
