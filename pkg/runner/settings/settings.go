// Package settings provides the runner that shows and changes settings.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/printers"
)

// Settings prints all settings, one when Key is set, or assigns Value to
// Key when Set is true.
type Settings struct {
	Service *app.Service
	Key     string
	Value   string
	Set     bool

	Out io.Writer
}

func (n *Settings) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not read settings, no service")
	}
	if n.Set {
		s, err := n.Service.SetSetting(ctx, n.Key, n.Value)
		if err != nil {
			return err
		}
		v, _ := s.Get(n.Key)
		_, _ = fmt.Fprintf(printers.Writer(n.Out), "%s = %s\n", n.Key, v)
		return nil
	}

	s, err := n.Service.Settings(ctx)
	if err != nil {
		return err
	}
	if n.Key != "" {
		v, err := s.Get(n.Key)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(printers.Writer(n.Out), v)
		return nil
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Settings(s)
	return nil
}
