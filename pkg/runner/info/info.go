package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/printers"
	"tableflip.dev/jot/pkg/store"
)

type Info struct {
	Config  store.Config
	Service *app.Service

	Out io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	w := printers.Writer(n.Out)

	if override := os.Getenv(store.ConfigPathEnv); override != "" {
		_, _ = fmt.Fprintln(w, store.ConfigPathEnv+" found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(w, store.ConfigPathEnv+" env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(w, "Config.path:  ", n.Config.DataPath())
	_, _ = fmt.Fprintln(w, "Config.cache: ", n.Config.CachePath())
	_, _ = fmt.Fprintln(w, "Save delay:   ", n.Config.SaveDelay())

	if n.Service == nil {
		return fmt.Errorf("failed to open the list")
	}

	sum, err := n.Service.Summary(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Entries:       %d (%d headers, %d links)\n\n", sum.Entries, sum.Headers, sum.Links)
	if sum.Entries == 0 {
		return nil
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Summary(sum)
	return nil
}
