// Package key provides CLI helpers to display the glyph legend.
package key

import (
	"context"
	"io"

	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/printers"
)

// Key prints the glyphs and the markers that select each kind.
type Key struct {
	Out io.Writer
}

// Do renders the legend to stdout.
func (k *Key) Do(_ context.Context) error {
	pp := printers.PrettyPrint{Out: k.Out}
	pp.NewLine()
	pp.Legend(glyph.DefaultGlyphs())
	pp.NewLine()
	return nil
}
