// Package get provides the runner that prints the list.
package get

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/entry"
	"tableflip.dev/jot/pkg/export"
	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/printers"
)

type Get struct {
	Service *app.Service

	// Kind limits output to one kind when set.
	Kind *glyph.Kind
	// Open hides completed tasks.
	Open  bool
	JSON  bool
	// Markdown renders the text export through glamour instead of the
	// numbered table.
	Markdown bool
	Width    int

	Out io.Writer
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}

	if n.JSON {
		doc, err := n.Service.Document(ctx)
		if err != nil {
			return err
		}
		return export.Write(printers.Writer(n.Out), export.FormatJSON, doc)
	}

	entries, err := n.Service.Entries(ctx)
	if err != nil {
		return err
	}
	if n.Markdown {
		return n.markdown(entries)
	}
	pp := printers.PrettyPrint{ShowNumbers: true, Width: n.Width, Out: n.Out}
	if n.Kind == nil && !n.Open {
		pp.List(entries)
		return nil
	}
	for i, e := range app.Numbered(entries) {
		if n.keep(e) {
			pp.Entry(e, i+1)
		}
	}
	return nil
}

func (n *Get) keep(e *entry.Entry) bool {
	if n.Kind != nil && e.Kind != *n.Kind {
		return false
	}
	if n.Open && e.IsTask() && e.Done {
		return false
	}
	return true
}

func (n *Get) markdown(entries []*entry.Entry) error {
	// Blank lines keep consecutive notes from merging into one paragraph.
	var lines []string
	for _, e := range entries {
		if !e.Placeholder && n.keep(e) {
			lines = append(lines, export.Line(e))
		}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(n.Width),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(strings.Join(lines, "\n\n"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(printers.Writer(n.Out), out)
	return err
}
