package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
)

// OutputOptions
type OutputOptions struct {
	JSON bool

	// Out receives JSON errors, color.Output when nil.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// jsonError is what scripts see instead of a failing exit status.
type jsonError struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// HandleError prints err as JSON and swallows it in --json mode. Otherwise
// err is returned for cobra to report.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	b, merr := json.Marshal(jsonError{Error: err.Error(), Kind: errorKind(err)})
	if merr != nil {
		return merr
	}
	w := o.Out
	if w == nil {
		w = color.Output
	}
	_, _ = fmt.Fprintln(w, string(b))
	return nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return "not_found"
	case errors.Is(err, app.ErrClosed), errors.Is(err, app.ErrNotStarted):
		return "unavailable"
	}
	return ""
}
