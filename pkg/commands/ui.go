package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based editor",
		Example: `
jot ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runUI(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

// runUI keeps log output off the terminal while the editor owns it.
func runUI(ctx context.Context) error {
	cfg, err := files.Config()
	if err != nil {
		return err
	}
	svc, err := app.Open(ctx, cfg, app.NewLogger(io.Discard, cfg.LogLevel()))
	if err != nil {
		return err
	}
	err = (&ui.UI{Service: svc}).Do(ctx)

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.FetchTimeout())
	defer cancel()
	if cerr := svc.Close(closeCtx); err == nil {
		err = cerr
	}
	return err
}

