package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/runner/info"
	"tableflip.dev/jot/pkg/store"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Where the list lives and what is in it.",
		Example: `
jot info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd.Context(), func(ctx context.Context, cfg store.Config, svc *app.Service) error {
				s := info.Info{
					Config:  cfg,
					Service: svc,
				}
				return s.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
