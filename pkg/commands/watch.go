package commands

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/runner/watch"
	"tableflip.dev/jot/pkg/store"
)

func addWatch(topLevel *cobra.Command) {
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the list and reprint it whenever the file changes",
		Example: `
jot watch
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
				s := watch.Watch{
					Service: svc,
					Width:   lo.Width,
					Clear:   isatty.IsTerminal(os.Stdout.Fd()),
				}
				return s.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	cmd.Flags().IntVarP(&lo.Width, "width", "w", 80, "Wrap entries at this width, 0 to disable.")
	topLevel.AddCommand(cmd)
}
