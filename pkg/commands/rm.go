package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/runner/remove"
	"tableflip.dev/jot/pkg/store"
)

func addRemove(topLevel *cobra.Command) {
	var indexes []int

	cmd := &cobra.Command{
		Use:     "rm <number>...",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove entries",
		Example: `
jot rm 4
jot rm 1 2 5
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires at least one entry number")
			}
			var err error
			indexes, err = options.ParseIndexes(args)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
				s := remove.Remove{
					Service: svc,
					Indexes: indexes,
				}
				return s.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
