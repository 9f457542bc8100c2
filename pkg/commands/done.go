package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/runner/complete"
	"tableflip.dev/jot/pkg/store"
)

func addDone(topLevel *cobra.Command) {
	var (
		index int
		undo  bool
	)

	cmd := &cobra.Command{
		Use:     "done <number>",
		Aliases: []string{"complete", "check"},
		Short:   "Check off an entry, turning it into a task if needed",
		Example: `
jot done 3
jot done 3 --undo
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) != 1 {
				return errors.New("requires one entry number")
			}
			var err error
			index, err = options.ParseIndex(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
				s := complete.Complete{
					Service: svc,
					Index:   index,
					Undo:    undo,
				}
				return s.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Uncheck instead.")
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
