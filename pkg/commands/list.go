package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/runner/get"
	"tableflip.dev/jot/pkg/store"
)

func addList(topLevel *cobra.Command) {
	lo := &options.ListOptions{}
	var kind *glyph.Kind

	cmd := &cobra.Command{
		Use:       "list [kind]",
		Aliases:   []string{"ls", "get"},
		Short:     "Print the list, numbered",
		ValidArgs: []string{"tasks", "notes", "headers"},
		Example: `
jot list
jot list tasks --open
jot ls --json
jot list --markdown
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return err
			}
			if len(args) == 1 {
				k, err := glyph.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = &k
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
				s := get.Get{
					Service:  svc,
					Kind:     kind,
					Open:     lo.Open,
					JSON:     output.JSON,
					Markdown: lo.Markdown,
					Width:    lo.Width,
				}
				return s.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddListArgs(cmd, lo)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
