package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/runner/settings"
	keys "tableflip.dev/jot/pkg/settings"
	"tableflip.dev/jot/pkg/store"
)

func addSettings(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "settings [key]",
		Aliases:   []string{"config"},
		Short:     "Show the display settings stored with the list",
		ValidArgs: keys.Keys(),
		Example: `
jot settings
jot settings backgroundColor
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s := settings.Settings{}
			if len(args) == 1 {
				s.Key = args[0]
			}
			return output.HandleError(runSettings(cmd, &s))
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a display setting",
		Example: `
jot settings set isRtl true
jot settings set defaultTaskColor "#61AFEF"
`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return keys.Keys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s := settings.Settings{Key: args[0], Value: args[1], Set: true}
			return output.HandleError(runSettings(cmd, &s))
		},
	}

	cmd.AddCommand(set)
	topLevel.AddCommand(cmd)
}

func runSettings(cmd *cobra.Command, s *settings.Settings) error {
	return withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
		s.Service = svc
		return s.Do(ctx)
	})
}
