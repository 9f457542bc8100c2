package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/runner/edit"
	"tableflip.dev/jot/pkg/store"
)

func addEdit(topLevel *cobra.Command) {
	no := &options.AddOptions{}
	var index int

	cmd := &cobra.Command{
		Use:   "edit <number> <text>",
		Short: "Replace the text of an entry",
		Long: base.Wrap80(`Replace the text of an entry. A leading "## " or "- " changes the entry's kind the same way typing it in the editor does.`),
		Example: `
jot edit 2 -- "- buy bread"
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 2 {
				return errors.New("requires an entry number and text")
			}
			var err error
			if index, err = options.ParseIndex(args[0]); err != nil {
				return err
			}
			no.Message = strings.Join(args[1:], " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
				s := edit.Edit{
					Service: svc,
					Index:   index,
					Message: no.Message,
				}
				return s.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
