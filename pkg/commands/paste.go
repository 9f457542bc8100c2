package commands

import (
	"context"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/runner/paste"
	"tableflip.dev/jot/pkg/store"
)

func addPaste(topLevel *cobra.Command) {
	po := &options.PositionOptions{}
	var stdin bool

	cmd := &cobra.Command{
		Use:   "paste [text]",
		Short: "Paste text, one entry per line",
		Example: `
jot paste
pbpaste | jot paste
jot paste --after 3 "first line"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
				s := paste.Paste{
					Service: svc,
					Text:    strings.Join(args, " "),
					After:   po.After,
				}
				// Piped input wins over the clipboard.
				if stdin || !isatty.IsTerminal(os.Stdin.Fd()) {
					s.In = os.Stdin
				}
				return s.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	cmd.Flags().BoolVar(&stdin, "stdin", false, "Read the text from standard input instead of the clipboard.")
	options.AddPositionArgs(cmd, po)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
