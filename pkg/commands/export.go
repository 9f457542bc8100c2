package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/runner/export"
	"tableflip.dev/jot/pkg/runner/importer"
	"tableflip.dev/jot/pkg/store"
)

func addExport(topLevel *cobra.Command) {
	fo := &options.FormatOptions{}

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the list as markdown-ish text or JSON",
		Example: `
jot export list.txt
jot export --format json - | jq .
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			err := withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
				s := export.Export{
					Service: svc,
					Path:    path,
					Format:  fo.Format,
				}
				return s.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddFormatArgs(cmd, fo)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	fo := &options.FormatOptions{}

	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Append the entries of an export",
		Example: `
jot import list.txt
cat backup.json | jot import --format json -
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			err := withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
				s := importer.Import{
					Service: svc,
					Path:    args[0],
					Format:  fo.Format,
					In:      os.Stdin,
				}
				return s.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddFormatArgs(cmd, fo)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
