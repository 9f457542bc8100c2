package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/glyph"
	"tableflip.dev/jot/pkg/runner/add"
	"tableflip.dev/jot/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	no := &options.AddOptions{}
	po := &options.PositionOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an entry, typed by its leading marker",
		Example: `
jot add "## Groceries"
jot add -- "- milk"
jot add --after 2 remember the receipt
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires some text")
			}
			no.Message = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, nil, no, po)
		},
	}

	options.AddPositionArgs(cmd, po)
	options.AddOutputArg(cmd, output)

	addKind(cmd, glyph.Task, "task", []string{"tasks", "todo"}, "Add a task", `
jot add task call the bank
`)
	addKind(cmd, glyph.Note, "note", []string{"notes"}, "Add a note", `
jot add note this is a note
`)
	addKind(cmd, glyph.Header, "header", []string{"h", "section"}, "Add a header", `
jot add header Groceries
`)

	topLevel.AddCommand(cmd)
}

func addKind(parent *cobra.Command, kind glyph.Kind, use string, aliases []string, short, example string) {
	no := &options.AddOptions{}
	po := &options.PositionOptions{}

	cmd := &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Example: example,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a " + use)
			}
			no.Message = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, &kind, no, po)
		},
	}

	options.AddPositionArgs(cmd, po)
	options.AddOutputArg(cmd, output)
	parent.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, kind *glyph.Kind, no *options.AddOptions, po *options.PositionOptions) error {
	err := withService(cmd.Context(), func(ctx context.Context, _ store.Config, svc *app.Service) error {
		s := add.Add{
			Service: svc,
			Kind:    kind,
			Message: no.Message,
			After:   po.After,
		}
		return s.Do(ctx)
	})
	return output.HandleError(err)
}
