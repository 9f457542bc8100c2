package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/commands/options"
	"tableflip.dev/jot/pkg/store"
)

var (
	output = &options.OutputOptions{}
	files  = &options.StoreOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "jot",
		Short: base.Wrap80("Notes, tasks and headers in one list, kept on disk as you type."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddStoreArgs(cmd, files)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addKey(topLevel)
	addAdd(topLevel)
	addList(topLevel)
	addDone(topLevel)
	addEdit(topLevel)
	addRemove(topLevel)
	addPaste(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addSettings(topLevel)
	addInfo(topLevel)
	addWatch(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// withService opens the list, hands it to fn and closes it again, which
// writes any pending change and waits for outstanding title lookups.
func withService(ctx context.Context, fn func(context.Context, store.Config, *app.Service) error) error {
	cfg, err := files.Config()
	if err != nil {
		return err
	}
	svc, err := app.Open(ctx, cfg, nil)
	if err != nil {
		return err
	}
	err = fn(ctx, cfg, svc)

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.FetchTimeout())
	defer cancel()
	if cerr := svc.Close(closeCtx); err == nil {
		err = cerr
	}
	return err
}
