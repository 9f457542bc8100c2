package options

import (
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"tableflip.dev/jot/pkg/store"
)

// StoreOptions selects the document to work on.
type StoreOptions struct {
	Path string
}

// AddStoreArgs registers --file on every command below cmd.
func AddStoreArgs(cmd *cobra.Command, o *StoreOptions) {
	cmd.PersistentFlags().StringVarP(&o.Path, "file", "f", "",
		"Use this list file instead of the configured one.")
}

// Config loads the user configuration, with --file taking precedence.
func (o *StoreOptions) Config() (store.Config, error) {
	if o.Path != "" {
		p, err := homedir.Expand(o.Path)
		if err != nil {
			return nil, err
		}
		return store.NewConfig(p), nil
	}
	return store.LoadConfig()
}
