package options

import (
	"github.com/spf13/cobra"
)

// AddOptions
type AddOptions struct {
	Message string
}

// FormatOptions picks the export or import format.
type FormatOptions struct {
	Format string
}

func AddFormatArgs(cmd *cobra.Command, o *FormatOptions) {
	cmd.Flags().StringVar(&o.Format, "format", "",
		`One of "txt" or "json". Defaults to the file extension.`)
}

// ListOptions
type ListOptions struct {
	Open     bool
	Markdown bool
	Width    int
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().BoolVar(&o.Open, "open", false,
		"Hide completed tasks.")
	cmd.Flags().BoolVarP(&o.Markdown, "markdown", "m", false,
		"Render the list as markdown.")
	cmd.Flags().IntVarP(&o.Width, "width", "w", 80,
		"Wrap entries at this width, 0 to disable.")
}
