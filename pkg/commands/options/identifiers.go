package options

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// PositionOptions places new entries.
type PositionOptions struct {
	After int
}

func AddPositionArgs(cmd *cobra.Command, o *PositionOptions) {
	cmd.Flags().IntVarP(&o.After, "after", "a", 0,
		"Insert behind the entry with this number (as shown by list). Default appends.")
}

// ParseIndex reads a 1-based entry number.
func ParseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not an entry number", arg)
	}
	return n, nil
}

func ParseIndexes(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := ParseIndex(a)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
