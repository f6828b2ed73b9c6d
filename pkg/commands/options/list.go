package options

import (
	"github.com/spf13/cobra"
)

// ListOptions
type ListOptions struct {
	Output string
	Watch  bool
	ShowID bool
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "table",
		"Output format. One of 'table', 'json' or 'yaml'.")
	cmd.Flags().BoolVarP(&o.Watch, "watch", "w", false,
		"Keep running and print new signups as they arrive.")
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each record.")
}
