package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/waitlist/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where signups are stored.",
		Example: `
waitlist info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, s, err := load(co.Logger())
			if err != nil {
				return output.HandleError(err)
			}
			n := info.Info{
				Config: cfg,
				Store:  s,
				Out:    cmd.OutOrStdout(),
			}
			return output.HandleError(n.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
