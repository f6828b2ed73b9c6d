package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/waitlist/pkg/commands/options"
	"tableflip.dev/waitlist/pkg/printers"
	"tableflip.dev/waitlist/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show who is on the waitlist.",
		Example: `
waitlist list
waitlist list -o yaml
waitlist list --watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			format, err := printers.ParseFormat(lo.Output)
			if err != nil {
				return err
			}
			cfg, s, err := load(co.Logger())
			if err != nil {
				return output.HandleError(err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			l := list.List{
				Store:      s,
				Collection: cfg.Collection,
				Format:     format,
				Watch:      lo.Watch,
				Printer:    &printers.PrettyPrint{Out: cmd.OutOrStdout(), ShowID: lo.ShowID},
			}
			return output.HandleError(l.Do(ctx))
		},
	}

	options.AddListArgs(cmd, lo)

	topLevel.AddCommand(cmd)
}
