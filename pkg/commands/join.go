package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/waitlist/pkg/commands/options"
	"tableflip.dev/waitlist/pkg/printers"
	"tableflip.dev/waitlist/pkg/runner/join"
	"tableflip.dev/waitlist/pkg/submission"
)

func addJoin(topLevel *cobra.Command) {
	jo := &options.JoinOptions{}
	ia := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Add someone to the waitlist.",
		Example: `
waitlist join --full-name "Ada Lovelace" --email ada@example.com
waitlist join -i
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			logger := co.Logger()
			cfg, s, err := load(logger)
			if err != nil {
				return output.HandleError(err)
			}
			j := join.Join{
				Controller:  submission.New(s, cfg.SubmissionOptions(logger)...),
				Fields:      jo.Fields(),
				Interactive: ia.Interactive,
				Printer:     &printers.PrettyPrint{Out: cmd.OutOrStdout()},
			}
			return output.HandleError(j.Do(cmd.Context()))
		},
	}

	options.AddJoinArgs(cmd, jo)
	options.InteractiveArgs(cmd, ia)

	topLevel.AddCommand(cmd)
}
