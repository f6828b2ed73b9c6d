package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/waitlist/pkg/commands/options"
	"tableflip.dev/waitlist/pkg/runner/ui"
	"tableflip.dev/waitlist/pkg/submission"
)

func addUI(topLevel *cobra.Command) {
	dl := &options.DebugLogOptions{}
	var title, tagline string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the signup form",
		Example: `
waitlist ui
waitlist ui --title Synergy --debug-log /tmp/waitlist.log
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logger, closeLog, err := dl.Logger()
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			cfg, s, err := load(logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
			defer stop()

			i := ui.UI{
				Controller:   submission.New(s, cfg.SubmissionOptions(logger)...),
				Location:     s.Location(),
				Title:        title,
				Tagline:      tagline,
				TickInterval: cfg.NotificationTick,
				Logger:       logger,
			}
			return i.Do(ctx)
		},
	}

	options.AddDebugLogArg(cmd, dl)
	cmd.Flags().StringVar(&title, "title", "", "Heading shown above the form.")
	cmd.Flags().StringVar(&tagline, "tagline", "", "Line shown under the heading.")

	topLevel.AddCommand(cmd)
}
