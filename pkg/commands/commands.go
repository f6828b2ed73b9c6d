package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/waitlist/pkg/commands/options"
	"tableflip.dev/waitlist/pkg/config"
	"tableflip.dev/waitlist/pkg/store"
)

var (
	output = &options.OutputOptions{}
	co     = &options.ConfigOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "waitlist",
		Short: base.Wrap80("Collect launch waitlist signups from the terminal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddOutputArg(cmd, output)
	options.AddConfigArgs(cmd, co)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addJoin(topLevel)
	addList(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// load resolves config and opens the shared store with logger attached.
func load(logger *slog.Logger) (*config.Config, store.Store, error) {
	cfg, err := co.Load()
	if err != nil {
		return nil, nil, err
	}
	opts := cfg.StoreOptions()
	opts.Logger = logger
	s, err := store.Shared(opts)
	if err != nil {
		return cfg, nil, err
	}
	logger.Debug("store opened", "location", s.Location(), "project", cfg.Project)
	return cfg, s, nil
}
