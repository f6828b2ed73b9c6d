package options

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/waitlist/pkg/config"
)

// ConfigOptions binds the store and notification flags to viper so they
// override .waitlist.yaml and WAITLIST_* variables.
type ConfigOptions struct {
	Viper   *viper.Viper
	Verbose bool
}

// AddConfigArgs registers persistent configuration flags on cmd.
func AddConfigArgs(cmd *cobra.Command, o *ConfigOptions) {
	if o.Viper == nil {
		o.Viper = config.New()
	}
	f := cmd.PersistentFlags()
	f.String("project", "", "Store project identifier (required).")
	f.String("store", "", "Store backend: diskv, sqlite or memory.")
	f.String("path", "", "Base directory for the diskv store.")
	f.String("dsn", "", "Data source for the sqlite store.")
	f.String("collection", "", "Collection signups are written to.")
	f.Bool("check-duplicates", false, "Refuse signups whose email is already on the list.")
	f.Duration("notification-duration", 0, "How long notifications stay visible.")
	f.BoolVarP(&o.Verbose, "verbose", "v", false, "Log diagnostics to stderr.")

	bind := map[string]string{
		config.KeyProject:              "project",
		config.KeyStore:                "store",
		config.KeyPath:                 "path",
		config.KeyDSN:                  "dsn",
		config.KeyCollection:           "collection",
		config.KeyCheckDuplicates:      "check-duplicates",
		config.KeyNotificationDuration: "notification-duration",
	}
	for key, flag := range bind {
		_ = o.Viper.BindPFlag(key, f.Lookup(flag))
	}
}

// Load resolves and validates the configuration.
func (o *ConfigOptions) Load() (*config.Config, error) {
	return config.Load(o.Viper)
}

// Logger returns the operator diagnostics logger for CLI commands.
func (o *ConfigOptions) Logger() *slog.Logger {
	var w io.Writer = io.Discard
	if o.Verbose {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
