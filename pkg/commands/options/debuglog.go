package options

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// DebugLogOptions sends diagnostics of full-screen commands to a file, since
// the terminal is taken by the UI.
type DebugLogOptions struct {
	Path string
}

func AddDebugLogArg(cmd *cobra.Command, o *DebugLogOptions) {
	cmd.Flags().StringVar(&o.Path, "debug-log", "",
		"Append diagnostics to this file.")
}

// Logger opens the log file, if any. The returned close func is never nil.
func (o *DebugLogOptions) Logger() (*slog.Logger, func() error, error) {
	if o.Path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(o.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, f.Close, nil
}
