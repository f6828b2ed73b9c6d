package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"tableflip.dev/waitlist/pkg/config"
	"tableflip.dev/waitlist/pkg/store"
)

type Info struct {
	Config *config.Config
	Store  store.Store
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = os.Stdout
	}

	if override := os.Getenv(config.EnvConfigPath); override != "" {
		fmt.Fprintln(out, config.EnvConfigPath, "found on env, using", override)
	} else {
		fmt.Fprintln(out, config.EnvConfigPath, "env var not set")
	}

	if n.Config == nil {
		return errors.New("info: no config loaded")
	}
	file := n.Config.File
	if file == "" {
		file = "(none, using defaults and environment)"
	}
	fmt.Fprintln(out, "Config.file:      ", file)
	fmt.Fprintln(out, "Config.project:   ", n.Config.Project)
	fmt.Fprintln(out, "Config.store:     ", n.Config.Store)
	fmt.Fprintln(out, "Config.collection:", n.Config.Collection)
	fmt.Fprintln(out, "Config.duplicates:", n.Config.CheckDuplicates, "on", n.Config.UniqueField)
	fmt.Fprintln(out, "Config.toast:     ", n.Config.NotificationDuration, "every", n.Config.NotificationTick)

	if n.Store == nil {
		return errors.New("info: failed to open store")
	}
	fmt.Fprintln(out, "Store.location:   ", n.Store.Location())

	records, err := n.Store.List(ctx, n.Config.Collection)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	fmt.Fprintf(out, "Signups:           %d\n", len(records))
	return nil
}
