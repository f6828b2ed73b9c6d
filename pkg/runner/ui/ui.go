// Package ui runs the interactive signup form.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tableflip.dev/waitlist/pkg/submission"
	tuiapp "tableflip.dev/waitlist/pkg/tui/app"
)

type UI struct {
	Controller   *submission.Controller
	Location     string
	Title        string
	Tagline      string
	TickInterval time.Duration
	Logger       *slog.Logger
}

func (u *UI) Do(ctx context.Context) error {
	if u.Controller == nil {
		return errors.New("ui: no controller configured")
	}
	if u.Logger != nil {
		u.Logger.Info("ui starting", "location", u.Location, "collection", u.Controller.Collection())
		defer u.Logger.Info("ui stopped")
	}
	return tuiapp.Run(ctx, u.Controller, tuiapp.Options{
		Title:        u.Title,
		Tagline:      u.Tagline,
		Location:     u.Location,
		TickInterval: u.TickInterval,
		Logger:       u.Logger,
	})
}
