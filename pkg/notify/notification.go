// Package notify models the transient message shown after a signup attempt
// and the countdown that hides it.
package notify

import (
	"fmt"
	"time"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 5 * time.Second

// Severity is the display category of a notification.
type Severity int

const (
	Success Severity = iota
	Error
	Info
	Warning
)

var severityNames = map[Severity]string{
	Success: "success",
	Error:   "error",
	Info:    "info",
	Warning: "warning",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Notification is an immutable message value. A new one replaces the old; they
// are never queued.
type Notification struct {
	Message   string
	Severity  Severity
	Duration  time.Duration
	CreatedAt time.Time
}

// New builds a notification, falling back to DefaultDuration when d is not
// positive.
func New(message string, severity Severity, d time.Duration, now time.Time) Notification {
	if d <= 0 {
		d = DefaultDuration
	}
	return Notification{
		Message:   message,
		Severity:  severity,
		Duration:  d,
		CreatedAt: now,
	}
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Severity, n.Message)
}
