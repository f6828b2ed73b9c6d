// Package events holds the messages exchanged between the root model and its
// components.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/submission"
)

// SnapshotMsg carries controller state published from a subscription.
type SnapshotMsg struct {
	Snapshot submission.Snapshot
}

// Describe renders the snapshot for debug logs without field values.
func (m SnapshotMsg) Describe() string {
	return fmt.Sprintf("status:%s fields:%d", m.Snapshot.Status, len(m.Snapshot.Fields))
}

// SubmitResultMsg reports the end of a submission. Accepted is false when a
// submission was already in flight and this one was ignored.
type SubmitResultMsg struct {
	Notification notify.Notification
	Accepted     bool
}

// Describe renders the result for debug logs.
func (m SubmitResultMsg) Describe() string {
	if !m.Accepted {
		return "ignored:in-flight"
	}
	return fmt.Sprintf("severity:%s message:%q", m.Notification.Severity, m.Notification.Message)
}

// ToastTickMsg is one countdown step for the toast with the given timer id.
type ToastTickMsg struct {
	TimerID int
	State   notify.TimerState
}

// ShowNotificationMsg replaces the visible toast.
type ShowNotificationMsg struct {
	Notification notify.Notification
}

// ShowNotificationCmd wraps n as a command.
func ShowNotificationCmd(n notify.Notification) tea.Cmd {
	return func() tea.Msg { return ShowNotificationMsg{Notification: n} }
}
