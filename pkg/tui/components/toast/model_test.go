package toast

import (
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/tui/events"
	"tableflip.dev/waitlist/pkg/tui/theme"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func newToast(t *testing.T) *Model {
	t.Helper()
	m := New(theme.Default().Toast, notify.DefaultInterval)
	t.Cleanup(m.Close)
	return m
}

func note(msg string, sev notify.Severity) notify.Notification {
	return notify.New(msg, sev, 5*time.Second, time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC))
}

func TestShowRendersMessageAndTreatment(t *testing.T) {
	m := newToast(t)
	m.Show(note("You are now on the waitlist.", notify.Success))

	if !m.Visible() {
		t.Fatalf("expected toast to be visible")
	}
	view := stripANSI(m.View())
	for _, want := range []string{"✔", "Success", "You are now on the waitlist."} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestShowMessageReplacesToast(t *testing.T) {
	m := newToast(t)
	m.Show(note("first", notify.Info))
	first := m.TimerID()

	m.Update(events.ShowNotificationMsg{Notification: note("second", notify.Error)})
	if m.TimerID() == first {
		t.Fatalf("show message should start a new timer")
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "second") || !strings.Contains(view, "✖") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTickUpdatesAndHides(t *testing.T) {
	m := newToast(t)
	m.Show(note("Failed to add to waitlist", notify.Error))
	id := m.TimerID()

	m.Update(events.ToastTickMsg{TimerID: id, State: notify.TimerState{Remaining: 0.5, Visible: true}})
	if got := m.State().Remaining; got != 0.5 {
		t.Fatalf("remaining = %v, want 0.5", got)
	}

	m.Update(events.ToastTickMsg{TimerID: id, State: notify.TimerState{Remaining: 0, Visible: false}})
	if m.Visible() {
		t.Fatalf("expected toast hidden after final tick")
	}
	if m.View() != "" {
		t.Fatalf("hidden toast should render nothing, got %q", m.View())
	}
}

func TestStaleTicksAreIgnored(t *testing.T) {
	m := newToast(t)
	m.Show(note("first", notify.Info))
	stale := m.TimerID()
	m.Show(note("second", notify.Warning))

	if m.TimerID() == stale {
		t.Fatalf("replacing the notification should issue a new timer id")
	}
	m.Update(events.ToastTickMsg{TimerID: stale, State: notify.TimerState{Remaining: 0, Visible: false}})
	if !m.Visible() {
		t.Fatalf("stale tick hid the replacement toast")
	}
	if got := m.State().Remaining; got != 1 {
		t.Fatalf("stale tick changed remaining to %v", got)
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "second") || strings.Contains(view, "first") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestCloseHides(t *testing.T) {
	m := newToast(t)
	m.Show(note("hello", notify.Info))
	id := m.TimerID()
	m.Close()
	if m.Visible() {
		t.Fatalf("expected hidden after Close")
	}
	m.Update(events.ToastTickMsg{TimerID: id, State: notify.TimerState{Remaining: 0.9, Visible: true}})
	if m.Visible() {
		t.Fatalf("tick after Close resurrected the toast")
	}
}

func TestSenderReceivesCountdown(t *testing.T) {
	m := New(theme.Default().Toast, 10*time.Millisecond)
	defer m.Close()

	ticks := make(chan tea.Msg, 64)
	m.SetSender(func(msg tea.Msg) { ticks <- msg })
	m.Show(notify.New("short", notify.Info, 30*time.Millisecond, time.Now()))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-ticks:
			tick, ok := msg.(events.ToastTickMsg)
			if !ok {
				t.Fatalf("unexpected message %T", msg)
			}
			if tick.TimerID != m.TimerID() {
				t.Fatalf("tick for timer %d, want %d", tick.TimerID, m.TimerID())
			}
			m.Update(tick)
			if !tick.State.Visible {
				if m.Visible() {
					t.Fatalf("toast still visible after expiry")
				}
				return
			}
		case <-deadline:
			t.Fatal("timer never expired")
		}
	}
}
