// Package toast renders the transient notification box with its countdown
// bar. One Model shows at most one notification; showing another replaces it.
package toast

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/progress"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/tui/events"
	"tableflip.dev/waitlist/pkg/tui/theme"
)

const minWidth = 24

// Model owns the current notification and the timer counting it down.
type Model struct {
	theme    theme.ToastTheme
	interval time.Duration
	width    int

	// send delivers timer ticks from the timer goroutine into the program.
	send func(tea.Msg)

	current *notify.Notification
	timer   *notify.Timer
	timerID int
	state   notify.TimerState

	bar progress.Model
}

// New returns an empty toast that ticks every interval.
func New(th theme.ToastTheme, interval time.Duration) *Model {
	if interval <= 0 {
		interval = notify.DefaultInterval
	}
	m := &Model{theme: th, interval: interval}
	m.SetWidth(48)
	return m
}

// SetSender wires timer ticks to fn, normally tea.Program.Send. Without a
// sender the timer still runs but ticks must be fed through Update.
func (m *Model) SetSender(fn func(tea.Msg)) { m.send = fn }

// SetWidth sizes the box and the countdown bar.
func (m *Model) SetWidth(width int) {
	if width < minWidth {
		width = minWidth
	}
	if width == m.width {
		return
	}
	m.width = width
	inner := width - m.theme.Frame.GetHorizontalFrameSize()
	m.bar = progress.New(
		progress.WithWidth(max(inner, 1)),
		progress.WithoutPercentage(),
	)
}

// Show replaces the current notification with n and starts its countdown.
// The previous timer is stopped first so it can never touch the new state.
func (m *Model) Show(n notify.Notification) {
	m.stopTimer()

	m.timerID++
	id := m.timerID
	m.current = &n
	m.timer = notify.NewTimer(n.Duration, m.interval)
	m.state = m.timer.State()

	send := m.send
	m.timer.Start(func(st notify.TimerState) {
		if send != nil {
			send(events.ToastTickMsg{TimerID: id, State: st})
		}
	})
}

// Close hides the toast and stops its timer.
func (m *Model) Close() {
	m.stopTimer()
	m.current = nil
	m.state = notify.TimerState{}
}

func (m *Model) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// TimerID identifies the timer of the current notification.
func (m *Model) TimerID() int { return m.timerID }

// State is the countdown state last applied.
func (m *Model) State() notify.TimerState { return m.state }

// Visible reports whether a notification is on screen.
func (m *Model) Visible() bool {
	_, ok := notify.Present(m.current, m.state)
	return ok
}

// Update applies ticks addressed to the current timer. Ticks from replaced
// timers are dropped.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch v := msg.(type) {
	case events.ShowNotificationMsg:
		m.Show(v.Notification)
	case events.ToastTickMsg:
		if v.TimerID != m.timerID || m.current == nil {
			return m, nil
		}
		m.state = v.State
		if !v.State.Visible {
			m.Close()
		}
	}
	return m, nil
}

// View renders the toast, or "" when nothing is visible.
func (m *Model) View() string {
	p, ok := notify.Present(m.current, m.state)
	if !ok {
		return ""
	}
	inner := max(m.width-m.theme.Frame.GetHorizontalFrameSize(), 1)
	accent := m.theme.Accent(p.Severity)

	head := accent.Render(p.Treatment.Icon + " " + p.Treatment.Label)
	body := m.theme.Message.Render(strings.TrimRight(wordwrap.String(p.Message, inner), "\n"))
	bar := accent.UnsetBold().Render(m.bar.ViewAs(p.Remaining))

	return m.theme.Frame.
		Width(m.width).
		BorderForeground(accent.GetForeground()).
		Render(lipgloss.JoinVertical(lipgloss.Left, head, body, bar))
}
