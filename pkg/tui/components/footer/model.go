package footer

import (
	"strings"

	"tableflip.dev/waitlist/pkg/tui/theme"
)

// Mode represents the UI mode that influences footer layout.
type Mode int

const (
	ModeForm Mode = iota
	ModeHelp
)

// Binding is one key hint.
type Binding struct {
	Key         string
	Description string
}

// Model tracks footer hint and status rendering state.
type Model struct {
	theme    theme.FooterTheme
	mode     Mode
	status   string
	location string
}

func New(th theme.FooterTheme) Model {
	return Model{theme: th, mode: ModeForm}
}

// SetMode updates the visual mode.
func (m *Model) SetMode(mode Mode) { m.mode = mode }

// SetStatus sets the submission status to display.
func (m *Model) SetStatus(status string) { m.status = status }

// SetLocation sets where signups are written, shown at the end of the bar.
func (m *Model) SetLocation(loc string) { m.location = loc }

// Bindings returns the key hints for the current mode.
func (m Model) Bindings() []Binding {
	switch m.mode {
	case ModeHelp:
		return []Binding{{"esc", "close"}, {"↑/↓", "scroll"}, {"ctrl+c", "quit"}}
	default:
		return []Binding{{"tab", "next"}, {"enter", "submit"}, {"?", "help"}, {"ctrl+c", "quit"}}
	}
}

// View renders the footer as a single line.
func (m Model) View() string {
	var hints []string
	for _, b := range m.Bindings() {
		hints = append(hints, m.theme.Key.Render(b.Key)+" "+m.theme.Help.Render(b.Description))
	}
	segments := []string{strings.Join(hints, "  ")}
	if m.status != "" {
		segments = append(segments, m.theme.Status.Render(m.status))
	}
	if m.location != "" {
		segments = append(segments, m.theme.Status.Render(m.location))
	}
	return strings.Join(segments, " │ ")
}
