package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/waitlist/pkg/notify"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Panel  PanelTheme
	Form   FormTheme
	Toast  ToastTheme
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Key    lipgloss.Style
}

// PanelTheme styles framed panels and headings.
type PanelTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
}

// FormTheme styles the signup inputs and submit control.
type FormTheme struct {
	Label          lipgloss.Style
	FocusedLabel   lipgloss.Style
	Error          lipgloss.Style
	Button         lipgloss.Style
	FocusedButton  lipgloss.Style
	DisabledButton lipgloss.Style
}

// ToastTheme styles the notification box. Accents are keyed by severity.
type ToastTheme struct {
	Frame   lipgloss.Style
	Message lipgloss.Style
	Accents map[notify.Severity]lipgloss.Style
}

// Accent returns the style for severity s.
func (t ToastTheme) Accent(s notify.Severity) lipgloss.Style {
	if st, ok := t.Accents[s]; ok {
		return st
	}
	return t.Message
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	button := lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("238"))

	accents := make(map[notify.Severity]lipgloss.Style)
	for _, s := range []notify.Severity{notify.Success, notify.Error, notify.Warning, notify.Info} {
		accents[s] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(notify.TreatmentFor(s).Color)).
			Bold(true)
	}

	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Key:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
			Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Body:     lipgloss.NewStyle(),
		},
		Form: FormTheme{
			Label:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			FocusedLabel:   lipgloss.NewStyle().Foreground(accent).Bold(true),
			Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
			Button:         button,
			FocusedButton:  button.Background(accent).Foreground(lipgloss.Color("0")).Bold(true),
			DisabledButton: button.Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")),
		},
		Toast: ToastTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Message: lipgloss.NewStyle(),
			Accents: accents,
		},
	}
}
