// Package signup renders the waitlist form: one text input per declared field
// and a submit button that is disabled while a submission is in flight.
package signup

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/waitlist/pkg/record"
	"tableflip.dev/waitlist/pkg/tui/theme"
)

const (
	SubmitLabel = "Join Waitlist"
	BusyLabel   = "Adding..."
)

// FieldChangedMsg is emitted when the user edits a field.
type FieldChangedMsg struct {
	Name  string
	Value string
}

// SubmitMsg is emitted when the user activates the submit button on a form
// that passed validation.
type SubmitMsg struct{}

// Model is the signup form.
type Model struct {
	theme  theme.FormTheme
	fields []record.Field
	inputs []textinput.Model

	// focus indexes inputs; len(inputs) is the submit button.
	focus    int
	inFlight bool
	spinner  spinner.Model
	errMsg   string
}

// New builds a form for fields with the first input focused.
func New(fields []record.Field, th theme.FormTheme) *Model {
	if len(fields) == 0 {
		fields = record.DefaultFields()
	}
	m := &Model{
		theme:  th,
		fields: append([]record.Field(nil), fields...),
	}
	for _, f := range m.fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.CharLimit = 256
		ti.Prompt = "> "
		m.inputs = append(m.inputs, ti)
	}
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	return m
}

// Init focuses the first input.
func (m *Model) Init() tea.Cmd {
	return m.setFocus(0)
}

// Focused returns the focused position; len(fields) means the button.
func (m *Model) Focused() int { return m.focus }

// InFlight reports whether the submit control is disabled.
func (m *Model) InFlight() bool { return m.inFlight }

// Error is the inline validation message, if any.
func (m *Model) Error() string { return m.errMsg }

// Value returns the current text of field name.
func (m *Model) Value(name string) string {
	for i, f := range m.fields {
		if f.Name == name {
			return m.inputs[i].Value()
		}
	}
	return ""
}

// SetInFlight toggles the busy state. Entering it starts the spinner.
func (m *Model) SetInFlight(v bool) tea.Cmd {
	if m.inFlight == v {
		return nil
	}
	m.inFlight = v
	if v {
		return m.spinner.Tick
	}
	return nil
}

// Sync overwrites input values that differ from values, as happens when the
// controller resets the form after a successful signup.
func (m *Model) Sync(values map[string]string) {
	for i, f := range m.fields {
		v, ok := values[f.Name]
		if !ok || m.inputs[i].Value() == v {
			continue
		}
		m.inputs[i].SetValue(v)
		m.inputs[i].CursorEnd()
	}
}

func (m *Model) form() record.FormState {
	fs := record.NewFormState(m.fields...)
	for i, f := range m.fields {
		fs.Set(f.Name, m.inputs[i].Value())
	}
	return fs
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs) + 1
	m.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
			continue
		}
		m.inputs[j].Blur()
	}
	return cmd
}

func (m *Model) submit() tea.Cmd {
	if m.inFlight {
		return nil
	}
	if err := m.form().Validate(); err != nil {
		m.errMsg = m.describe(err)
		return nil
	}
	m.errMsg = ""
	return func() tea.Msg { return SubmitMsg{} }
}

func (m *Model) describe(err error) string {
	var verr *record.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	labels := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		labels[f.Name] = f.Placeholder
	}
	var parts []string
	if len(verr.Missing) > 0 {
		names := make([]string, 0, len(verr.Missing))
		for _, n := range verr.Missing {
			names = append(names, labels[n])
		}
		parts = append(parts, "Please fill in "+strings.Join(names, " and ")+".")
	}
	for _, n := range verr.Invalid {
		parts = append(parts, labels[n]+" is not a valid address.")
	}
	return strings.Join(parts, " ")
}

// Update handles navigation, editing and submission keys.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch v := msg.(type) {
	case spinner.TickMsg:
		if !m.inFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(v)
		return m, cmd
	case tea.KeyPressMsg:
		switch v.String() {
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			if m.focus < len(m.inputs)-1 {
				return m, m.setFocus(m.focus + 1)
			}
			return m, m.submit()
		}
		if m.focus >= len(m.inputs) {
			return m, nil
		}
		before := m.inputs[m.focus].Value()
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(v)
		after := m.inputs[m.focus].Value()
		if before == after {
			return m, cmd
		}
		m.errMsg = ""
		name := m.fields[m.focus].Name
		changed := func() tea.Msg { return FieldChangedMsg{Name: name, Value: after} }
		return m, tea.Batch(cmd, changed)
	}

	if m.focus < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders labels, inputs, the inline error and the submit button.
func (m *Model) View() string {
	var rows []string
	for i, f := range m.fields {
		label := m.theme.Label
		if i == m.focus {
			label = m.theme.FocusedLabel
		}
		rows = append(rows, label.Render(f.Placeholder), m.inputs[i].View(), "")
	}
	if strings.TrimSpace(m.errMsg) != "" {
		rows = append(rows, m.theme.Error.Render(m.errMsg), "")
	}
	rows = append(rows, m.button())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) button() string {
	switch {
	case m.inFlight:
		return m.theme.DisabledButton.Render(m.spinner.View() + " " + BusyLabel)
	case m.focus == len(m.inputs):
		return m.theme.FocusedButton.Render(SubmitLabel)
	default:
		return m.theme.Button.Render(SubmitLabel)
	}
}
