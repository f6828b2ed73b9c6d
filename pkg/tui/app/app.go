// Package app is the root Bubble Tea model of the signup form. It composes
// the form, the notification toast, the help overlay and the footer, and
// routes submissions through a submission.Controller.
package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/waitlist/pkg/submission"
	"tableflip.dev/waitlist/pkg/tui/components/footer"
	"tableflip.dev/waitlist/pkg/tui/components/help"
	"tableflip.dev/waitlist/pkg/tui/components/signup"
	"tableflip.dev/waitlist/pkg/tui/components/toast"
	"tableflip.dev/waitlist/pkg/tui/events"
	"tableflip.dev/waitlist/pkg/tui/theme"
)

const (
	DefaultTitle   = "Waitlist"
	DefaultTagline = "Join the waitlist and hear from us first when we launch."
)

// Options tune the screen around the controller.
type Options struct {
	Title   string
	Tagline string
	// Location is shown in the footer, usually Store.Location().
	Location string
	// TickInterval is the toast countdown step.
	TickInterval time.Duration
	Logger       *slog.Logger
}

// Model is the root model.
type Model struct {
	ctx  context.Context
	ctrl *submission.Controller
	opts Options
	log  *slog.Logger

	theme  theme.Theme
	form   *signup.Model
	toast  *toast.Model
	help   *help.Model
	footer footer.Model

	// submitting covers the gap between SubmitMsg and the controller
	// switching to InFlight.
	submitting bool
	showHelp   bool
	width      int
	height     int
}

// New builds the root model around ctrl.
func New(ctx context.Context, ctrl *submission.Controller, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Tagline == "" {
		opts.Tagline = DefaultTagline
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	th := theme.Default()
	m := &Model{
		ctx:    ctx,
		ctrl:   ctrl,
		opts:   opts,
		log:    logger,
		theme:  th,
		form:   signup.New(ctrl.Form().Fields(), th.Form),
		toast:  toast.New(th.Toast, opts.TickInterval),
		footer: footer.New(th.Footer),
	}
	m.form.Sync(ctrl.Fields())
	m.footer.SetLocation(opts.Location)
	m.footer.SetStatus(ctrl.Status().String())
	return m
}

// Run launches the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, ctrl *submission.Controller, opts Options) error {
	m := New(ctx, ctrl, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	m.toast.SetSender(p.Send)

	box := newMailbox()
	go box.pump(p.Send)
	cancel := ctrl.Subscribe(box.put)

	defer func() {
		cancel()
		box.close()
		m.toast.Close()
	}()

	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m *Model) submitCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		n, ok := ctrl.Submit(ctx)
		return events.SubmitResultMsg{Notification: n, Accepted: ok}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout()
		return m, nil

	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(v); handled {
			return m, cmd
		}

	case signup.FieldChangedMsg:
		m.ctrl.UpdateField(v.Name, v.Value)
		return m, nil

	case signup.SubmitMsg:
		if m.submitting || m.ctrl.InFlight() {
			m.log.Debug("submit ignored", "reason", "in flight")
			return m, nil
		}
		m.submitting = true
		m.footer.SetStatus(submission.InFlight.String())
		return m, tea.Batch(m.form.SetInFlight(true), m.submitCmd())

	case events.SubmitResultMsg:
		m.log.Debug("submit finished", "result", v.Describe())
		m.submitting = false
		cmds = append(cmds, m.refresh())
		if v.Accepted {
			cmds = append(cmds, events.ShowNotificationCmd(v.Notification))
		}
		return m, tea.Batch(cmds...)

	case events.SnapshotMsg:
		m.log.Debug("controller changed", "snapshot", v.Describe())
		return m, m.refresh()

	case events.ToastTickMsg, events.ShowNotificationMsg:
		m.toast, _ = m.toast.Update(v)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(v)
		return m, cmd
	}

	if !m.showHelp {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// refresh pulls current controller state into the form and footer. The
// controller is the source of truth; snapshots may arrive out of order with
// submit results.
func (m *Model) refresh() tea.Cmd {
	inFlight := m.submitting || m.ctrl.InFlight()
	if !m.submitting {
		m.footer.SetStatus(m.ctrl.Status().String())
	}
	if !inFlight {
		m.form.Sync(m.ctrl.Fields())
	}
	return m.form.SetInFlight(inFlight)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.toast.Close()
		return tea.Quit, true
	case "f1":
		m.toggleHelp()
		return nil, true
	case "?":
		if m.showHelp || m.form.Focused() == len(m.ctrl.Form().Fields()) {
			m.toggleHelp()
			return nil, true
		}
	case "esc":
		if m.showHelp {
			m.toggleHelp()
			return nil, true
		}
		if m.toast.Visible() {
			m.toast.Close()
			return nil, true
		}
	}
	if m.showHelp {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (m *Model) toggleHelp() {
	m.showHelp = !m.showHelp
	if m.showHelp {
		if m.help == nil {
			m.help = help.New(m.helpSize())
		}
		m.footer.SetMode(footer.ModeHelp)
		return
	}
	m.footer.SetMode(footer.ModeForm)
}

func (m *Model) helpSize() (int, int) {
	return max(m.width-4, 1), max(m.height-3, 1)
}

func (m *Model) layout() {
	w := min(max(m.width-8, 1), 64)
	m.toast.SetWidth(w)
	if m.help != nil {
		m.help.SetSize(m.helpSize())
	}
}

// Toast exposes the notification component, mainly for tests.
func (m *Model) Toast() *toast.Model { return m.toast }

// Form exposes the signup component, mainly for tests.
func (m *Model) Form() *signup.Model { return m.form }

// View implements tea.Model.
func (m *Model) View() string {
	if m.showHelp && m.help != nil {
		return lipgloss.JoinVertical(lipgloss.Left, m.help.View(), m.footer.View())
	}

	panel := m.theme.Panel
	header := lipgloss.JoinVertical(lipgloss.Left,
		panel.Title.Render(m.opts.Title),
		panel.Subtitle.Render(m.opts.Tagline),
		"",
	)
	body := panel.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, header, m.form.View()))

	sections := []string{body}
	if t := m.toast.View(); t != "" {
		sections = append(sections, t)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, max(m.height-1, 1), lipgloss.Center, lipgloss.Center, content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, m.footer.View())
}
