package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/record"
	"tableflip.dev/waitlist/pkg/store"
	"tableflip.dev/waitlist/pkg/submission"
	"tableflip.dev/waitlist/pkg/tui/components/signup"
	"tableflip.dev/waitlist/pkg/tui/events"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;:]*[A-Za-z~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

type failingStore struct{}

func (failingStore) Exists(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (failingStore) Insert(context.Context, string, map[string]string) (record.ID, error) {
	return "", errors.New("permission denied")
}

// run feeds msg through Update and follows the resulting commands, skipping
// anything that does not answer quickly (cursor blinks, spinner ticks).
func run(m *Model, msg tea.Msg) {
	_, cmd := m.Update(msg)
	for _, next := range drain(cmd) {
		switch next.(type) {
		case events.SubmitResultMsg, events.ShowNotificationMsg, signup.SubmitMsg, signup.FieldChangedMsg:
			run(m, next)
		}
	}
}

func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(200 * time.Millisecond):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func newModel(t *testing.T, s store.RecordStore) (*Model, *submission.Controller) {
	t.Helper()
	ctrl := submission.New(s)
	m := New(context.Background(), ctrl, Options{Location: "memory"})
	t.Cleanup(m.Toast().Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m, ctrl
}

func fill(m *Model, name, email string) {
	run(m, signup.FieldChangedMsg{Name: record.FieldFullName, Value: name})
	run(m, signup.FieldChangedMsg{Name: record.FieldEmail, Value: email})
	m.Form().Sync(map[string]string{record.FieldFullName: name, record.FieldEmail: email})
}

func TestSubmitSuccessShowsToastAndResetsForm(t *testing.T) {
	mem := store.NewMemory()
	m, ctrl := newModel(t, mem)
	fill(m, "Ada Lovelace", "ada@example.com")

	run(m, signup.SubmitMsg{})

	if !m.Toast().Visible() {
		t.Fatalf("expected a notification")
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, submission.MessageSuccess) {
		t.Fatalf("view missing success message:\n%s", view)
	}
	if got := m.Form().Value(record.FieldEmail); got != "" {
		t.Fatalf("form not reset, email = %q", got)
	}
	if ctrl.InFlight() || m.Form().InFlight() {
		t.Fatalf("expected idle after submit")
	}
	list, _ := mem.List(context.Background(), submission.DefaultCollection)
	if len(list) != 1 {
		t.Fatalf("stored %d records, want 1", len(list))
	}
}

func TestSubmitFailureKeepsInput(t *testing.T) {
	m, _ := newModel(t, failingStore{})
	fill(m, "Ada Lovelace", "ada@example.com")

	run(m, signup.SubmitMsg{})

	view := stripANSI(m.View())
	if !strings.Contains(view, submission.MessageFailure) {
		t.Fatalf("view missing failure message:\n%s", view)
	}
	if got := m.Form().Value(record.FieldFullName); got != "Ada Lovelace" {
		t.Fatalf("form should keep input, full name = %q", got)
	}
}

type gatedStore struct {
	store.RecordStore
	release chan struct{}
}

func (g gatedStore) Insert(ctx context.Context, collection string, rec map[string]string) (record.ID, error) {
	<-g.release
	return g.RecordStore.Insert(ctx, collection, rec)
}

func TestSubmitWhileInFlightIsIgnored(t *testing.T) {
	gate := gatedStore{RecordStore: store.NewMemory(), release: make(chan struct{})}
	m, ctrl := newModel(t, gate)
	fill(m, "Ada Lovelace", "ada@example.com")

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Submit(context.Background())
	}()
	deadline := time.Now().Add(2 * time.Second)
	for !ctrl.InFlight() {
		if time.Now().After(deadline) {
			t.Fatal("controller never went in flight")
		}
		time.Sleep(time.Millisecond)
	}

	if _, cmd := m.Update(signup.SubmitMsg{}); cmd != nil {
		t.Fatalf("submit while in flight should be a no-op")
	}
	close(gate.release)
	<-done
}

func TestSubmitBeforeControllerStartsIsIgnored(t *testing.T) {
	m, ctrl := newModel(t, store.NewMemory())
	fill(m, "Ada Lovelace", "ada@example.com")

	// The first submit command has been issued but not yet run.
	if _, cmd := m.Update(signup.SubmitMsg{}); cmd == nil {
		t.Fatalf("first submit should issue a command")
	}
	if ctrl.InFlight() {
		t.Fatalf("controller should still be idle")
	}
	if _, cmd := m.Update(signup.SubmitMsg{}); cmd != nil {
		t.Fatalf("second submit should be a no-op while the first is pending")
	}
}

func TestSubmitResultShowsNotificationThroughCommand(t *testing.T) {
	m, _ := newModel(t, store.NewMemory())
	n := notify.New(submission.MessageSuccess, notify.Success, 0, time.Now())

	_, cmd := m.Update(events.SubmitResultMsg{Notification: n, Accepted: true})
	if m.Toast().Visible() {
		t.Fatalf("toast should wait for the show message")
	}
	var shown bool
	for _, msg := range drain(cmd) {
		if v, ok := msg.(events.ShowNotificationMsg); ok {
			shown = v.Notification.Message == n.Message
			m.Update(v)
		}
	}
	if !shown {
		t.Fatalf("result did not produce a show message")
	}
	if !m.Toast().Visible() {
		t.Fatalf("expected a notification after the show message")
	}

	_, cmd = m.Update(events.SubmitResultMsg{Accepted: false})
	for _, msg := range drain(cmd) {
		if _, ok := msg.(events.ShowNotificationMsg); ok {
			t.Fatalf("ignored submit should not show a notification")
		}
	}
}

func TestEscDismissesToast(t *testing.T) {
	m, _ := newModel(t, store.NewMemory())
	fill(m, "Ada Lovelace", "ada@example.com")
	run(m, signup.SubmitMsg{})
	if !m.Toast().Visible() {
		t.Fatalf("expected a notification")
	}
	run(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.Toast().Visible() {
		t.Fatalf("esc should dismiss the notification")
	}
}

func TestStaleTickAfterReplacementIgnored(t *testing.T) {
	m, _ := newModel(t, store.NewMemory())
	fill(m, "Ada Lovelace", "ada@example.com")
	run(m, signup.SubmitMsg{})
	first := m.Toast().TimerID()

	fill(m, "Grace Hopper", "grace@example.com")
	run(m, signup.SubmitMsg{})
	if m.Toast().TimerID() == first {
		t.Fatalf("second notification should replace the first")
	}

	run(m, events.ToastTickMsg{TimerID: first})
	if !m.Toast().Visible() {
		t.Fatalf("tick from the replaced timer hid the toast")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newModel(t, store.NewMemory())
	run(m, tea.KeyPressMsg{Code: tea.KeyF1})
	if !m.showHelp {
		t.Fatalf("f1 should open help")
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "esc") {
		t.Fatalf("help footer missing:\n%s", view)
	}
	run(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.showHelp {
		t.Fatalf("esc should close help")
	}
}

func TestQuestionMarkTypesIntoField(t *testing.T) {
	m, _ := newModel(t, store.NewMemory())
	run(m, tea.KeyPressMsg{Text: "?", Code: '?'})
	if m.showHelp {
		t.Fatalf("? in a field should not open help")
	}
}

func TestViewShowsTitleAndLocation(t *testing.T) {
	m, _ := newModel(t, store.NewMemory())
	view := stripANSI(m.View())
	for _, want := range []string{DefaultTitle, "Full Name", "Your Email", signup.SubmitLabel, "memory"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestMailboxKeepsNewest(t *testing.T) {
	b := newMailbox()
	b.put(submission.Snapshot{Status: submission.InFlight})
	b.put(submission.Snapshot{Status: submission.Idle})

	got := make(chan tea.Msg, 4)
	go b.pump(func(msg tea.Msg) { got <- msg })
	defer b.close()

	select {
	case msg := <-got:
		snap := msg.(events.SnapshotMsg).Snapshot
		if snap.Status != submission.Idle {
			t.Fatalf("status = %s, want idle", snap.Status)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}
