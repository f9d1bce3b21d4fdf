package preview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/cogstack/cogstack-api/internal/models"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok, "Update returned %T, want Model", next)
	return got, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = apply(t, m, keyMsg(k))
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return m
}

func fillForm(t *testing.T, m Model) Model {
	t.Helper()
	m = press(t, m, "tab")
	m = typeText(t, m, "Jane")
	m = press(t, m, "down")
	m = typeText(t, m, "jane@acme.io")
	m = press(t, m, "down", "down")
	return typeText(t, m, "We need a voice agent.")
}

func newTestModel(t *testing.T, transport contact.Transport) Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, contact.NewController(transport))
}

func okTransport() contact.Transport {
	return contact.TransportFunc(func(ctx context.Context, s models.ContactSubmission) (*models.DeliveryReceipt, error) {
		return &models.DeliveryReceipt{ID: "rcpt-1", Transport: "test"}, nil
	})
}

func TestModel_StackNavigationSelects(t *testing.T) {
	m := newTestModel(t, okTransport())

	m = press(t, m, "down")
	assert.Equal(t, "orchestration", m.Selection().ActiveID())

	m = press(t, m, "down", "down", "down")
	assert.Equal(t, "memory", m.Selection().ActiveID())

	m = press(t, m, "up", "up", "up")
	assert.Equal(t, "edge", m.Selection().ActiveID())

	m = press(t, m, "esc")
	assert.Equal(t, "", m.Selection().ActiveID())
	assert.NotContains(t, m.View(), "Cloudflare")

	m = press(t, m, "enter")
	assert.Contains(t, m.View(), "Cloudflare")
}

func TestModel_LiveValidation(t *testing.T) {
	m := newTestModel(t, okTransport())
	m = press(t, m, "tab", "down")
	m = typeText(t, m, "a@b")

	assert.Equal(t, models.CodeInvalidFormat, m.errors[models.FieldEmail].Code)
	assert.Contains(t, m.View(), "Invalid email format")

	m = typeText(t, m, ".co")
	assert.False(t, m.errors.Has(models.FieldEmail))
	assert.False(t, m.errors.Has(models.FieldName), "untouched fields are not flagged while typing")
}

func TestModel_SubmitInvalidShowsAllErrors(t *testing.T) {
	m := newTestModel(t, okTransport())
	m = press(t, m, "tab")

	m, cmd := apply(t, m, keyMsg("enter"))

	assert.Nil(t, cmd)
	assert.Len(t, m.errors, 3)
	view := m.View()
	assert.Contains(t, view, "Name is required")
	assert.Contains(t, view, "Email is required")
	assert.Contains(t, view, "Message is required")
	assert.Equal(t, contact.StateIdle, m.snap.State)
}

func TestModel_SubmitSuccessClearsForm(t *testing.T) {
	m := newTestModel(t, okTransport())
	m = fillForm(t, m)

	m, cmd := apply(t, m, keyMsg("enter"))
	require.NotNil(t, cmd)
	m, _ = apply(t, m, cmd())

	assert.Equal(t, contact.StateSucceeded, m.snap.State)
	assert.Equal(t, models.ContactSubmission{}, m.form)
	assert.Contains(t, m.View(), "Message sent!")
	assert.Contains(t, m.View(), "rcpt-1")
}

func TestModel_SubmitFailureKeepsForm(t *testing.T) {
	m := newTestModel(t, contact.TransportFunc(func(ctx context.Context, s models.ContactSubmission) (*models.DeliveryReceipt, error) {
		return nil, errors.New("boom")
	}))
	m = fillForm(t, m)

	m, cmd := apply(t, m, keyMsg("enter"))
	m, _ = apply(t, m, cmd())

	assert.Equal(t, contact.StateFailed, m.snap.State)
	assert.Equal(t, "Jane", m.form.Name)
	assert.Contains(t, m.View(), "Failed to send message")

	m = press(t, m, "ctrl+r")
	assert.Equal(t, contact.StateIdle, m.snap.State)
	assert.Equal(t, "Jane", m.form.Name)
}

func TestModel_EnterIgnoredWhileSubmitting(t *testing.T) {
	m := newTestModel(t, okTransport())
	m = fillForm(t, m)
	m.snap = contact.Snapshot{State: contact.StateSubmitting}

	_, cmd := apply(t, m, keyMsg("enter"))

	assert.Nil(t, cmd)
	view := m.View()
	assert.Contains(t, view, "Sending...")
	assert.Contains(t, view, "esc cancel")
	assert.NotContains(t, view, "enter send")
}

func TestModel_LettersGoIntoFormFields(t *testing.T) {
	m := newTestModel(t, okTransport())
	m = press(t, m, "tab")
	m = typeText(t, m, "jkq")

	assert.Equal(t, "jkq", m.form.Name)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.View(), "enter send")
}

func TestModel_EscCancelsSubmission(t *testing.T) {
	started := make(chan struct{})
	m := newTestModel(t, contact.TransportFunc(func(ctx context.Context, s models.ContactSubmission) (*models.DeliveryReceipt, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	m = fillForm(t, m)

	m, cmd := apply(t, m, keyMsg("enter"))
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	<-started

	m = press(t, m, "esc")
	m, _ = apply(t, m, <-done)

	assert.Equal(t, contact.StateIdle, m.snap.State)
	assert.Equal(t, "Jane", m.form.Name, "cancelled record stays in the form")
}

func TestModel_SecondEnterBeforeSnapshotKeepsCancel(t *testing.T) {
	started := make(chan struct{})
	m := newTestModel(t, contact.TransportFunc(func(ctx context.Context, s models.ContactSubmission) (*models.DeliveryReceipt, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	m = fillForm(t, m)

	m, cmd := apply(t, m, keyMsg("enter"))
	require.NotNil(t, cmd)
	m, second := apply(t, m, keyMsg("enter"))
	assert.Nil(t, second, "second enter must not start another submit")
	assert.Contains(t, m.View(), "esc cancel")

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	<-started

	m = press(t, m, "esc")
	m, _ = apply(t, m, <-done)

	assert.Equal(t, contact.StateIdle, m.snap.State)
	assert.False(t, m.submitting)
	assert.Nil(t, m.cancelSubmit)
}

func TestModel_InFlightDoneMsgLeavesCancel(t *testing.T) {
	m := newTestModel(t, okTransport())
	cancelled := false
	m.cancelSubmit = func() { cancelled = true }
	m.submitting = true

	m, _ = apply(t, m, submitDoneMsg{err: contact.ErrSubmissionInFlight})

	assert.False(t, cancelled)
	assert.NotNil(t, m.cancelSubmit)
	assert.True(t, m.submitting)
}

func TestModel_ListenDeliversTransitions(t *testing.T) {
	m := newTestModel(t, okTransport())
	m = fillForm(t, m)

	_, cmd := apply(t, m, keyMsg("enter"))
	cmd()

	msg := m.listen()()
	_, ok := msg.(snapshotMsg)
	assert.True(t, ok)
}

func TestModel_Backspace(t *testing.T) {
	m := newTestModel(t, okTransport())
	m = press(t, m, "tab")
	m = typeText(t, m, "Jané")
	m = press(t, m, "backspace", " ")

	assert.Equal(t, "Jan ", m.form.Name)
}

func TestModel_NarrowLayoutStacks(t *testing.T) {
	m := newTestModel(t, okTransport())
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 60, Height: 40})

	view := m.View()
	stackAt := strings.Index(view, "The Cognitive Stack")
	formAt := strings.Index(view, "Get in touch")
	require.True(t, stackAt >= 0 && formAt >= 0)
	assert.Less(t, stackAt, formAt)
}
