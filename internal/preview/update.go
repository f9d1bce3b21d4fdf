package preview

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/cogstack/cogstack-api/internal/models"
)

// Update handles key presses and controller events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		// Events can trail submitDoneMsg, so render the controller's current state
		m.applySnapshot(m.controller.Snapshot())
		return m, m.listen()

	case submitDoneMsg:
		if errors.Is(msg.err, contact.ErrSubmissionInFlight) {
			// another submit owns cancelSubmit
			return m, nil
		}
		if m.cancelSubmit != nil {
			m.cancelSubmit()
			m.cancelSubmit = nil
		}
		m.submitting = false
		m.applySnapshot(m.controller.Snapshot())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, forceQuit):
			if m.cancelSubmit != nil {
				m.cancelSubmit()
			}
			return m, tea.Quit
		case key.Matches(msg, stackKeys.Switch):
			if m.pane == paneStack {
				m.pane = paneForm
			} else {
				m.pane = paneStack
			}
			return m, nil
		}
		if m.pane == paneStack {
			return m.updateStack(msg)
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m Model) updateStack(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, stackKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, stackKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		_ = m.selection.Select(m.layers[m.cursor].ID)
	case key.Matches(msg, stackKeys.Down):
		if m.cursor < len(m.layers)-1 {
			m.cursor++
		}
		_ = m.selection.Select(m.layers[m.cursor].ID)
	case key.Matches(msg, stackKeys.Select):
		_ = m.selection.Select(m.layers[m.cursor].ID)
	case key.Matches(msg, stackKeys.Clear):
		m.selection.Clear()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Up):
		if m.focus > 0 {
			m.focus--
		}
		return m, nil
	case key.Matches(msg, formKeys.Down):
		if m.focus < len(formFields)-1 {
			m.focus++
		}
		return m, nil
	case key.Matches(msg, formKeys.Cancel):
		if m.cancelSubmit != nil {
			m.cancelSubmit()
		}
		return m, nil
	case key.Matches(msg, formKeys.Reset):
		if err := m.controller.Reset(); err == nil {
			m.applySnapshot(m.controller.Snapshot())
		}
		return m, nil
	case key.Matches(msg, formKeys.Submit):
		return m.submit()
	}

	switch msg.Type {
	case tea.KeyBackspace:
		field := formFields[m.focus]
		if v := []rune(m.fieldValue(field)); len(v) > 0 {
			m.edit(field, string(v[:len(v)-1]))
		}
		return m, nil
	case tea.KeySpace:
		field := formFields[m.focus]
		m.edit(field, m.fieldValue(field)+" ")
		return m, nil
	case tea.KeyRunes:
		field := formFields[m.focus]
		m.edit(field, m.fieldValue(field)+string(msg.Runes))
		return m, nil
	}
	return m, nil
}

// edit updates a field and re-validates it once the user has touched it
func (m *Model) edit(field, value string) {
	m.setFieldValue(field, value)
	m.touched[field] = true

	fe, invalid, err := contact.ValidateField(contact.Normalize(m.form), field)
	if err != nil {
		return
	}
	errs := models.ValidationResult{}
	for k, v := range m.errors {
		errs[k] = v
	}
	if invalid {
		errs[field] = fe
	} else {
		delete(errs, field)
	}
	m.errors = errs
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.sending() {
		return m, nil
	}

	candidate := contact.Normalize(m.form)
	m.errors = contact.Validate(candidate)
	for _, field := range formFields {
		m.touched[field] = true
	}
	if !m.errors.Valid() {
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelSubmit = cancel
	m.submitting = true
	controller := m.controller
	return m, func() tea.Msg {
		return submitDoneMsg{err: controller.Submit(ctx, candidate)}
	}
}

// sending is true from the moment a submit cmd is issued, before the
// controller reports Submitting
func (m Model) sending() bool {
	return m.submitting || m.snap.SubmitDisabled()
}

// applySnapshot reacts to state changes only, so repeated snapshots are harmless
func (m *Model) applySnapshot(s contact.Snapshot) {
	prev := m.snap.State
	m.snap = s
	if s.State == prev {
		return
	}

	switch s.State {
	case contact.StateSucceeded:
		m.form = models.ContactSubmission{}
		m.errors = models.ValidationResult{}
		m.touched = map[string]bool{}
		m.focus = 0
	case contact.StateFailed, contact.StateIdle:
		if s.Working != nil {
			m.form = *s.Working
		}
	}
}
