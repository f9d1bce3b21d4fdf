// Package preview renders the stack diagram and contact form in a terminal.
package preview

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/cogstack/cogstack-api/internal/models"
	"github.com/cogstack/cogstack-api/internal/stack"
)

type pane int

const (
	paneStack pane = iota
	paneForm
)

// formFields is the focus order of the contact form
var formFields = []string{models.FieldName, models.FieldEmail, models.FieldCompany, models.FieldMessage}

var fieldLabels = map[string]string{
	models.FieldName:    "Name",
	models.FieldEmail:   "Email",
	models.FieldCompany: "Company",
	models.FieldMessage: "Message",
}

// snapshotMsg carries a controller transition into the update loop
type snapshotMsg contact.Snapshot

// submitDoneMsg is sent when Controller.Submit returns
type submitDoneMsg struct {
	err error
}

// Model is the bubbletea model of the preview
type Model struct {
	ctx        context.Context
	selection  *stack.Selection
	controller *contact.Controller
	snapshots  chan contact.Snapshot

	layers []models.Layer
	cursor int
	pane   pane

	form    models.ContactSubmission
	focus   int
	touched map[string]bool
	errors  models.ValidationResult

	snap         contact.Snapshot
	cancelSubmit context.CancelFunc
	submitting   bool
	width        int
	help         help.Model
}

// New builds a preview model. ctx bounds every submission; cancelling it stops the listener.
func New(ctx context.Context, controller *contact.Controller) Model {
	m := Model{
		ctx:        ctx,
		selection:  stack.NewSelection(),
		controller: controller,
		snapshots:  make(chan contact.Snapshot, 8),
		layers:     stack.Layers(),
		touched:    map[string]bool{},
		errors:     models.ValidationResult{},
		snap:       controller.Snapshot(),
		help:       help.New(),
	}

	snapshots := m.snapshots
	controller.Subscribe(func(s contact.Snapshot) {
		select {
		case snapshots <- s:
		case <-ctx.Done():
		}
	})

	return m
}

// Init starts listening for controller transitions
func (m Model) Init() tea.Cmd {
	return m.listen()
}

func (m Model) listen() tea.Cmd {
	snapshots, ctx := m.snapshots, m.ctx
	return func() tea.Msg {
		select {
		case s := <-snapshots:
			return snapshotMsg(s)
		case <-ctx.Done():
			return nil
		}
	}
}

// Selection exposes the diagram selection, mainly for tests
func (m Model) Selection() *stack.Selection {
	return m.selection
}

func (m Model) fieldValue(field string) string {
	switch field {
	case models.FieldName:
		return m.form.Name
	case models.FieldEmail:
		return m.form.Email
	case models.FieldCompany:
		return m.form.Company
	default:
		return m.form.Message
	}
}

func (m *Model) setFieldValue(field, value string) {
	switch field {
	case models.FieldName:
		m.form.Name = value
	case models.FieldEmail:
		m.form.Email = value
	case models.FieldCompany:
		m.form.Company = value
	default:
		m.form.Message = value
	}
}
