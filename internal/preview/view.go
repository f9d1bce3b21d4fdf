package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/cogstack/cogstack-api/internal/models"
)

// View renders the diagram next to the form, stacked when the terminal is narrow
func (m Model) View() string {
	left := m.viewStack()
	right := m.viewForm()

	var body string
	if m.width > 0 && m.width < 100 {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	}

	return body + "\n" + m.helpView() + "\n"
}

func (m Model) viewStack() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("The Cognitive Stack"))
	b.WriteString("\n\n")

	for i, layer := range m.layers {
		active := m.selection.IsActive(layer.ID)
		var content strings.Builder
		name := layer.Name
		if i == m.cursor && m.pane == paneStack {
			name = "> " + name
		}
		content.WriteString(name)
		if active {
			content.WriteString("\n" + mutedStyle.Render(strings.Join(layer.Technologies, " · ")))
			content.WriteString("\n" + textStyle.Render(layer.Description))
		}
		b.WriteString(layerStyle(layer.Color, active).Render(content.String()))
		b.WriteString("\n")
	}

	style := paneStyle
	if m.pane == paneStack {
		style = activePaneStyle
	}
	return style.Render(b.String())
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Get in touch"))
	b.WriteString("\n\n")

	for i, field := range formFields {
		label := fieldLabels[field]
		if field == models.FieldCompany {
			label += mutedStyle.Render(" (optional)")
		}
		if i == m.focus && m.pane == paneForm {
			label = focusStyle.Render("> ") + label
		} else {
			label = "  " + label
		}
		b.WriteString(label + "\n")
		b.WriteString("  " + textStyle.Render(m.fieldValue(field)))
		if i == m.focus && m.pane == paneForm {
			b.WriteString(focusStyle.Render("_"))
		}
		b.WriteString("\n")
		if fe, ok := m.errors[field]; ok && m.touched[field] {
			b.WriteString("  " + errorStyle.Render(fe.Message) + "\n")
		}
	}

	b.WriteString("\n" + m.status())

	style := paneStyle
	if m.pane == paneForm {
		style = activePaneStyle
	}
	return style.Render(b.String())
}

func (m Model) status() string {
	switch m.snap.State {
	case contact.StateSubmitting:
		return pendingStyle.Render("Sending...")
	case contact.StateSucceeded:
		msg := "Message sent! We'll be in touch within 24 hours."
		if m.snap.Receipt != nil {
			msg += "\n" + mutedStyle.Render(fmt.Sprintf("Receipt %s", m.snap.Receipt.ID))
		}
		return successStyle.Render(msg)
	case contact.StateFailed:
		return errorStyle.Render(m.snap.Failure)
	default:
		return mutedStyle.Render("[ Send message ]")
	}
}

func (m Model) helpView() string {
	switch {
	case m.pane == paneStack:
		return m.help.View(stackKeys)
	case m.sending():
		return m.help.View(submittingKeyMap{formKeys})
	default:
		return m.help.View(formKeys)
	}
}
