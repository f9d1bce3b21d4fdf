package preview

import "github.com/charmbracelet/lipgloss"

const (
	colorText     lipgloss.Color = "#e5e7eb"
	colorMuted    lipgloss.Color = "#9ca3af"
	colorSubtle   lipgloss.Color = "#4b5563"
	colorAccent   lipgloss.Color = "#14b8a6"
	colorFocus    lipgloss.Color = "#a5b4fc"
	colorSuccess  lipgloss.Color = "#86efac"
	colorError    lipgloss.Color = "#fca5a5"
	colorProgress lipgloss.Color = "#fde68a"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	focusStyle   = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(colorProgress)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)
	activePaneStyle = paneStyle.BorderForeground(colorFocus)
)

// layerStyle draws a layer box in the layer's own color when active
func layerStyle(color string, active bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		Padding(0, 1).
		Width(44)
	if active {
		s = s.BorderForeground(lipgloss.Color(color)).Bold(true)
	}
	return s
}
