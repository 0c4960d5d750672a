// Package layout provides the main layout component.
package layout

import (
	"github.com/charmbracelet/lipgloss"
)

// Props defines the properties for the layout component.
type Props struct {
	Sidebar string
	Main    string
	Footer  string
}

// Render joins the sidebar and main area side by side, with the footer
// underneath. A collapsed sidebar passes through as the empty string.
func Render(p Props) string {
	content := p.Main
	if p.Sidebar != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, p.Sidebar, p.Main)
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, p.Footer)
}
