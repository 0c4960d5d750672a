// Package mainview provides the main content area component.
package mainview

import (
	"github.com/charmbracelet/lipgloss"
)

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

// Props defines the properties for the main view component.
type Props struct {
	Width  int
	Height int
	Status string
	Error  string
	Body   string
}

// Render renders the main view component: a status line, an optional
// error banner, and the body.
func Render(p Props) string {
	mainStyle := lipgloss.NewStyle().
		Width(p.Width).
		Height(p.Height).
		PaddingLeft(1)

	lines := make([]string, 0, 3)
	if p.Status != "" {
		lines = append(lines, p.Status)
	}
	if p.Error != "" {
		lines = append(lines, errStyle.Render("Error: "+p.Error))
	}
	if p.Body != "" {
		lines = append(lines, p.Body)
	}
	return mainStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
