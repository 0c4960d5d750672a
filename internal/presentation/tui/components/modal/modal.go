// Package modal provides modal dialog components.
package modal

import (
	"github.com/charmbracelet/lipgloss"
)

// Kind represents the type of modal.
type Kind int

const (
	// None indicates no modal.
	None Kind = iota
	// AddFeed shows the add feed dialog.
	AddFeed
	// AddFolder shows the add folder dialog.
	AddFolder
	// RenameFolder shows the rename folder dialog.
	RenameFolder
	// MoveFeed shows the move feed dialog.
	MoveFeed
	// ConfirmDelete shows a delete confirmation.
	ConfirmDelete
	// Quit shows the quit confirmation.
	Quit
	// Help shows the help dialog.
	Help
)

// Props defines the properties for the modal component.
type Props struct {
	Visible bool
	Kind    Kind
	Title   string
	Body    string
	Error   string
	Width   int
	Height  int
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Render renders the modal centered in the window.
func Render(p Props) string {
	if !p.Visible {
		return ""
	}

	borderColor := lipgloss.Color("63")
	if p.Kind != Help {
		borderColor = lipgloss.Color("205")
	}

	body := p.Body
	if p.Title != "" {
		body = titleStyle.Render(p.Title) + "\n\n" + body
	}
	if p.Error != "" {
		body += "\n\n" + errStyle.Render(p.Error)
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2)
	if p.Kind != Help {
		style = style.Width(48)
	}

	return lipgloss.Place(p.Width, p.Height, lipgloss.Center, lipgloss.Center, style.Render(body))
}
