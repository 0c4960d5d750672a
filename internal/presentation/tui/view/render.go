// Package view orchestrates the composition of UI components.
package view

import (
	"github.com/mlag/feedra/internal/presentation/tui/components/layout"
	mainview "github.com/mlag/feedra/internal/presentation/tui/components/main"
	"github.com/mlag/feedra/internal/presentation/tui/components/modal"
	"github.com/mlag/feedra/internal/presentation/tui/components/sidebar"
)

// Props aggregates properties for all UI components.
type Props struct {
	Sidebar sidebar.Props
	Main    mainview.Props
	Modal   modal.Props
	Footer  string
}

// Render renders the complete UI view based on the provided props.
func Render(p Props) string {
	if p.Modal.Visible {
		return modal.Render(p.Modal)
	}

	layoutProps := layout.Props{
		Sidebar: sidebar.Render(p.Sidebar),
		Main:    mainview.Render(p.Main),
		Footer:  p.Footer,
	}

	return layout.Render(layoutProps)
}
