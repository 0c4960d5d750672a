// Package tui provides the main user interface model and view components.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/mlag/feedra/internal/domain/feed"
	main_view "github.com/mlag/feedra/internal/presentation/tui/components/main"
	"github.com/mlag/feedra/internal/presentation/tui/components/modal"
	"github.com/mlag/feedra/internal/presentation/tui/components/sidebar"
	"github.com/mlag/feedra/internal/presentation/tui/view"
	"github.com/mlag/feedra/internal/state"
)

func (m *Model) buildProps() view.Props {
	return view.Props{
		Sidebar: m.buildSidebarProps(),
		Main:    m.buildMainProps(),
		Modal:   m.buildModalProps(),
		Footer:  m.help.View(&m.keys),
	}
}

func (m *Model) buildSidebarProps() sidebar.Props {
	return sidebar.Props{
		View:      m.sidebar.View(),
		Width:     m.sidebar.Width(),
		Height:    m.sidebar.Height(),
		Active:    m.focus == focusSidebar,
		Collapsed: m.snapshot.SidebarCollapsed,
		Title:     "Feedra",
	}
}

func (m *Model) buildMainProps() main_view.Props {
	var body string
	switch {
	case m.snapshot.SettingsOpen:
		body = m.buildSettingsBody()
	case m.loading():
		body = fmt.Sprintf("\n\n   %s Loading...", m.spinner.View())
	case m.focus == focusDetail && m.snapshot.SelectedArticle != nil:
		body = m.viewport.View()
	default:
		body = m.articles.View()
	}

	return main_view.Props{
		Width:  m.articles.Width(),
		Height: m.articles.Height() + statusLines,
		Status: m.buildStatusLine(),
		Error:  m.snapshot.Err,
		Body:   body,
	}
}

// buildStatusLine shows the current scope and the list preferences.
func (m *Model) buildStatusLine() string {
	if m.snapshot.SettingsOpen {
		return "Settings"
	}

	scope := "All Articles"
	switch m.snapshot.SelectedFeedID {
	case feed.AllArticlesID:
	case "":
		scope = "No selection"
	default:
		if f, ok := m.snapshot.FeedByID(m.snapshot.SelectedFeedID); ok {
			scope = f.Title
		} else {
			scope = "Unknown feed"
		}
	}

	parts := []string{scope, string(m.snapshot.FilterOption), string(m.snapshot.SortOption)}
	if m.searching {
		parts = append(parts, "search: "+m.searchInput.View())
	} else if m.query != "" {
		parts = append(parts, "search: "+m.query)
	}
	return ansi.Truncate(strings.Join(parts, " | "), clampMin(m.articles.Width()-itemSafetyPadding, 0), "...")
}

func (m *Model) buildSettingsBody() string {
	if m.settingsErr != "" && !m.serverSettingsOK {
		return fmt.Sprintf("Failed to load settings: %s\n\n(esc to close)", m.settingsErr)
	}
	s := m.serverSettings
	cleanup := "off"
	if s.AutoCleanupEnabled {
		cleanup = "on"
	}
	b := fmt.Sprintf(
		"Refresh interval: %d min  (+/- to change)\nAuto cleanup: %s  (c to toggle)\nCleanup after: %d days  (d/D to change)\n\n(esc to close)",
		s.RefreshIntervalMinutes, cleanup, s.AutoCleanupDays,
	)
	if m.settingsErr != "" {
		b += "\n\nError: " + m.settingsErr
	}
	return b
}

func (m *Model) buildModalProps() modal.Props {
	switch {
	case m.quitConfirm:
		return modal.Props{
			Visible: true,
			Kind:    modal.Quit,
			Body:    "Are you sure you want to quit?\n\n(y/n)",
			Width:   m.width,
			Height:  m.height,
		}
	case m.confirm.active:
		noun := "feed"
		if m.confirm.isFolder {
			noun = "folder (its feeds are kept)"
		}
		return modal.Props{
			Visible: true,
			Kind:    modal.ConfirmDelete,
			Body:    fmt.Sprintf("Delete %s %q?\n\n(y/n)", noun, m.confirm.name),
			Width:   m.width,
			Height:  m.height,
		}
	case m.help.ShowAll:
		return modal.Props{
			Visible: true,
			Kind:    modal.Help,
			Body:    m.help.View(&m.keys),
			Width:   m.width,
			Height:  m.height,
		}
	}

	switch m.snapshot.Modal.Kind {
	case state.ModalAddFeed:
		return modal.Props{
			Visible: true,
			Kind:    modal.AddFeed,
			Title:   "Add feed",
			Body: fmt.Sprintf(
				"URL:\n%s\n\nName (optional):\n%s\n\n(tab to switch, enter to add, esc to cancel)",
				m.urlInput.View(), m.nameInput.View(),
			),
			Error:  m.snapshot.Err,
			Width:  m.width,
			Height: m.height,
		}
	case state.ModalAddFolder:
		return modal.Props{
			Visible: true,
			Kind:    modal.AddFolder,
			Title:   "Add folder",
			Body:    fmt.Sprintf("Name:\n%s\n\n(enter to add, esc to cancel)", m.nameInput.View()),
			Error:   m.snapshot.Err,
			Width:   m.width,
			Height:  m.height,
		}
	case state.ModalRenameFolder:
		return modal.Props{
			Visible: true,
			Kind:    modal.RenameFolder,
			Title:   fmt.Sprintf("Rename %q", m.snapshot.Modal.Folder.Name),
			Body:    fmt.Sprintf("New name:\n%s\n\n(enter to rename, esc to cancel)", m.nameInput.View()),
			Error:   m.snapshot.Err,
			Width:   m.width,
			Height:  m.height,
		}
	case state.ModalMoveFeed:
		return modal.Props{
			Visible: true,
			Kind:    modal.MoveFeed,
			Title:   fmt.Sprintf("Move %q", m.snapshot.Modal.Feed.Title),
			Body:    m.buildMoveFeedBody(),
			Error:   m.snapshot.Err,
			Width:   m.width,
			Height:  m.height,
		}
	}
	return modal.Props{Visible: false}
}

func (m *Model) buildMoveFeedBody() string {
	var b strings.Builder
	rows := append([]string{"(no folder)"}, folderNames(m.snapshot.Folders)...)
	for i, row := range rows {
		marker := "  "
		if i == m.moveIndex {
			marker = "> "
		}
		b.WriteString(marker + row + "\n")
	}
	b.WriteString("\n(enter to move, esc to cancel)")
	return b.String()
}

func folderNames(folders []feed.Folder) []string {
	names := make([]string, len(folders))
	for i, f := range folders {
		names[i] = f.Name
	}
	return names
}

// renderArticle builds the detail view text for one article.
func renderArticle(a feed.Article, width int) string {
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	b.WriteString(a.Title + "\n")
	meta := a.FeedTitle
	if a.Author != "" {
		meta += " · " + a.Author
	}
	if !a.PubDate.IsZero() {
		meta += " · " + a.PubDate.Format("Jan 2, 2006 15:04")
	}
	b.WriteString(meta + "\n")
	if a.Link != "" {
		b.WriteString(a.Link + "\n")
	}
	b.WriteString("\n")

	content := singleLine(stripTags(a.Content))
	if content == "" {
		content = singleLine(a.ContentSnippet)
	}
	b.WriteString(ansi.Wrap(content, width, ""))
	return b.String()
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
