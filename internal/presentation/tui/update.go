package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mlag/feedra/internal/domain/feed"
	"github.com/mlag/feedra/internal/state"
)

const (
	statusLines       = 2
	sidebarTitleLines = 2
)

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case stateChangedMsg:
		prevModal := m.snapshot.Modal.Kind
		m.snapshot = m.store.State()
		m.refreshLists()
		if prevModal != state.ModalNone && m.snapshot.Modal.Kind == state.ModalNone {
			m.resetModalInputs()
		}
		m.updateListSizes()
		cmds = append(cmds, m.waitForUpdate())

	case settingsLoadedMsg:
		m.serverSettingsOK = msg.err == nil
		m.serverSettings = msg.settings
		m.settingsErr = ""
		if msg.err != nil {
			m.settingsErr = msg.err.Error()
		}

	case mutationDoneMsg:
		// The store already reflects the outcome; a failure keeps the
		// form open with the error surfaced from state.

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateListSizes()

	case tea.KeyMsg:
		cmd, handled := m.handleKey(msg)
		if handled {
			m.updateListSizes()
			cmds = append(cmds, cmd)
			return m, tea.Batch(cmds...)
		}
	}

	if m.loading() {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.overlayOpen() {
		switch m.focus {
		case focusSidebar:
			m.sidebar, cmd = m.sidebar.Update(msg)
			cmds = append(cmds, cmd)
		case focusArticles:
			m.articles, cmd = m.articles.Update(msg)
			m.skipArticleHeaders(msg)
			cmds = append(cmds, cmd)
		case focusDetail:
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// overlayOpen reports whether a surface above the panes captures keys.
func (m *Model) overlayOpen() bool {
	return m.snapshot.Modal.Kind != state.ModalNone ||
		m.snapshot.SettingsOpen ||
		m.searching ||
		m.confirm.active ||
		m.quitConfirm
}

func (m *Model) loading() bool {
	s := m.snapshot
	return s.LoadingFeeds || s.LoadingFolders || s.LoadingAllArticles || s.LoadingFeedArticles
}

// skipArticleHeaders nudges the cursor off day-header rows.
func (m *Model) skipArticleHeaders(msg tea.Msg) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}
	it, ok := m.articles.SelectedItem().(articleItem)
	if !ok || !it.isHeader() {
		return
	}
	if key.Matches(kmsg, m.keys.Up) && m.articles.Index() > 0 {
		m.articles.CursorUp()
	} else {
		m.articles.CursorDown()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case m.quitConfirm:
		return m.handleQuitConfirmKey(msg), true
	case m.confirm.active:
		return m.handleDeleteConfirmKey(msg), true
	case m.snapshot.Modal.Kind != state.ModalNone:
		return m.handleModalKey(msg)
	case m.searching:
		return m.handleSearchKey(msg)
	case m.snapshot.SettingsOpen:
		return m.handleSettingsKey(msg), true
	}
	return m.handleGlobalKey(msg)
}

func (m *Model) handleQuitConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.orch.Stop()
		m.Close()
		return tea.Quit
	case "n", "N", "esc":
		m.quitConfirm = false
	}
	return nil
}

func (m *Model) handleDeleteConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		target := m.confirm
		m.confirm = confirmTarget{}
		return func() tea.Msg {
			if target.isFolder {
				m.orch.DeleteFolder(context.Background(), target.id)
			} else {
				m.orch.DeleteFeed(context.Background(), target.id)
			}
			return nil
		}
	case "n", "N", "esc":
		m.confirm = confirmTarget{}
	}
	return nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	kind := m.snapshot.Modal.Kind
	if msg.String() == "esc" {
		m.store.Dispatch(state.CloseModal{Kind: kind})
		return nil, true
	}

	switch kind {
	case state.ModalAddFeed:
		return m.handleAddFeedKey(msg), true
	case state.ModalAddFolder:
		if msg.String() == "enter" {
			name := m.nameInput.Value()
			return func() tea.Msg {
				return mutationDoneMsg{err: m.orch.AddFolder(context.Background(), name)}
			}, true
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return cmd, true
	case state.ModalRenameFolder:
		if msg.String() == "enter" {
			folderID := m.snapshot.Modal.Folder.ID
			name := m.nameInput.Value()
			return func() tea.Msg {
				return mutationDoneMsg{err: m.orch.RenameFolder(context.Background(), folderID, name)}
			}, true
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return cmd, true
	case state.ModalMoveFeed:
		return m.handleMoveFeedKey(msg), true
	}
	return nil, true
}

func (m *Model) handleAddFeedKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		m.focusModalField(1 - m.modalField)
		return nil
	case "enter":
		if m.modalField == 0 {
			m.focusModalField(1)
			return nil
		}
		url := m.urlInput.Value()
		title := m.nameInput.Value()
		return func() tea.Msg {
			return mutationDoneMsg{err: m.orch.AddFeed(context.Background(), url, title, nil)}
		}
	}
	var cmd tea.Cmd
	if m.modalField == 0 {
		m.urlInput, cmd = m.urlInput.Update(msg)
	} else {
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return cmd
}

func (m *Model) handleMoveFeedKey(msg tea.KeyMsg) tea.Cmd {
	// Index 0 is "no folder"; folders follow in order.
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.moveIndex > 0 {
			m.moveIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.moveIndex < len(m.snapshot.Folders) {
			m.moveIndex++
		}
	case msg.String() == "enter":
		feedID := m.snapshot.Modal.Feed.ID
		var folderID *string
		if m.moveIndex > 0 {
			folderID = new(m.snapshot.Folders[m.moveIndex-1].ID)
		}
		return func() tea.Msg {
			return mutationDoneMsg{err: m.orch.MoveFeedToFolder(context.Background(), feedID, folderID)}
		}
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.SetValue("")
		m.query = ""
		m.refreshLists()
		return nil, true
	case "enter":
		m.searching = false
		return nil, true
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.query = m.searchInput.Value()
	m.refreshLists()
	return cmd, true
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "esc":
		m.store.Dispatch(state.CloseSettingsView{})
		return nil
	case key.Matches(msg, m.keys.Settings):
		m.store.Dispatch(state.ToggleSettingsView{})
		return nil
	}
	if !m.serverSettingsOK {
		return nil
	}

	switch msg.String() {
	case "+":
		return m.updateRefreshInterval(m.serverSettings.RefreshIntervalMinutes + 5)
	case "-":
		return m.updateRefreshInterval(m.serverSettings.RefreshIntervalMinutes - 5)
	case "c":
		enabled := !m.serverSettings.AutoCleanupEnabled
		return m.applySettings(feed.SettingsUpdate{AutoCleanupEnabled: &enabled})
	case "d":
		days := m.serverSettings.AutoCleanupDays - 5
		if days < 1 {
			days = 1
		}
		return m.applySettings(feed.SettingsUpdate{AutoCleanupDays: &days})
	case "D":
		days := m.serverSettings.AutoCleanupDays + 5
		return m.applySettings(feed.SettingsUpdate{AutoCleanupDays: &days})
	}
	return nil
}

func (m *Model) updateRefreshInterval(minutes int) tea.Cmd {
	if minutes < 1 {
		minutes = 1
	}
	persist := m.PersistRefreshInterval
	return func() tea.Msg {
		s, err := m.orch.UpdateSettings(context.Background(), feed.SettingsUpdate{RefreshIntervalMinutes: &minutes})
		if err != nil {
			return settingsLoadedMsg{settings: m.serverSettings, err: err}
		}
		m.orch.SetRefreshInterval(context.Background(), time.Duration(s.RefreshIntervalMinutes)*time.Minute)
		if persist != nil {
			if perr := persist(s.RefreshIntervalMinutes); perr != nil {
				return settingsLoadedMsg{settings: s, err: perr}
			}
		}
		return settingsLoadedMsg{settings: s}
	}
}

func (m *Model) applySettings(update feed.SettingsUpdate) tea.Cmd {
	return func() tea.Msg {
		s, err := m.orch.UpdateSettings(context.Background(), update)
		if err != nil {
			return settingsLoadedMsg{settings: m.serverSettings, err: err}
		}
		return settingsLoadedMsg{settings: s}
	}
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitConfirm = true
		return nil, true

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true

	case key.Matches(msg, m.keys.Refresh):
		return func() tea.Msg {
			m.orch.Bootstrap(context.Background())
			return nil
		}, true

	case key.Matches(msg, m.keys.Settings):
		m.store.Dispatch(state.ToggleSettingsView{})
		return m.loadSettingsCmd(), true

	case key.Matches(msg, m.keys.Sidebar):
		m.store.Dispatch(state.ToggleSidebar{})
		return nil, true

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.Focus()
		return nil, true

	case key.Matches(msg, m.keys.Filter):
		m.store.Dispatch(state.SetFilterOption{Option: nextFilter(m.snapshot.FilterOption)})
		return nil, true

	case key.Matches(msg, m.keys.Sort):
		m.store.Dispatch(state.SetSortOption{Option: nextSort(m.snapshot.SortOption)})
		return nil, true

	case key.Matches(msg, m.keys.ViewStyle):
		m.store.Dispatch(state.SetViewStyle{Style: nextViewStyle(m.snapshot.ViewStyle)})
		return nil, true

	case key.Matches(msg, m.keys.AddFeed):
		m.resetModalInputs()
		m.focusModalField(0)
		m.store.Dispatch(state.OpenModal{Modal: state.Modal{Kind: state.ModalAddFeed}})
		return nil, true

	case key.Matches(msg, m.keys.AddFolder):
		m.resetModalInputs()
		m.nameInput.Focus()
		m.store.Dispatch(state.OpenModal{Modal: state.Modal{Kind: state.ModalAddFolder}})
		return nil, true
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(msg)
	case focusArticles:
		return m.handleArticlesKey(msg)
	case focusDetail:
		return m.handleDetailKey(msg)
	}
	return nil, false
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	item, _ := m.sidebar.SelectedItem().(sidebarItem)

	switch {
	case key.Matches(msg, m.keys.Open):
		switch item.kind {
		case sidebarAggregate:
			m.focus = focusArticles
			id := feed.AllArticlesID
			return func() tea.Msg {
				m.orch.SelectFeed(context.Background(), id)
				return nil
			}, true
		case sidebarFeed:
			m.focus = focusArticles
			id := item.feed.ID
			return func() tea.Msg {
				m.orch.SelectFeed(context.Background(), id)
				return nil
			}, true
		}
		return nil, true

	case key.Matches(msg, m.keys.DeleteFeed):
		switch item.kind {
		case sidebarFeed:
			m.confirm = confirmTarget{active: true, id: item.feed.ID, name: item.feed.Title}
		case sidebarFolder:
			m.confirm = confirmTarget{active: true, isFolder: true, id: item.folder.ID, name: item.folder.Name}
		}
		return nil, true

	case key.Matches(msg, m.keys.RenameFolder):
		if item.kind == sidebarFolder {
			m.resetModalInputs()
			m.nameInput.SetValue(item.folder.Name)
			m.nameInput.Focus()
			m.store.Dispatch(state.OpenModal{Modal: state.RenameFolderModal(item.folder)})
		}
		return nil, true

	case key.Matches(msg, m.keys.MoveFeed):
		if item.kind == sidebarFeed {
			m.moveIndex = m.currentFolderIndex(item.feed)
			m.store.Dispatch(state.OpenModal{Modal: state.MoveFeedModal(item.feed)})
		}
		return nil, true
	}
	return nil, false
}

// currentFolderIndex maps a feed's folder to its move-modal row, 0 for
// no folder.
func (m *Model) currentFolderIndex(f feed.Feed) int {
	if f.FolderID == nil {
		return 0
	}
	for i, folder := range m.snapshot.Folders {
		if folder.ID == *f.FolderID {
			return i + 1
		}
	}
	return 0
}

func (m *Model) handleArticlesKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focus = focusSidebar
		return nil, true

	case key.Matches(msg, m.keys.Open):
		item, ok := m.articles.SelectedItem().(articleItem)
		if !ok || item.isHeader() {
			return nil, true
		}
		a := item.article
		m.focus = focusDetail
		m.viewport.SetContent(renderArticle(a, m.viewport.Width))
		m.viewport.GotoTop()
		m.store.Dispatch(state.SelectArticle{Article: &a})
		if a.IsRead {
			return nil, true
		}
		return func() tea.Msg {
			m.orch.MarkArticleRead(context.Background(), a.ID)
			return nil
		}, true
	}
	return nil, false
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.focus = focusArticles
		m.store.Dispatch(state.SelectArticle{Article: nil})
		return nil, true

	case key.Matches(msg, m.keys.Open):
		if a := m.snapshot.SelectedArticle; a != nil && a.Link != "" {
			link := a.Link
			return func() tea.Msg {
				_ = openBrowser(link)
				return nil
			}, true
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) loadSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.orch.LoadSettings(context.Background())
		return settingsLoadedMsg{settings: s, err: err}
	}
}

func (m *Model) focusModalField(field int) {
	m.modalField = field
	if field == 0 {
		m.urlInput.Focus()
		m.nameInput.Blur()
	} else {
		m.urlInput.Blur()
		m.nameInput.Focus()
	}
}

func (m *Model) resetModalInputs() {
	m.urlInput.SetValue("")
	m.nameInput.SetValue("")
	m.urlInput.Blur()
	m.nameInput.Blur()
	m.modalField = 0
	m.moveIndex = 0
}

func nextFilter(opt feed.FilterOption) feed.FilterOption {
	switch opt {
	case feed.FilterAll:
		return feed.FilterUnread
	case feed.FilterUnread:
		return feed.FilterRead
	default:
		return feed.FilterAll
	}
}

func nextSort(opt feed.SortOption) feed.SortOption {
	switch opt {
	case feed.SortDateDesc:
		return feed.SortDateAsc
	case feed.SortDateAsc:
		return feed.SortTitleAsc
	case feed.SortTitleAsc:
		return feed.SortTitleDesc
	default:
		return feed.SortDateDesc
	}
}

func nextViewStyle(style feed.ViewStyle) feed.ViewStyle {
	if style == feed.ViewList {
		return feed.ViewCard
	}
	return feed.ViewList
}

func (m *Model) updateListSizes() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	m.help.Width = m.width
	footerHeight := lipgloss.Height(m.help.View(&m.keys))
	availableHeight := clampMin(m.height-footerHeight, 1)

	sidebarWidth := m.width / 3
	if m.snapshot.SidebarCollapsed {
		sidebarWidth = 0
	}
	mainWidth := m.width - sidebarWidth

	m.sidebar.SetSize(sidebarWidth, clampMin(availableHeight-sidebarTitleLines, 1))
	m.articles.SetSize(mainWidth, clampMin(availableHeight-statusLines, 1))
	m.viewport.Width = mainWidth
	m.viewport.Height = clampMin(availableHeight-statusLines, 1)
}

func clampMin(value, min int) int {
	if value < min {
		return min
	}
	return value
}
