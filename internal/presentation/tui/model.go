package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mlag/feedra/internal/application/orchestrator"
	"github.com/mlag/feedra/internal/application/settings"
	"github.com/mlag/feedra/internal/domain/feed"
	"github.com/mlag/feedra/internal/presentation/tui/view"
	"github.com/mlag/feedra/internal/presenter"
	"github.com/mlag/feedra/internal/state"
)

// focus identifies which pane receives navigation keys.
type focus int

const (
	focusSidebar focus = iota
	focusArticles
	focusDetail
)

// confirmTarget is a pending delete confirmation. The confirmation
// itself is presentation state; only the delete goes through the store.
type confirmTarget struct {
	active   bool
	isFolder bool
	id       string
	name     string
}

// Model is the bubbletea model. All domain state lives in the store;
// the model keeps a snapshot of it plus widget state, and refreshes the
// snapshot whenever the store notifies.
type Model struct {
	cfg   settings.Settings
	store *state.Store
	orch  *orchestrator.Orchestrator
	pres  *presenter.Presenter

	// PersistRefreshInterval saves the refresh interval preference, nil
	// to skip persistence.
	PersistRefreshInterval func(minutes int) error

	snapshot state.AppState
	updates  chan struct{}
	unsub    func()

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	focus      focus
	sidebar    list.Model
	articles   list.Model
	articleDel *articleDelegate
	viewport   viewport.Model

	urlInput   textinput.Model
	nameInput  textinput.Model
	modalField int
	moveIndex  int

	searching   bool
	searchInput textinput.Model
	query       string

	serverSettings   feed.Settings
	serverSettingsOK bool
	settingsErr      string

	confirm     confirmTarget
	quitConfirm bool

	width  int
	height int
}

// stateChangedMsg signals that the store has new state to snapshot.
type stateChangedMsg struct{}

// mutationDoneMsg carries the outcome of a form submission. The store
// already reflects it; the error only decides whether the form resets.
type mutationDoneMsg struct{ err error }

// settingsLoadedMsg carries the server-side settings for the settings
// surface.
type settingsLoadedMsg struct {
	settings feed.Settings
	err      error
}

// NewModel creates the application model over an already started
// orchestrator.
func NewModel(cfg settings.Settings, store *state.Store, orch *orchestrator.Orchestrator) *Model {
	articleDel := newArticleDelegate(lipgloss.Color(cfg.Theme.UnreadMark))
	m := &Model{
		cfg:         cfg,
		store:       store,
		orch:        orch,
		pres:        presenter.New(),
		snapshot:    store.State(),
		updates:     make(chan struct{}, 1),
		keys:        NewKeyMap(cfg.KeyMap),
		help:        help.New(),
		spinner:     newSpinner(),
		sidebar:     newSidebarList(cfg),
		articles:    newArticleList(articleDel),
		articleDel:  articleDel,
		viewport:    newViewport(),
		urlInput:    newInput("https://example.com/feed.xml"),
		nameInput:   newInput("Name"),
		searchInput: newInput("Search articles"),
	}
	m.unsub = store.Subscribe(func(state.AppState) {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	})
	m.refreshLists()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink, m.waitForUpdate())
}

// waitForUpdate blocks until the store changes, then delivers one
// coalesced notification.
func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		<-m.updates
		return stateChangedMsg{}
	}
}

// View renders the application view.
func (m *Model) View() string {
	return view.Render(m.buildProps())
}

// Close stops observing the store.
func (m *Model) Close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

// refreshLists rebuilds the widget item lists from the snapshot,
// keeping the cursor in place where possible.
func (m *Model) refreshLists() {
	s := m.snapshot

	tree := m.pres.FeedsByFolder(s)
	idx := m.sidebar.Index()
	m.sidebar.SetItems(sidebarItems(tree))
	m.sidebar.Select(clampIndex(idx, len(m.sidebar.Items())))

	groups := m.pres.DayGroups(m.pres.VisibleArticles(s, m.query))
	idx = m.articles.Index()
	m.articles.SetItems(articleItems(groups))
	m.articles.Select(clampIndex(idx, len(m.articles.Items())))

	if m.articleDel != nil {
		m.articleDel.card = s.ViewStyle == feed.ViewCard
	}
}

func clampIndex(idx, n int) int {
	if n == 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}

func newSidebarList(cfg settings.Settings) list.Model {
	l := list.New([]list.Item{}, newSidebarDelegate(lipgloss.Color(cfg.Theme.FeedName)), 0, 0)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}

func newArticleList(d *articleDelegate) list.Model {
	l := list.New([]list.Item{}, d, 0, 0)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	return ti
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return s
}

func newViewport() viewport.Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)
	return vp
}
