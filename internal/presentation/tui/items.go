package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mlag/feedra/internal/domain/feed"
	"github.com/mlag/feedra/internal/presenter"
)

const itemSafetyPadding = 2

type sidebarKind int

const (
	sidebarAggregate sidebarKind = iota
	sidebarFolder
	sidebarFeed
)

// sidebarItem is one row of the sidebar tree: the aggregate entry, a
// folder header, or a feed (indented under its folder).
type sidebarItem struct {
	kind   sidebarKind
	feed   feed.Feed
	folder feed.Folder
}

func (i sidebarItem) FilterValue() string {
	switch i.kind {
	case sidebarFolder:
		return i.folder.Name
	case sidebarFeed:
		return i.feed.Title
	default:
		return "All Articles"
	}
}

func (i sidebarItem) title() string {
	switch i.kind {
	case sidebarFolder:
		return i.folder.Name + "/"
	case sidebarFeed:
		return "  " + i.feed.Title
	default:
		return "All Articles"
	}
}

// sidebarItems flattens the foldered feed tree into list rows.
func sidebarItems(tree presenter.FolderedFeeds) []list.Item {
	items := []list.Item{sidebarItem{kind: sidebarAggregate}}
	for _, group := range tree.Groups {
		items = append(items, sidebarItem{kind: sidebarFolder, folder: group.Folder})
		for _, f := range group.Feeds {
			items = append(items, sidebarItem{kind: sidebarFeed, feed: f})
		}
	}
	for _, f := range tree.Ungrouped {
		items = append(items, sidebarItem{kind: sidebarFeed, feed: f})
	}
	return items
}

// sidebarDelegate renders sidebar rows, dimming folder headers.
type sidebarDelegate struct {
	styles      list.DefaultItemStyles
	folderStyle lipgloss.Style
}

func newSidebarDelegate(feedColor lipgloss.Color) sidebarDelegate {
	styles := list.NewDefaultItemStyles()
	styles.NormalTitle = styles.NormalTitle.Foreground(feedColor)
	return sidebarDelegate{
		styles:      styles,
		folderStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true).PaddingLeft(2),
	}
}

func (d sidebarDelegate) Height() int                             { return 1 }
func (d sidebarDelegate) Spacing() int                            { return 0 }
func (d sidebarDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d sidebarDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(sidebarItem)
	if !ok {
		return
	}
	style := d.styles.NormalTitle
	if i.kind == sidebarFolder {
		style = d.folderStyle
	}
	if index == m.Index() {
		style = d.styles.SelectedTitle
	}
	_, _ = io.WriteString(w, style.Render(truncateItem(m, style, i.title())))
}

type articleKind int

const (
	articleHeader articleKind = iota
	articleEntry
)

// articleItem is one row of the article list: a calendar-day header or
// an article.
type articleItem struct {
	kind    articleKind
	label   string
	article feed.Article
}

func (i articleItem) FilterValue() string {
	if i.kind == articleHeader {
		return ""
	}
	return i.article.Title
}

func (i articleItem) isHeader() bool { return i.kind == articleHeader }

// articleItems flattens day groups into list rows: one header per day
// followed by that day's articles.
func articleItems(groups []presenter.DayGroup) []list.Item {
	var items []list.Item
	for _, g := range groups {
		items = append(items, articleItem{kind: articleHeader, label: g.Label})
		for _, a := range g.Articles {
			items = append(items, articleItem{kind: articleEntry, article: a})
		}
	}
	return items
}

// articleDelegate renders article rows. In card view each article gets
// a second line with its feed and snippet.
type articleDelegate struct {
	styles      list.DefaultItemStyles
	headerStyle lipgloss.Style
	unreadStyle lipgloss.Style
	card        bool
}

func newArticleDelegate(unreadColor lipgloss.Color) *articleDelegate {
	return &articleDelegate{
		styles:      list.NewDefaultItemStyles(),
		headerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true).PaddingLeft(2),
		unreadStyle: lipgloss.NewStyle().Foreground(unreadColor),
	}
}

func (d *articleDelegate) Height() int {
	if d.card {
		return 2
	}
	return 1
}

func (d *articleDelegate) Spacing() int {
	if d.card {
		return 1
	}
	return 0
}

func (d *articleDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d *articleDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(articleItem)
	if !ok {
		return
	}
	if i.kind == articleHeader {
		_, _ = io.WriteString(w, d.headerStyle.Render(i.label))
		return
	}

	title := i.article.Title
	if !i.article.IsRead {
		title = d.unreadStyle.Render("● ") + title
	} else {
		title = "  " + title
	}

	style := d.styles.NormalTitle
	if index == m.Index() {
		style = d.styles.SelectedTitle
	}
	line := style.Render(truncateItem(m, style, title))
	if !d.card {
		_, _ = io.WriteString(w, line)
		return
	}

	desc := i.article.FeedTitle
	if s := singleLine(i.article.ContentSnippet); s != "" {
		desc = fmt.Sprintf("%s · %s", desc, s)
	}
	descStyle := d.styles.NormalDesc
	if index == m.Index() {
		descStyle = d.styles.SelectedDesc
	}
	_, _ = io.WriteString(w, line+"\n"+descStyle.Render("  "+truncateItem(m, descStyle, desc)))
}

func truncateItem(m list.Model, style lipgloss.Style, text string) string {
	width := m.Width() - style.GetHorizontalFrameSize() - itemSafetyPadding
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(text, width, "...")
}

func singleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
