package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/mlag/feedra/internal/application/settings"
)

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Open         key.Binding
	Back         key.Binding
	Quit         key.Binding
	AddFeed      key.Binding
	AddFolder    key.Binding
	DeleteFeed   key.Binding
	RenameFolder key.Binding
	MoveFeed     key.Binding
	Refresh      key.Binding
	Search       key.Binding
	Filter       key.Binding
	Sort         key.Binding
	ViewStyle    key.Binding
	Settings     key.Binding
	Sidebar      key.Binding
	Help         key.Binding
}

// ShortHelp returns a subset of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.Back, k.Open}
}

// FullHelp returns all keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.AddFeed, k.AddFolder, k.DeleteFeed, k.RenameFolder, k.MoveFeed},
		{k.Search, k.Filter, k.Sort, k.ViewStyle},
		{k.Refresh, k.Settings, k.Sidebar, k.Quit},
	}
}

// NewKeyMap creates a new KeyMap from the configuration.
func NewKeyMap(cfg settings.KeyMapConfig) KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Up)...),
			key.WithHelp(cfg.Up, "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Down)...),
			key.WithHelp(cfg.Down, "down"),
		),
		Open: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Open)...),
			key.WithHelp(cfg.Open, "open"),
		),
		Back: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Back)...),
			key.WithHelp(cfg.Back, "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Quit)...),
			key.WithHelp(cfg.Quit, "quit"),
		),
		AddFeed: key.NewBinding(
			key.WithKeys(splitKeys(cfg.AddFeed)...),
			key.WithHelp(cfg.AddFeed, "add feed"),
		),
		AddFolder: key.NewBinding(
			key.WithKeys(splitKeys(cfg.AddFolder)...),
			key.WithHelp(cfg.AddFolder, "add folder"),
		),
		DeleteFeed: key.NewBinding(
			key.WithKeys(splitKeys(cfg.DeleteFeed)...),
			key.WithHelp(cfg.DeleteFeed, "delete"),
		),
		RenameFolder: key.NewBinding(
			key.WithKeys(splitKeys(cfg.RenameFolder)...),
			key.WithHelp(cfg.RenameFolder, "rename folder"),
		),
		MoveFeed: key.NewBinding(
			key.WithKeys(splitKeys(cfg.MoveFeed)...),
			key.WithHelp(cfg.MoveFeed, "move feed"),
		),
		Refresh: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Refresh)...),
			key.WithHelp(cfg.Refresh, "refresh"),
		),
		Search: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Search)...),
			key.WithHelp(cfg.Search, "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Filter)...),
			key.WithHelp(cfg.Filter, "filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Sort)...),
			key.WithHelp(cfg.Sort, "sort"),
		),
		ViewStyle: key.NewBinding(
			key.WithKeys(splitKeys(cfg.ViewStyle)...),
			key.WithHelp(cfg.ViewStyle, "view style"),
		),
		Settings: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Settings)...),
			key.WithHelp(cfg.Settings, "settings"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys(splitKeys(cfg.Sidebar)...),
			key.WithHelp(cfg.Sidebar, "sidebar"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func splitKeys(keys string) []string {
	parts := strings.Split(keys, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		keyName := strings.TrimSpace(part)
		if keyName == "" {
			continue
		}
		out = append(out, keyName)
	}
	return out
}
