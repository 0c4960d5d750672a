// Package settings defines application-level configuration data.
package settings

import "time"

// DefaultRefreshIntervalMinutes is the background refresh default.
const DefaultRefreshIntervalMinutes = 15

// KeyMapConfig defines the configuration for keybindings.
type KeyMapConfig struct {
	Up           string `yaml:"up" kong:"help='Up key',default='k'"`
	Down         string `yaml:"down" kong:"help='Down key',default='j'"`
	Open         string `yaml:"open" kong:"help='Open key',default='enter'"`
	Back         string `yaml:"back" kong:"help='Back key',default='esc'"`
	Quit         string `yaml:"quit" kong:"help='Quit key',default='q'"`
	AddFeed      string `yaml:"add_feed" kong:"help='Add feed key',default='a'"`
	AddFolder    string `yaml:"add_folder" kong:"help='Add folder key',default='A'"`
	DeleteFeed   string `yaml:"delete_feed" kong:"help='Delete feed or folder key',default='x'"`
	RenameFolder string `yaml:"rename_folder" kong:"help='Rename folder key',default='R'"`
	MoveFeed     string `yaml:"move_feed" kong:"help='Move feed to folder key',default='m'"`
	Refresh      string `yaml:"refresh" kong:"help='Refresh key',default='r'"`
	Search       string `yaml:"search" kong:"help='Search key',default='/'"`
	Filter       string `yaml:"filter" kong:"help='Cycle read filter key',default='f'"`
	Sort         string `yaml:"sort" kong:"help='Cycle sort order key',default='o'"`
	ViewStyle    string `yaml:"view_style" kong:"help='Toggle list or card view key',default='v'"`
	Settings     string `yaml:"settings" kong:"help='Toggle settings key',default='S'"`
	Sidebar      string `yaml:"sidebar" kong:"help='Toggle sidebar key',default='tab'"`
}

// ThemeConfig defines the color theme configuration.
type ThemeConfig struct {
	FeedName   string `yaml:"feed_name" kong:"help='Feed name color',default='244'"`
	UnreadMark string `yaml:"unread_mark" kong:"help='Unread marker color',default='205'"`
}

// Settings represents the application configuration.
type Settings struct {
	APIBaseURL             string       `yaml:"api_base_url" kong:"help='Backend API base URL. Empty runs the built-in local service.'"`
	DataFile               string       `yaml:"data_file" kong:"help='Database path for the built-in local service'"`
	RefreshIntervalMinutes int          `yaml:"refresh_interval_minutes" kong:"help='Background refresh interval in minutes',default='15'"`
	KeyMap                 KeyMapConfig `yaml:"keymap" kong:"embed,prefix='keymap.'"`
	Theme                  ThemeConfig  `yaml:"theme" kong:"embed,prefix='theme.'"`
}

// RefreshInterval returns the configured refresh interval, falling back
// to the default for unusable values.
func (s Settings) RefreshInterval() time.Duration {
	minutes := s.RefreshIntervalMinutes
	if minutes <= 0 {
		minutes = DefaultRefreshIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}
