// Package feed defines the core reader models.
package feed

import "time"

// AllArticlesID is the sentinel selection representing the aggregated
// "All Articles" view across every subscribed feed.
const AllArticlesID = "internal://all"

// Feed represents a subscribed feed.
type Feed struct {
	ID          string
	Title       string
	URL         string
	Description string
	Link        string
	LastFetched time.Time
	Favicon     string
	FolderID    *string
}

// InFolder reports whether the feed belongs to the given folder.
func (f Feed) InFolder(folderID string) bool {
	return f.FolderID != nil && *f.FolderID == folderID
}

// Folder represents a named group of feeds.
type Folder struct {
	ID   string
	Name string
}

// Article represents a single fetched article. Only the read flag
// changes after creation.
type Article struct {
	ID             string
	Title          string
	Link           string
	PubDate        time.Time
	FeedID         string
	FeedTitle      string
	Content        string
	ContentSnippet string
	Author         string
	ImageURL       string
	IsRead         bool
}

// Settings holds the server-side reader settings.
type Settings struct {
	ID                     int
	AutoCleanupEnabled     bool
	AutoCleanupDays        int
	RefreshIntervalMinutes int
}

// SettingsUpdate is a partial settings change. Nil fields are left
// untouched by the server.
type SettingsUpdate struct {
	AutoCleanupEnabled     *bool
	AutoCleanupDays        *int
	RefreshIntervalMinutes *int
}

// SortOption selects an article ordering.
type SortOption string

const (
	SortDateDesc  SortOption = "date-desc"
	SortDateAsc   SortOption = "date-asc"
	SortTitleAsc  SortOption = "title-asc"
	SortTitleDesc SortOption = "title-desc"
)

// FilterOption selects which articles pass by read state.
type FilterOption string

const (
	FilterAll    FilterOption = "all"
	FilterUnread FilterOption = "unread"
	FilterRead   FilterOption = "read"
)

// ViewStyle selects how the article list is rendered.
type ViewStyle string

const (
	ViewList ViewStyle = "list"
	ViewCard ViewStyle = "card"
)
