package state

import "github.com/mlag/feedra/internal/domain/feed"

// Action is the closed set of state transitions. Each variant is a
// plain payload struct; the unexported marker keeps the set sealed to
// this package's protocol while still letting other packages construct
// and dispatch the variants.
type Action interface {
	isAction()
}

// InitAppStart begins the feeds+folders bootstrap load.
type InitAppStart struct{}

// InitAppSuccess commits both halves of the bootstrap load at once.
type InitAppSuccess struct {
	Feeds   []feed.Feed
	Folders []feed.Folder
}

// InitAppFailure fails the bootstrap load. Neither collection changes.
type InitAppFailure struct{ Err string }

// LoadAllArticlesStart begins the aggregate article load.
type LoadAllArticlesStart struct{}

// LoadAllArticlesSuccess replaces the aggregate article list.
type LoadAllArticlesSuccess struct{ Articles []feed.Article }

// LoadAllArticlesFailure fails the aggregate load and discards any
// stale aggregate data.
type LoadAllArticlesFailure struct{ Err string }

// LoadFeedArticlesStart begins a single feed's article load.
type LoadFeedArticlesStart struct{ FeedID string }

// LoadFeedArticlesSuccess caches one feed's articles.
type LoadFeedArticlesSuccess struct {
	FeedID   string
	Articles []feed.Article
}

// LoadFeedArticlesFailure fails one feed's load; the feed's cache entry
// is set to empty so the UI shows "no articles" rather than retrying
// forever.
type LoadFeedArticlesFailure struct {
	FeedID string
	Err    string
}

// SelectFeed changes the selected scope. Resets the reading view and
// the sort/filter preferences to their defaults.
type SelectFeed struct{ FeedID string }

// SelectArticle enters (or with nil leaves) the reading view. Read
// state is not touched here; that is MarkArticleRead's job.
type SelectArticle struct{ Article *feed.Article }

// MarkArticleRead optimistically flags an article as read everywhere it
// occurs: the aggregate list, every per-feed list, and the selected
// article.
type MarkArticleRead struct{ ArticleID string }

// AddFeedStart begins an add-feed mutation.
type AddFeedStart struct{}

// AddFeedSuccess appends the new feed, closes the add-feed modal, and
// selects the new feed.
type AddFeedSuccess struct{ Feed feed.Feed }

// AddFeedFailure surfaces an add-feed error; the modal stays open.
type AddFeedFailure struct{ Err string }

// DeleteFeedStart begins a delete-feed mutation.
type DeleteFeedStart struct{}

// DeleteFeedSuccess removes the feed and cascades: its cached articles
// are dropped, it is filtered out of the aggregate list, and the
// selection falls back if it pointed at the deleted feed.
type DeleteFeedSuccess struct{ FeedID string }

// DeleteFeedFailure surfaces a delete-feed error.
type DeleteFeedFailure struct{ Err string }

// AddFolderStart begins an add-folder mutation.
type AddFolderStart struct{}

// AddFolderSuccess appends the new folder and closes the modal.
type AddFolderSuccess struct{ Folder feed.Folder }

// AddFolderFailure surfaces an add-folder error; the modal stays open.
type AddFolderFailure struct{ Err string }

// RenameFolderStart begins a rename-folder mutation.
type RenameFolderStart struct{}

// RenameFolderSuccess replaces the matching folder and closes the modal.
type RenameFolderSuccess struct{ Folder feed.Folder }

// RenameFolderFailure surfaces a rename error; the modal stays open.
type RenameFolderFailure struct{ Err string }

// DeleteFolderStart begins a delete-folder mutation.
type DeleteFolderStart struct{}

// DeleteFolderSuccess removes the folder and unparents its feeds. Feeds
// are never deleted by a folder delete.
type DeleteFolderSuccess struct{ FolderID string }

// DeleteFolderFailure surfaces a delete-folder error.
type DeleteFolderFailure struct{ Err string }

// MoveFeedStart begins a move-feed mutation.
type MoveFeedStart struct{}

// MoveFeedSuccess replaces the matching feed wholesale with the
// server-returned value and closes the move modal.
type MoveFeedSuccess struct{ Feed feed.Feed }

// MoveFeedFailure surfaces a move error; the modal stays open.
type MoveFeedFailure struct{ Err string }

// OpenModal opens the given modal, closing whichever was open.
type OpenModal struct{ Modal Modal }

// CloseModal closes the named modal if it is the one currently open;
// any other open modal is left untouched.
type CloseModal struct{ Kind ModalKind }

// ToggleSettingsView flips the settings surface. Entering settings
// discards the reading view; leaving it does not restore one.
type ToggleSettingsView struct{}

// CloseSettingsView closes the settings surface unconditionally.
type CloseSettingsView struct{}

// ToggleSidebar flips the sidebar collapse preference.
type ToggleSidebar struct{}

// SetSortOption replaces the article sort preference.
type SetSortOption struct{ Option feed.SortOption }

// SetFilterOption replaces the article read-state filter preference.
type SetFilterOption struct{ Option feed.FilterOption }

// SetViewStyle replaces the article list rendering style.
type SetViewStyle struct{ Style feed.ViewStyle }

// SetError replaces the surfaced error message; empty clears it.
type SetError struct{ Err string }

func (InitAppStart) isAction()            {}
func (InitAppSuccess) isAction()          {}
func (InitAppFailure) isAction()          {}
func (LoadAllArticlesStart) isAction()    {}
func (LoadAllArticlesSuccess) isAction()  {}
func (LoadAllArticlesFailure) isAction()  {}
func (LoadFeedArticlesStart) isAction()   {}
func (LoadFeedArticlesSuccess) isAction() {}
func (LoadFeedArticlesFailure) isAction() {}
func (SelectFeed) isAction()              {}
func (SelectArticle) isAction()           {}
func (MarkArticleRead) isAction()         {}
func (AddFeedStart) isAction()            {}
func (AddFeedSuccess) isAction()          {}
func (AddFeedFailure) isAction()          {}
func (DeleteFeedStart) isAction()         {}
func (DeleteFeedSuccess) isAction()       {}
func (DeleteFeedFailure) isAction()       {}
func (AddFolderStart) isAction()          {}
func (AddFolderSuccess) isAction()        {}
func (AddFolderFailure) isAction()        {}
func (RenameFolderStart) isAction()       {}
func (RenameFolderSuccess) isAction()     {}
func (RenameFolderFailure) isAction()     {}
func (DeleteFolderStart) isAction()       {}
func (DeleteFolderSuccess) isAction()     {}
func (DeleteFolderFailure) isAction()     {}
func (MoveFeedStart) isAction()           {}
func (MoveFeedSuccess) isAction()         {}
func (MoveFeedFailure) isAction()         {}
func (OpenModal) isAction()               {}
func (CloseModal) isAction()              {}
func (ToggleSettingsView) isAction()      {}
func (CloseSettingsView) isAction()       {}
func (ToggleSidebar) isAction()           {}
func (SetSortOption) isAction()           {}
func (SetFilterOption) isAction()         {}
func (SetViewStyle) isAction()            {}
func (SetError) isAction()                {}
