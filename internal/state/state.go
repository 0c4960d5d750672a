// Package state holds the application state container: the state value,
// the action protocol, and the pure transition function.
package state

import "github.com/mlag/feedra/internal/domain/feed"

// ModalKind identifies which modal, if any, is open.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalAddFeed
	ModalAddFolder
	ModalRenameFolder
	ModalMoveFeed
)

// Modal is the modal surface as a tagged union. At most one modal can be
// open because the union holds a single kind; the entity payloads are
// only meaningful for the kinds that carry one.
type Modal struct {
	Kind   ModalKind
	Folder feed.Folder // target for ModalRenameFolder
	Feed   feed.Feed   // target for ModalMoveFeed
}

// RenameFolderModal builds an open rename-folder modal for the target.
func RenameFolderModal(f feed.Folder) Modal {
	return Modal{Kind: ModalRenameFolder, Folder: f}
}

// MoveFeedModal builds an open move-feed modal for the target.
func MoveFeedModal(f feed.Feed) Modal {
	return Modal{Kind: ModalMoveFeed, Feed: f}
}

// AppState is the single source of truth for the reader client. It is
// treated as an immutable value: every transition returns a fresh copy,
// and any nested collection a transition changes is reallocated.
//
// SelectedFeedID is either a real feed id, feed.AllArticlesID, or the
// empty string for "nothing selected".
type AppState struct {
	Feeds   []feed.Feed
	Folders []feed.Folder

	// ArticlesByFeed is a lazily populated cache. A missing key means
	// "not fetched yet"; a present empty slice means "fetched, empty".
	ArticlesByFeed map[string][]feed.Article
	AllArticles    []feed.Article

	SelectedFeedID  string
	SelectedArticle *feed.Article

	LoadingFeeds        bool
	LoadingFolders      bool
	LoadingFeedArticles bool
	LoadingAllArticles  bool

	// Err is the last surfaced error message, empty when clear.
	Err string

	Modal Modal

	SettingsOpen     bool
	SidebarCollapsed bool
	SortOption       feed.SortOption
	FilterOption     feed.FilterOption
	ViewStyle        feed.ViewStyle
}

// Initial returns the state before any data has loaded. The aggregate
// view is preselected and both halves of the init load are marked
// in flight, matching what the bootstrap dispatches first.
func Initial() AppState {
	return AppState{
		ArticlesByFeed: map[string][]feed.Article{},
		SelectedFeedID: feed.AllArticlesID,
		LoadingFeeds:   true,
		LoadingFolders: true,
		SortOption:     feed.SortDateDesc,
		FilterOption:   feed.FilterAll,
		ViewStyle:      feed.ViewList,
	}
}

// FeedByID returns the feed with the given id, if present.
func (s AppState) FeedByID(id string) (feed.Feed, bool) {
	for _, f := range s.Feeds {
		if f.ID == id {
			return f, true
		}
	}
	return feed.Feed{}, false
}

// FolderByID returns the folder with the given id, if present.
func (s AppState) FolderByID(id string) (feed.Folder, bool) {
	for _, f := range s.Folders {
		if f.ID == id {
			return f, true
		}
	}
	return feed.Folder{}, false
}
