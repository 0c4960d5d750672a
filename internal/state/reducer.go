package state

import "github.com/mlag/feedra/internal/domain/feed"

// Reduce maps (state, action) to the next state. It is pure: no side
// effects, never panics on protocol values, and unknown action variants
// return the state unchanged so newer dispatchers stay compatible with
// older reducers.
func Reduce(s AppState, a Action) AppState {
	switch a := a.(type) {
	case InitAppStart:
		s.LoadingFeeds = true
		s.LoadingFolders = true
		s.Err = ""
		return s
	case InitAppSuccess:
		s.Feeds = a.Feeds
		s.Folders = a.Folders
		s.LoadingFeeds = false
		s.LoadingFolders = false
		return s
	case InitAppFailure:
		s.LoadingFeeds = false
		s.LoadingFolders = false
		s.Err = a.Err
		return s

	case LoadAllArticlesStart:
		s.LoadingAllArticles = true
		s.Err = ""
		return s
	case LoadAllArticlesSuccess:
		s.LoadingAllArticles = false
		s.AllArticles = a.Articles
		return s
	case LoadAllArticlesFailure:
		s.LoadingAllArticles = false
		s.Err = a.Err
		s.AllArticles = nil
		return s

	case LoadFeedArticlesStart:
		s.LoadingFeedArticles = true
		s.Err = ""
		return s
	case LoadFeedArticlesSuccess:
		s.LoadingFeedArticles = false
		s.ArticlesByFeed = withFeedArticles(s.ArticlesByFeed, a.FeedID, a.Articles)
		return s
	case LoadFeedArticlesFailure:
		s.LoadingFeedArticles = false
		s.Err = a.Err
		s.ArticlesByFeed = withFeedArticles(s.ArticlesByFeed, a.FeedID, []feed.Article{})
		return s

	case SelectFeed:
		s.SelectedFeedID = a.FeedID
		s.SelectedArticle = nil
		s.SortOption = feed.SortDateDesc
		s.FilterOption = feed.FilterAll
		return s
	case SelectArticle:
		s.SelectedArticle = a.Article
		return s

	case MarkArticleRead:
		return markArticleRead(s, a.ArticleID)

	case AddFeedStart:
		s.LoadingFeeds = true
		s.Err = ""
		return s
	case AddFeedSuccess:
		s.LoadingFeeds = false
		s.Feeds = append(append([]feed.Feed(nil), s.Feeds...), a.Feed)
		s.Modal = closeModal(s.Modal, ModalAddFeed)
		s.SelectedFeedID = a.Feed.ID
		s.SelectedArticle = nil
		return s
	case AddFeedFailure:
		s.LoadingFeeds = false
		s.Err = a.Err
		return s

	case DeleteFeedStart:
		s.Err = ""
		return s
	case DeleteFeedSuccess:
		return deleteFeed(s, a.FeedID)
	case DeleteFeedFailure:
		s.Err = a.Err
		return s

	case AddFolderStart:
		s.Err = ""
		return s
	case AddFolderSuccess:
		s.Folders = append(append([]feed.Folder(nil), s.Folders...), a.Folder)
		s.Modal = closeModal(s.Modal, ModalAddFolder)
		return s
	case AddFolderFailure:
		s.Err = a.Err
		return s

	case RenameFolderStart:
		s.Err = ""
		return s
	case RenameFolderSuccess:
		s.Folders = replaceFolder(s.Folders, a.Folder)
		s.Modal = closeModal(s.Modal, ModalRenameFolder)
		return s
	case RenameFolderFailure:
		s.Err = a.Err
		return s

	case DeleteFolderStart:
		s.Err = ""
		return s
	case DeleteFolderSuccess:
		return deleteFolder(s, a.FolderID)
	case DeleteFolderFailure:
		s.Err = a.Err
		return s

	case MoveFeedStart:
		s.Err = ""
		return s
	case MoveFeedSuccess:
		s.Feeds = replaceFeed(s.Feeds, a.Feed)
		s.Modal = closeModal(s.Modal, ModalMoveFeed)
		return s
	case MoveFeedFailure:
		s.Err = a.Err
		return s

	case OpenModal:
		s.Modal = a.Modal
		return s
	case CloseModal:
		s.Modal = closeModal(s.Modal, a.Kind)
		return s

	case ToggleSettingsView:
		opening := !s.SettingsOpen
		s.SettingsOpen = opening
		if opening {
			s.SelectedArticle = nil
		}
		return s
	case CloseSettingsView:
		s.SettingsOpen = false
		return s
	case ToggleSidebar:
		s.SidebarCollapsed = !s.SidebarCollapsed
		return s

	case SetSortOption:
		s.SortOption = a.Option
		return s
	case SetFilterOption:
		s.FilterOption = a.Option
		return s
	case SetViewStyle:
		s.ViewStyle = a.Style
		return s
	case SetError:
		s.Err = a.Err
		return s
	}
	return s
}

func closeModal(m Modal, kind ModalKind) Modal {
	if m.Kind == kind {
		return Modal{}
	}
	return m
}

func withFeedArticles(m map[string][]feed.Article, feedID string, articles []feed.Article) map[string][]feed.Article {
	next := make(map[string][]feed.Article, len(m)+1)
	for id, list := range m {
		next[id] = list
	}
	next[feedID] = articles
	return next
}

func markArticleRead(s AppState, articleID string) AppState {
	s.AllArticles = markReadInList(s.AllArticles, articleID)

	byFeed := make(map[string][]feed.Article, len(s.ArticlesByFeed))
	for feedID, list := range s.ArticlesByFeed {
		byFeed[feedID] = markReadInList(list, articleID)
	}
	s.ArticlesByFeed = byFeed

	if s.SelectedArticle != nil && s.SelectedArticle.ID == articleID {
		selected := *s.SelectedArticle
		selected.IsRead = true
		s.SelectedArticle = &selected
	}
	return s
}

func markReadInList(articles []feed.Article, articleID string) []feed.Article {
	out := make([]feed.Article, len(articles))
	for i, a := range articles {
		if a.ID == articleID {
			a.IsRead = true
		}
		out[i] = a
	}
	return out
}

func deleteFeed(s AppState, feedID string) AppState {
	feeds := make([]feed.Feed, 0, len(s.Feeds))
	for _, f := range s.Feeds {
		if f.ID != feedID {
			feeds = append(feeds, f)
		}
	}

	byFeed := make(map[string][]feed.Article, len(s.ArticlesByFeed))
	for id, list := range s.ArticlesByFeed {
		if id != feedID {
			byFeed[id] = list
		}
	}

	all := make([]feed.Article, 0, len(s.AllArticles))
	for _, a := range s.AllArticles {
		if a.FeedID != feedID {
			all = append(all, a)
		}
	}

	selected := s.SelectedFeedID
	switch {
	case selected == feedID:
		if len(feeds) > 0 {
			selected = feed.AllArticlesID
		} else {
			selected = ""
		}
	case selected == feed.AllArticlesID && len(feeds) == 0:
		selected = ""
	}

	if selected == "" || selected != s.SelectedFeedID {
		s.SelectedArticle = nil
	}
	s.Feeds = feeds
	s.ArticlesByFeed = byFeed
	s.AllArticles = all
	s.SelectedFeedID = selected
	return s
}

func deleteFolder(s AppState, folderID string) AppState {
	folders := make([]feed.Folder, 0, len(s.Folders))
	for _, f := range s.Folders {
		if f.ID != folderID {
			folders = append(folders, f)
		}
	}

	feeds := make([]feed.Feed, len(s.Feeds))
	for i, f := range s.Feeds {
		if f.InFolder(folderID) {
			f.FolderID = nil
		}
		feeds[i] = f
	}

	s.Folders = folders
	s.Feeds = feeds
	return s
}

func replaceFeed(feeds []feed.Feed, updated feed.Feed) []feed.Feed {
	out := make([]feed.Feed, len(feeds))
	for i, f := range feeds {
		if f.ID == updated.ID {
			out[i] = updated
		} else {
			out[i] = f
		}
	}
	return out
}

func replaceFolder(folders []feed.Folder, updated feed.Folder) []feed.Folder {
	out := make([]feed.Folder, len(folders))
	for i, f := range folders {
		if f.ID == updated.ID {
			out[i] = updated
		} else {
			out[i] = f
		}
	}
	return out
}
