package presenter

import (
	"sync"

	"github.com/mlag/feedra/internal/domain/feed"
	"github.com/mlag/feedra/internal/state"
)

// sliceKey identifies a slice by its backing array and length. The
// reducer reallocates every collection it changes, so an unchanged key
// means unchanged contents.
type sliceKey[T any] struct {
	first *T
	len   int
}

func keyOf[T any](s []T) sliceKey[T] {
	if len(s) == 0 {
		return sliceKey[T]{}
	}
	return sliceKey[T]{first: &s[0], len: len(s)}
}

type visibleKey struct {
	scope  sliceKey[feed.Article]
	sort   feed.SortOption
	filter feed.FilterOption
	query  string
}

type folderedKey struct {
	feeds   sliceKey[feed.Feed]
	folders sliceKey[feed.Folder]
}

// Presenter memoizes the derived view computations, recomputing only
// when their inputs change.
type Presenter struct {
	mu sync.Mutex

	visibleKey visibleKey
	visibleOK  bool
	visible    []feed.Article

	groupsKey sliceKey[feed.Article]
	groupsOK  bool
	groups    []DayGroup

	folderedKey folderedKey
	folderedOK  bool
	foldered    FolderedFeeds
}

// New creates an empty presenter cache.
func New() *Presenter {
	return &Presenter{}
}

// VisibleArticles returns the filtered and sorted article list for the
// current selection.
func (p *Presenter) VisibleArticles(s state.AppState, query string) []feed.Article {
	key := visibleKey{
		scope:  keyOf(ScopeArticles(s)),
		sort:   s.SortOption,
		filter: s.FilterOption,
		query:  query,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.visibleOK && p.visibleKey == key {
		return p.visible
	}
	p.visible = VisibleArticles(s, query)
	p.visibleKey = key
	p.visibleOK = true

	// The visible list feeds straight into day grouping; drop that
	// cache alongside it.
	p.groupsOK = false
	return p.visible
}

// DayGroups returns the calendar-day buckets for an article list,
// newest day first.
func (p *Presenter) DayGroups(articles []feed.Article) []DayGroup {
	key := keyOf(articles)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.groupsOK && p.groupsKey == key {
		return p.groups
	}
	p.groups = GroupByDay(articles)
	p.groupsKey = key
	p.groupsOK = true
	return p.groups
}

// FeedsByFolder returns the sidebar tree for the current collections.
func (p *Presenter) FeedsByFolder(s state.AppState) FolderedFeeds {
	key := folderedKey{feeds: keyOf(s.Feeds), folders: keyOf(s.Folders)}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.folderedOK && p.folderedKey == key {
		return p.foldered
	}
	p.foldered = GroupFeedsByFolder(s.Feeds, s.Folders)
	p.folderedKey = key
	p.folderedOK = true
	return p.foldered
}
