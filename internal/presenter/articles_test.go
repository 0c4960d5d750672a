package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlag/feedra/internal/domain/feed"
	"github.com/mlag/feedra/internal/state"
)

func day(d int, hour int) time.Time {
	return time.Date(2025, 6, d, hour, 0, 0, 0, time.Local)
}

func TestScopeArticles(t *testing.T) {
	s := state.Initial()
	s.AllArticles = []feed.Article{{ID: "all"}}
	s.ArticlesByFeed = map[string][]feed.Article{"1": {{ID: "one"}}}

	s.SelectedFeedID = feed.AllArticlesID
	assert.Equal(t, []feed.Article{{ID: "all"}}, ScopeArticles(s))

	s.SelectedFeedID = "1"
	assert.Equal(t, []feed.Article{{ID: "one"}}, ScopeArticles(s))

	s.SelectedFeedID = "unfetched"
	assert.Empty(t, ScopeArticles(s))

	s.SelectedFeedID = ""
	assert.Empty(t, ScopeArticles(s))
}

// Scenario: the unread filter keeps exactly the unread articles, in
// their original order.
func TestFilterArticlesUnread(t *testing.T) {
	articles := []feed.Article{
		{ID: "a", IsRead: true},
		{ID: "b"},
		{ID: "c"},
	}

	got := FilterArticles(articles, feed.FilterUnread)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	got = FilterArticles(articles, feed.FilterRead)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	assert.Len(t, FilterArticles(articles, feed.FilterAll), 3)
}

func TestSortArticlesOrderings(t *testing.T) {
	articles := []feed.Article{
		{ID: "mid", Title: "Banana", PubDate: day(2, 0)},
		{ID: "old", Title: "Cherry", PubDate: day(1, 0)},
		{ID: "new", Title: "Apple", PubDate: day(3, 0)},
	}

	ids := func(list []feed.Article) []string {
		out := make([]string, len(list))
		for i, a := range list {
			out[i] = a.ID
		}
		return out
	}

	assert.Equal(t, []string{"new", "mid", "old"}, ids(SortArticles(articles, feed.SortDateDesc)))
	assert.Equal(t, []string{"old", "mid", "new"}, ids(SortArticles(articles, feed.SortDateAsc)))
	assert.Equal(t, []string{"new", "mid", "old"}, ids(SortArticles(articles, feed.SortTitleAsc)))
	assert.Equal(t, []string{"old", "mid", "new"}, ids(SortArticles(articles, feed.SortTitleDesc)))

	// Input untouched.
	assert.Equal(t, "mid", articles[0].ID)
}

// Tied publish dates keep their input order.
func TestSortArticlesIsStable(t *testing.T) {
	tied := day(5, 12)
	articles := []feed.Article{
		{ID: "first", PubDate: tied},
		{ID: "second", PubDate: tied},
		{ID: "third", PubDate: tied},
	}

	got := SortArticles(articles, feed.SortDateDesc)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)
}

func TestSearchArticles(t *testing.T) {
	articles := []feed.Article{
		{ID: "1", Title: "Go 1.26 released"},
		{ID: "2", Title: "Weekly roundup", Author: "Gopher"},
		{ID: "3", Title: "Other", ContentSnippet: "all about go modules"},
		{ID: "4", Title: "Unrelated", FeedTitle: "Go Blog"},
	}

	got := SearchArticles(articles, "go")
	assert.Len(t, got, 4)

	got = SearchArticles(articles, "gopher")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Len(t, SearchArticles(articles, "  "), 4)
	assert.Empty(t, SearchArticles(articles, "nomatch"))
}

func TestVisibleArticlesComposes(t *testing.T) {
	s := state.Initial()
	s.SelectedFeedID = feed.AllArticlesID
	s.FilterOption = feed.FilterUnread
	s.SortOption = feed.SortDateAsc
	s.AllArticles = []feed.Article{
		{ID: "read", IsRead: true, PubDate: day(1, 0)},
		{ID: "late", PubDate: day(3, 0)},
		{ID: "early", PubDate: day(2, 0)},
	}

	got := VisibleArticles(s, "")
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "late", got[1].ID)
}

func TestGroupByDayBucketsNewestFirst(t *testing.T) {
	articles := []feed.Article{
		{ID: "tue-1", PubDate: day(3, 9)},
		{ID: "mon-1", PubDate: day(2, 20)},
		{ID: "tue-2", PubDate: day(3, 18)},
	}

	groups := GroupByDay(articles)
	require.Len(t, groups, 2)
	assert.True(t, groups[0].Day.After(groups[1].Day))
	require.Len(t, groups[0].Articles, 2)
	assert.Equal(t, "tue-1", groups[0].Articles[0].ID)
	assert.Equal(t, "tue-2", groups[0].Articles[1].ID)
	assert.NotEmpty(t, groups[0].Label)
}

func TestGroupFeedsByFolder(t *testing.T) {
	f1 := "f1"
	feeds := []feed.Feed{
		{ID: "1", FolderID: &f1},
		{ID: "2"},
		{ID: "3", FolderID: &f1},
	}
	folders := []feed.Folder{{ID: "f1", Name: "Tech"}, {ID: "f2", Name: "Empty"}}

	tree := GroupFeedsByFolder(feeds, folders)
	require.Len(t, tree.Groups, 2)
	assert.Len(t, tree.Groups[0].Feeds, 2)
	assert.Empty(t, tree.Groups[1].Feeds)
	require.Len(t, tree.Ungrouped, 1)
	assert.Equal(t, "2", tree.Ungrouped[0].ID)
}

func TestGroupFeedsByFolderUnknownFolder(t *testing.T) {
	gone := "deleted"
	tree := GroupFeedsByFolder([]feed.Feed{{ID: "1", FolderID: &gone}}, nil)
	assert.Empty(t, tree.Groups)
	require.Len(t, tree.Ungrouped, 1)
}

func TestPresenterMemoizesUntilInputsChange(t *testing.T) {
	p := New()

	s := state.Initial()
	s.SelectedFeedID = feed.AllArticlesID
	s.AllArticles = []feed.Article{{ID: "a", PubDate: day(1, 0)}}

	first := p.VisibleArticles(s, "")
	second := p.VisibleArticles(s, "")
	require.Len(t, first, 1)
	assert.Same(t, &first[0], &second[0], "same inputs reuse the cached slice")

	// The reducer reallocates AllArticles on change; a new backing
	// array invalidates the cache.
	s2 := state.Reduce(s, state.MarkArticleRead{ArticleID: "a"})
	third := p.VisibleArticles(s2, "")
	require.Len(t, third, 1)
	assert.True(t, third[0].IsRead)

	tree1 := p.FeedsByFolder(s)
	tree2 := p.FeedsByFolder(s)
	assert.Equal(t, tree1, tree2)
}
