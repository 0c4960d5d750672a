package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlag/feedra/internal/domain/feed"
	"github.com/mlag/feedra/internal/state"
)

// stubService is a scriptable in-memory Service that counts calls.
type stubService struct {
	mu sync.Mutex

	feeds   []feed.Feed
	folders []feed.Folder
	// articles by feed id; a feed present in errArticles fails instead.
	articles    map[string][]feed.Article
	errArticles map[string]error

	feedsErr    error
	foldersErr  error
	markReadErr error

	getFeedsCalls    int
	getFoldersCalls  int
	getArticlesCalls map[string]int
	markReadCalls    int
}

func newStubService() *stubService {
	return &stubService{
		articles:         map[string][]feed.Article{},
		errArticles:      map[string]error{},
		getArticlesCalls: map[string]int{},
	}
}

func (s *stubService) GetFeeds(context.Context) ([]feed.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getFeedsCalls++
	if s.feedsErr != nil {
		return nil, s.feedsErr
	}
	return append([]feed.Feed(nil), s.feeds...), nil
}

func (s *stubService) GetFolders(context.Context) ([]feed.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getFoldersCalls++
	if s.foldersErr != nil {
		return nil, s.foldersErr
	}
	return append([]feed.Folder(nil), s.folders...), nil
}

func (s *stubService) GetArticles(_ context.Context, feedID string) ([]feed.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getArticlesCalls[feedID]++
	if err := s.errArticles[feedID]; err != nil {
		return nil, err
	}
	return append([]feed.Article(nil), s.articles[feedID]...), nil
}

func (s *stubService) AddFeed(_ context.Context, url, title string, folderID *string) (feed.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feedsErr != nil {
		return feed.Feed{}, s.feedsErr
	}
	created := feed.Feed{ID: "new", URL: url, Title: title, FolderID: folderID}
	s.feeds = append(s.feeds, created)
	return created, nil
}

func (s *stubService) DeleteFeed(_ context.Context, feedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedsErr
}

func (s *stubService) AddFolder(_ context.Context, name string) (feed.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.foldersErr != nil {
		return feed.Folder{}, s.foldersErr
	}
	return feed.Folder{ID: "newfolder", Name: name}, nil
}

func (s *stubService) RenameFolder(_ context.Context, folderID, newName string) (feed.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.foldersErr != nil {
		return feed.Folder{}, s.foldersErr
	}
	return feed.Folder{ID: folderID, Name: newName}, nil
}

func (s *stubService) DeleteFolder(_ context.Context, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.foldersErr
}

func (s *stubService) MoveFeedToFolder(_ context.Context, feedID string, folderID *string) (feed.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feedsErr != nil {
		return feed.Feed{}, s.feedsErr
	}
	return feed.Feed{ID: feedID, FolderID: folderID}, nil
}

func (s *stubService) MarkArticleAsRead(_ context.Context, articleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markReadCalls++
	return s.markReadErr
}

func (s *stubService) GetSettings(context.Context) (feed.Settings, error) {
	return feed.Settings{RefreshIntervalMinutes: 15}, nil
}

func (s *stubService) UpdateSettings(_ context.Context, update feed.SettingsUpdate) (feed.Settings, error) {
	out := feed.Settings{RefreshIntervalMinutes: 15}
	if update.RefreshIntervalMinutes != nil {
		out.RefreshIntervalMinutes = *update.RefreshIntervalMinutes
	}
	return out, nil
}

func (s *stubService) feedCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getFeedsCalls
}

func (s *stubService) articleCalls(feedID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getArticlesCalls[feedID]
}

func (s *stubService) totalArticleCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.getArticlesCalls {
		total += n
	}
	return total
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func TestBootstrapCommitsFeedsAndFoldersAndFansOut(t *testing.T) {
	svc := newStubService()
	svc.feeds = []feed.Feed{{ID: "1", Title: "Go Blog"}, {ID: "2", Title: "HN"}}
	svc.folders = []feed.Folder{{ID: "f1", Name: "Tech"}}
	svc.articles["1"] = []feed.Article{{ID: "a1", FeedID: "1"}}
	svc.articles["2"] = []feed.Article{{ID: "a2", FeedID: "2"}}

	st := state.NewStore()
	o := New(st, svc, time.Hour)
	o.Start(context.Background())
	defer o.Stop()

	eventually(t, func() bool {
		s := st.State()
		return len(s.Feeds) == 2 && len(s.AllArticles) == 2 && !s.LoadingAllArticles
	}, "bootstrap should commit collections and aggregate articles")

	s := st.State()
	assert.Empty(t, s.Err)
	assert.Len(t, s.Folders, 1)
	assert.Equal(t, feed.AllArticlesID, s.SelectedFeedID)
}

func TestBootstrapFailureCommitsNothing(t *testing.T) {
	svc := newStubService()
	svc.feeds = []feed.Feed{{ID: "1"}}
	svc.foldersErr = errors.New("folders unavailable")

	st := state.NewStore()
	o := New(st, svc, time.Hour)
	o.Bootstrap(context.Background())

	s := st.State()
	assert.Equal(t, "folders unavailable", s.Err)
	assert.False(t, s.LoadingFeeds)
	assert.False(t, s.LoadingFolders)
	assert.Empty(t, s.Feeds)
	assert.Empty(t, s.Folders)
}

// Scenario: with zero feeds the aggregate view settles to an empty
// list without a single article fetch.
func TestBootstrapZeroFeedsSkipsFanOut(t *testing.T) {
	svc := newStubService()

	st := state.NewStore()
	o := New(st, svc, time.Hour)
	o.Start(context.Background())
	defer o.Stop()

	eventually(t, func() bool {
		s := st.State()
		return !s.LoadingFeeds && s.AllArticles != nil && !s.LoadingAllArticles
	}, "aggregate list should settle to empty")

	assert.Empty(t, st.State().AllArticles)
	assert.Zero(t, svc.totalArticleCalls())
}

func TestFanOutToleratesPartialFailure(t *testing.T) {
	svc := newStubService()
	svc.feeds = []feed.Feed{{ID: "ok"}, {ID: "bad"}}
	svc.articles["ok"] = []feed.Article{{ID: "a1", FeedID: "ok"}}
	svc.errArticles["bad"] = errors.New("timeout")

	st := state.NewStore()
	o := New(st, svc, time.Hour)
	o.Start(context.Background())
	defer o.Stop()

	eventually(t, func() bool {
		s := st.State()
		return len(s.AllArticles) == 1 && !s.LoadingAllArticles
	}, "fulfilled results should land despite the failed feed")

	assert.Empty(t, st.State().Err, "partial fan-out failure is never surfaced")
}

func TestSelectFeedLazilyLoadsOnce(t *testing.T) {
	svc := newStubService()
	svc.articles["1"] = []feed.Article{{ID: "a1", FeedID: "1"}}

	st := state.NewStore()
	o := New(st, svc, time.Hour)

	o.SelectFeed(context.Background(), "1")
	s := st.State()
	assert.Equal(t, "1", s.SelectedFeedID)
	require.Contains(t, s.ArticlesByFeed, "1")
	assert.Len(t, s.ArticlesByFeed["1"], 1)
	assert.Equal(t, 1, svc.articleCalls("1"))

	// Second visit hits the cache.
	o.SelectFeed(context.Background(), "1")
	assert.Equal(t, 1, svc.articleCalls("1"))
}

func TestSelectFeedFailureCachesEmpty(t *testing.T) {
	svc := newStubService()
	svc.errArticles["1"] = errors.New("boom")

	st := state.NewStore()
	o := New(st, svc, time.Hour)
	o.SelectFeed(context.Background(), "1")

	s := st.State()
	assert.Equal(t, "boom", s.Err)
	cached, ok := s.ArticlesByFeed["1"]
	require.True(t, ok)
	assert.Empty(t, cached)
}

func TestSelectAggregateIssuesNoDirectFetch(t *testing.T) {
	svc := newStubService()
	st := state.NewStore()
	o := New(st, svc, time.Hour)

	o.SelectFeed(context.Background(), feed.AllArticlesID)
	assert.Zero(t, svc.totalArticleCalls())
}

func TestAddFeedFailureIsReturnedForTheForm(t *testing.T) {
	svc := newStubService()
	svc.feedsErr = errors.New("This feed source already exists!!.")

	st := state.NewStore()
	o := New(st, svc, time.Hour)

	err := o.AddFeed(context.Background(), "https://x/feed", "X", nil)
	require.Error(t, err)
	assert.Equal(t, "This feed source already exists!!.", st.State().Err)
}

func TestDeleteFeedFailureIsSwallowed(t *testing.T) {
	svc := newStubService()
	svc.feedsErr = errors.New("gone wrong")

	st := state.NewStore()
	o := New(st, svc, time.Hour)
	o.DeleteFeed(context.Background(), "1")

	assert.Equal(t, "gone wrong", st.State().Err)
}

func TestMutationsStampTheDebounceClock(t *testing.T) {
	svc := newStubService()
	st := state.NewStore()
	o := New(st, svc, time.Hour)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	o.Now = func() time.Time { return now }

	o.DeleteFolder(context.Background(), "f1")

	// A tick inside the debounce window does nothing.
	now = now.Add(5 * time.Second)
	o.refreshTick(context.Background())
	assert.Zero(t, svc.getFeedsCalls)

	// Outside the window the refresh runs.
	now = now.Add(6 * time.Second)
	o.refreshTick(context.Background())
	assert.Equal(t, 1, svc.getFeedsCalls)
	assert.Equal(t, 1, svc.getFoldersCalls)
}

func TestRefreshTickKeepsDataOnFailure(t *testing.T) {
	svc := newStubService()
	svc.feeds = []feed.Feed{{ID: "1"}}

	st := state.NewStore()
	o := New(st, svc, time.Hour)
	o.Bootstrap(context.Background())
	require.Len(t, st.State().Feeds, 1)

	svc.feedsErr = errors.New("refresh failed")
	o.refreshTick(context.Background())

	s := st.State()
	assert.Equal(t, "refresh failed", s.Err)
	assert.Len(t, s.Feeds, 1, "failed refresh never clobbers data")
}

func TestSetRefreshIntervalReschedules(t *testing.T) {
	svc := newStubService()
	st := state.NewStore()
	o := New(st, svc, time.Hour)

	ctx := context.Background()
	o.Start(ctx)
	defer o.Stop()

	// The hourly ticker never fires in the test; the one fetch so far
	// is the bootstrap.
	eventually(t, func() bool { return svc.feedCalls() >= 1 }, "bootstrap should fetch the collections")

	o.SetRefreshInterval(ctx, 10*time.Millisecond)
	base := svc.feedCalls()
	eventually(t, func() bool { return svc.feedCalls() >= base+3 }, "rescheduled ticker should fire repeatedly")

	// Rescheduling back to a long interval cancels the fast ticker.
	o.SetRefreshInterval(ctx, time.Hour)
	time.Sleep(30 * time.Millisecond)
	settled := svc.feedCalls()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, settled, svc.feedCalls(), "cancelled ticker must not keep firing")
}

func TestMarkArticleReadIsOptimisticAndSwallowsPersistence(t *testing.T) {
	svc := newStubService()
	svc.markReadErr = errors.New("write failed")

	st := state.NewStore()
	st.Dispatch(state.LoadAllArticlesSuccess{Articles: []feed.Article{{ID: "a1", FeedID: "1"}}})

	o := New(st, svc, time.Hour)
	o.MarkArticleRead(context.Background(), "a1")

	s := st.State()
	assert.True(t, s.AllArticles[0].IsRead, "optimistic flag sticks")
	assert.Empty(t, s.Err, "persistence failure is not surfaced")
	assert.Equal(t, 1, svc.markReadCalls)
}

func TestErrMsgFallback(t *testing.T) {
	assert.Equal(t, "fallback", errMsg(nil, "fallback"))
	assert.Equal(t, "fallback", errMsg(errors.New("  "), "fallback"))
	assert.Equal(t, "real", errMsg(errors.New("real"), "fallback"))
}
