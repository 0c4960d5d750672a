package orchestrator

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mlag/feedra/internal/domain/feed"
	"github.com/mlag/feedra/internal/state"
)

// DefaultRefreshInterval is used when no interval preference has been
// persisted.
const DefaultRefreshInterval = 15 * time.Minute

// mutationDebounce suppresses a background refresh tick that would land
// right after a user mutation and clobber optimistic UI state.
const mutationDebounce = 10 * time.Second

// Orchestrator drives the store from the remote data service. It owns
// no reactive state itself; the only mutable things here are the
// last-mutation timestamp and the refresh task handle.
type Orchestrator struct {
	store *state.Store
	svc   Service

	// Now is the clock, overridable in tests.
	Now func() time.Time

	mu           sync.Mutex
	lastMutation time.Time
	interval     time.Duration
	stopRefresh  chan struct{}
	unsubscribe  func()

	watchMu      sync.Mutex
	watchSeen    bool
	watchFeeds   sliceKey
	watchSel     string
	watchLoading bool
}

// sliceKey identifies a feed slice by backing array and length, the
// change signal the reducer guarantees by reallocating on update.
type sliceKey struct {
	first *feed.Feed
	len   int
}

func feedsKey(feeds []feed.Feed) sliceKey {
	if len(feeds) == 0 {
		return sliceKey{}
	}
	return sliceKey{first: &feeds[0], len: len(feeds)}
}

// New constructs an orchestrator over the store and service with the
// given background refresh interval.
func New(store *state.Store, svc Service, refreshInterval time.Duration) *Orchestrator {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}
	return new(Orchestrator{
		store:    store,
		svc:      svc,
		interval: refreshInterval,
	})
}

// Start activates the coordinator: it begins watching the feed
// collection for aggregate fan-out, runs the bootstrap load, and starts
// the background refresh task. Stop undoes all of it.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	o.unsubscribe = o.store.Subscribe(o.observe)
	o.mu.Unlock()

	go o.Bootstrap(ctx)
	o.scheduleRefresh(ctx)
}

// Stop cancels the refresh task and stops observing the store.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopRefresh != nil {
		close(o.stopRefresh)
		o.stopRefresh = nil
	}
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
}

// SetRefreshInterval cancels the current refresh schedule and starts a
// new one at the given interval.
func (o *Orchestrator) SetRefreshInterval(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	o.mu.Lock()
	o.interval = interval
	o.mu.Unlock()
	o.scheduleRefresh(ctx)
}

func (o *Orchestrator) scheduleRefresh(ctx context.Context) {
	o.mu.Lock()
	if o.stopRefresh != nil {
		close(o.stopRefresh)
	}
	stop := make(chan struct{})
	o.stopRefresh = stop
	interval := o.interval
	o.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				o.refreshTick(ctx)
			}
		}
	}()
}

// Bootstrap runs the initial load: feeds and folders fetched together,
// committed atomically. The aggregate article fan-out follows from the
// feed watcher once the collections land.
func (o *Orchestrator) Bootstrap(ctx context.Context) {
	o.store.Dispatch(state.InitAppStart{})
	feeds, folders, err := o.fetchFeedsAndFolders(ctx)
	if err != nil {
		o.store.Dispatch(state.InitAppFailure{Err: errMsg(err, "failed to initialize app")})
		return
	}
	o.store.Dispatch(state.InitAppSuccess{Feeds: feeds, Folders: folders})
}

func (o *Orchestrator) refreshTick(ctx context.Context) {
	o.mu.Lock()
	elapsed := o.now().Sub(o.lastMutation)
	o.mu.Unlock()
	if elapsed < mutationDebounce {
		return
	}

	o.store.Dispatch(state.InitAppStart{})
	feeds, folders, err := o.fetchFeedsAndFolders(ctx)
	if err != nil {
		o.store.Dispatch(state.InitAppFailure{Err: errMsg(err, "failed to refresh feeds")})
		return
	}
	o.store.Dispatch(state.InitAppSuccess{Feeds: feeds, Folders: folders})
}

// fetchFeedsAndFolders issues both collection fetches concurrently.
// Either failure fails the pair; nothing is committed on failure.
func (o *Orchestrator) fetchFeedsAndFolders(ctx context.Context) ([]feed.Feed, []feed.Folder, error) {
	var (
		wg         sync.WaitGroup
		feeds      []feed.Feed
		folders    []feed.Folder
		feedsErr   error
		foldersErr error
	)
	wg.Go(func() {
		feeds, feedsErr = o.svc.GetFeeds(ctx)
	})
	wg.Go(func() {
		folders, foldersErr = o.svc.GetFolders(ctx)
	})
	wg.Wait()
	if feedsErr != nil {
		return nil, nil, feedsErr
	}
	if foldersErr != nil {
		return nil, nil, foldersErr
	}
	return feeds, folders, nil
}

// observe is the store listener behind the reactive fan-out: whenever
// the feed collection, the selection, or the feeds-loading flag changes
// while the aggregate view is selected, the aggregate article set is
// rebuilt. Store listeners must not dispatch synchronously, so the work
// runs on its own goroutine.
func (o *Orchestrator) observe(s state.AppState) {
	key := feedsKey(s.Feeds)

	o.watchMu.Lock()
	changed := !o.watchSeen ||
		key != o.watchFeeds ||
		s.SelectedFeedID != o.watchSel ||
		s.LoadingFeeds != o.watchLoading
	o.watchSeen = true
	o.watchFeeds = key
	o.watchSel = s.SelectedFeedID
	o.watchLoading = s.LoadingFeeds
	o.watchMu.Unlock()

	if !changed || s.SelectedFeedID != feed.AllArticlesID {
		return
	}
	switch {
	case len(s.Feeds) == 0:
		go o.store.Dispatch(state.LoadAllArticlesSuccess{Articles: []feed.Article{}})
	case !s.LoadingFeeds:
		feeds := s.Feeds
		go o.loadAllArticles(context.Background(), feeds)
	}
}

// loadAllArticles fans out one article fetch per feed, settles them
// all, and commits the concatenation of the fulfilled results. A single
// feed's failure is logged and dropped, never fatal.
func (o *Orchestrator) loadAllArticles(ctx context.Context, feeds []feed.Feed) {
	o.store.Dispatch(state.LoadAllArticlesStart{})

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		all []feed.Article
	)
	for _, f := range feeds {
		wg.Go(func() {
			articles, err := o.svc.GetArticles(ctx, f.ID)
			if err != nil {
				log.Printf("feedra: loading articles for feed %s failed: %v", f.ID, err)
				return
			}
			mu.Lock()
			all = append(all, articles...)
			mu.Unlock()
		})
	}
	wg.Wait()

	if all == nil {
		all = []feed.Article{}
	}
	o.store.Dispatch(state.LoadAllArticlesSuccess{Articles: all})
}

// SelectFeed switches the selection and lazily loads a concrete feed's
// articles on first visit. The aggregate view's articles are handled by
// the reactive fan-out instead.
func (o *Orchestrator) SelectFeed(ctx context.Context, feedID string) {
	before := o.store.State()
	o.store.Dispatch(state.SelectFeed{FeedID: feedID})

	if feedID == "" || feedID == feed.AllArticlesID {
		return
	}
	if _, cached := before.ArticlesByFeed[feedID]; cached || before.LoadingFeedArticles {
		return
	}

	o.store.Dispatch(state.LoadFeedArticlesStart{FeedID: feedID})
	articles, err := o.svc.GetArticles(ctx, feedID)
	if err != nil {
		o.store.Dispatch(state.LoadFeedArticlesFailure{FeedID: feedID, Err: errMsg(err, "failed to load articles")})
		return
	}
	o.store.Dispatch(state.LoadFeedArticlesSuccess{FeedID: feedID, Articles: articles})
}

// MarkArticleRead applies the optimistic read flag immediately, then
// persists it. A persistence failure is logged and otherwise dropped;
// the local flag is never reverted.
func (o *Orchestrator) MarkArticleRead(ctx context.Context, articleID string) {
	o.store.Dispatch(state.MarkArticleRead{ArticleID: articleID})
	if err := o.svc.MarkArticleAsRead(ctx, articleID); err != nil {
		log.Printf("feedra: marking article %s read on the backend failed: %v", articleID, err)
	}
}

// AddFeed creates a feed. The error is surfaced through state and also
// returned so the add-feed form can render it inline and stay open.
func (o *Orchestrator) AddFeed(ctx context.Context, url, title string, folderID *string) error {
	o.stampMutation()
	o.store.Dispatch(state.AddFeedStart{})
	created, err := o.svc.AddFeed(ctx, url, title, folderID)
	if err != nil {
		o.store.Dispatch(state.AddFeedFailure{Err: errMsg(err, "failed to add feed")})
		return err
	}
	o.store.Dispatch(state.AddFeedSuccess{Feed: created})
	return nil
}

// DeleteFeed removes a feed. Failures surface through state only; once
// attempted, the delete has no form left to report into.
func (o *Orchestrator) DeleteFeed(ctx context.Context, feedID string) {
	o.stampMutation()
	o.store.Dispatch(state.DeleteFeedStart{})
	if err := o.svc.DeleteFeed(ctx, feedID); err != nil {
		o.store.Dispatch(state.DeleteFeedFailure{Err: errMsg(err, "failed to delete feed")})
		return
	}
	o.store.Dispatch(state.DeleteFeedSuccess{FeedID: feedID})
}

// AddFolder creates a folder; the error is returned for inline display.
func (o *Orchestrator) AddFolder(ctx context.Context, name string) error {
	o.stampMutation()
	o.store.Dispatch(state.AddFolderStart{})
	created, err := o.svc.AddFolder(ctx, name)
	if err != nil {
		o.store.Dispatch(state.AddFolderFailure{Err: errMsg(err, "failed to add folder")})
		return err
	}
	o.store.Dispatch(state.AddFolderSuccess{Folder: created})
	return nil
}

// RenameFolder renames a folder; the error is returned for inline
// display.
func (o *Orchestrator) RenameFolder(ctx context.Context, folderID, newName string) error {
	o.stampMutation()
	o.store.Dispatch(state.RenameFolderStart{})
	renamed, err := o.svc.RenameFolder(ctx, folderID, newName)
	if err != nil {
		o.store.Dispatch(state.RenameFolderFailure{Err: errMsg(err, "failed to rename folder")})
		return err
	}
	o.store.Dispatch(state.RenameFolderSuccess{Folder: renamed})
	return nil
}

// DeleteFolder removes a folder. Failures surface through state only.
func (o *Orchestrator) DeleteFolder(ctx context.Context, folderID string) {
	o.stampMutation()
	o.store.Dispatch(state.DeleteFolderStart{})
	if err := o.svc.DeleteFolder(ctx, folderID); err != nil {
		o.store.Dispatch(state.DeleteFolderFailure{Err: errMsg(err, "failed to delete folder")})
		return
	}
	o.store.Dispatch(state.DeleteFolderSuccess{FolderID: folderID})
}

// MoveFeedToFolder refiles a feed; the error is returned for inline
// display.
func (o *Orchestrator) MoveFeedToFolder(ctx context.Context, feedID string, folderID *string) error {
	o.stampMutation()
	o.store.Dispatch(state.MoveFeedStart{})
	moved, err := o.svc.MoveFeedToFolder(ctx, feedID, folderID)
	if err != nil {
		o.store.Dispatch(state.MoveFeedFailure{Err: errMsg(err, "failed to move feed")})
		return err
	}
	o.store.Dispatch(state.MoveFeedSuccess{Feed: moved})
	return nil
}

// LoadSettings fetches the server-side reader settings.
func (o *Orchestrator) LoadSettings(ctx context.Context) (feed.Settings, error) {
	return o.svc.GetSettings(ctx)
}

// UpdateSettings applies a partial settings change on the server.
func (o *Orchestrator) UpdateSettings(ctx context.Context, update feed.SettingsUpdate) (feed.Settings, error) {
	return o.svc.UpdateSettings(ctx, update)
}

func (o *Orchestrator) stampMutation() {
	o.mu.Lock()
	o.lastMutation = o.now()
	o.mu.Unlock()
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func errMsg(err error, fallback string) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return fallback
	}
	return err.Error()
}
