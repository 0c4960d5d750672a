package local

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"

	"github.com/mlag/feedra/internal/domain/feed"
)

const feedAcceptHeader = "application/atom+xml, application/rss+xml, application/feed+json, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5"

const snippetLimit = 300

type acceptTransport struct {
	base http.RoundTripper
}

func (t acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	if clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", feedAcceptHeader)
	}
	return base.RoundTrip(clone)
}

// ParserFunc is exposed for testing.
// It allows mocking the feed parsing logic.
var ParserFunc = defaultParser

func defaultParser(ctx context.Context, url string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "Feedra/1.0"
	fp.Client = &http.Client{Transport: acceptTransport{base: http.DefaultTransport}}
	return fp.ParseURLWithContext(url, ctx)
}

// Service serves reader data from the embedded database, pulling feed
// content over the network on demand.
type Service struct {
	db  *DB
	now func() time.Time
}

// NewService wraps an open database.
func NewService(db *DB) *Service {
	return &Service{db: db, now: time.Now}
}

// GetFeeds returns every subscribed feed.
func (s *Service) GetFeeds(ctx context.Context) ([]feed.Feed, error) {
	return s.db.feeds()
}

// GetFolders returns every folder.
func (s *Service) GetFolders(ctx context.Context) ([]feed.Folder, error) {
	return s.db.folders()
}

// GetArticles refreshes a feed from its source and returns the stored
// articles, newest first. Read flags survive the refresh.
func (s *Service) GetArticles(ctx context.Context, feedID string) ([]feed.Article, error) {
	id, err := parseID(feedID)
	if err != nil {
		return nil, err
	}
	f, err := s.db.feedByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.refreshFeed(ctx, id, f.URL); err != nil {
		return nil, err
	}
	return s.db.articlesForFeed(id)
}

func (s *Service) refreshFeed(ctx context.Context, id int64, url string) error {
	parsed, err := ParserFunc(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	for _, item := range parsed.Items {
		a := itemToArticle(item)
		guid := item.GUID
		if guid == "" {
			guid = item.Link
		}
		if err := s.db.upsertArticle(id, guid, a); err != nil {
			return err
		}
	}
	return s.db.touchFeed(id, s.now())
}

// AddFeed validates the URL by fetching it, then stores the
// subscription. The parsed feed title fills in when none is given.
func (s *Service) AddFeed(ctx context.Context, url, title string, folderID *string) (feed.Feed, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return feed.Feed{}, errors.New("feed url is empty")
	}
	exists, err := s.db.feedURLExists(url)
	if err != nil {
		return feed.Feed{}, err
	}
	if exists {
		return feed.Feed{}, errors.New("This feed source already exists")
	}

	parsed, err := ParserFunc(ctx, url)
	if err != nil {
		return feed.Feed{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	if title == "" {
		title = parsed.Title
	}

	var fid *int64
	if folderID != nil {
		id, err := parseID(*folderID)
		if err != nil {
			return feed.Feed{}, err
		}
		fid = &id
	}

	f := feed.Feed{
		Title:       title,
		URL:         url,
		Description: parsed.Description,
		Link:        parsed.Link,
		LastFetched: s.now(),
	}
	if parsed.Image != nil {
		f.Favicon = parsed.Image.URL
	}
	id, err := s.db.insertFeed(f, fid)
	if err != nil {
		return feed.Feed{}, err
	}
	for _, item := range parsed.Items {
		guid := item.GUID
		if guid == "" {
			guid = item.Link
		}
		if err := s.db.upsertArticle(id, guid, itemToArticle(item)); err != nil {
			return feed.Feed{}, err
		}
	}
	return s.db.feedByID(id)
}

// DeleteFeed removes a feed and its articles.
func (s *Service) DeleteFeed(ctx context.Context, feedID string) error {
	id, err := parseID(feedID)
	if err != nil {
		return err
	}
	return s.db.deleteFeed(id)
}

// MoveFeedToFolder reassigns a feed's folder. A nil folder id unfiles
// the feed.
func (s *Service) MoveFeedToFolder(ctx context.Context, feedID string, folderID *string) (feed.Feed, error) {
	id, err := parseID(feedID)
	if err != nil {
		return feed.Feed{}, err
	}
	var fid *int64
	if folderID != nil {
		parsed, err := parseID(*folderID)
		if err != nil {
			return feed.Feed{}, err
		}
		fid = &parsed
	}
	return s.db.moveFeed(id, fid)
}

// AddFolder creates a folder.
func (s *Service) AddFolder(ctx context.Context, name string) (feed.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return feed.Folder{}, errors.New("folder name is empty")
	}
	return s.db.insertFolder(name)
}

// RenameFolder changes a folder's name.
func (s *Service) RenameFolder(ctx context.Context, folderID, newName string) (feed.Folder, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return feed.Folder{}, errors.New("folder name is empty")
	}
	id, err := parseID(folderID)
	if err != nil {
		return feed.Folder{}, err
	}
	return s.db.renameFolder(id, newName)
}

// DeleteFolder removes a folder, unfiling its feeds.
func (s *Service) DeleteFolder(ctx context.Context, folderID string) error {
	id, err := parseID(folderID)
	if err != nil {
		return err
	}
	return s.db.deleteFolder(id)
}

// MarkArticleAsRead persists the read flag.
func (s *Service) MarkArticleAsRead(ctx context.Context, articleID string) error {
	id, err := parseID(articleID)
	if err != nil {
		return err
	}
	return s.db.markArticleRead(id)
}

// GetSettings returns the stored reader settings.
func (s *Service) GetSettings(ctx context.Context) (feed.Settings, error) {
	return s.db.settings()
}

// UpdateSettings applies a partial settings change. When auto cleanup
// ends up enabled, old read articles are pruned right away.
func (s *Service) UpdateSettings(ctx context.Context, update feed.SettingsUpdate) (feed.Settings, error) {
	settings, err := s.db.updateSettings(update)
	if err != nil {
		return feed.Settings{}, err
	}
	if settings.AutoCleanupEnabled && settings.AutoCleanupDays > 0 {
		cutoff := s.now().AddDate(0, 0, -settings.AutoCleanupDays)
		if _, err := s.db.deleteReadArticlesBefore(cutoff); err != nil {
			return feed.Settings{}, err
		}
	}
	return settings, nil
}

func itemToArticle(item *gofeed.Item) feed.Article {
	var date time.Time
	if item.PublishedParsed != nil {
		date = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		date = *item.UpdatedParsed
	}
	content := item.Content
	if content == "" {
		content = item.Description
	}
	a := feed.Article{
		Title:          item.Title,
		Link:           item.Link,
		PubDate:        date,
		Content:        content,
		ContentSnippet: snippet(item.Description),
	}
	if a.ContentSnippet == "" {
		a.ContentSnippet = snippet(content)
	}
	if len(item.Authors) > 0 {
		a.Author = item.Authors[0].Name
	}
	if item.Image != nil {
		a.ImageURL = item.Image.URL
	}
	return a
}

// snippet strips markup and truncates to a preview length.
func snippet(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	if len(out) > snippetLimit {
		cut := snippetLimit
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
		if i := strings.LastIndexByte(out, ' '); i > 0 {
			out = out[:i]
		}
		out += "…"
	}
	return out
}
