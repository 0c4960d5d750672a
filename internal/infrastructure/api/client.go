// Package api implements the data service against the feedra HTTP
// backend. The backend speaks snake_case JSON under /api/v1 and uses
// integer ids, which are carried as strings everywhere else in the
// program.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mlag/feedra/internal/domain/feed"
)

const defaultTimeout = 15 * time.Second

// Error is a non-2xx backend response. Message carries the server's
// detail text verbatim so duplicate-feed errors read the way the
// backend phrased them.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL, e.g.
// "http://localhost:8000/api/v1".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// NewWithHTTPClient is exposed for testing.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type feedDTO struct {
	ID          json.Number  `json:"id"`
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Description string       `json:"description"`
	Link        string       `json:"link"`
	LastFetched string       `json:"last_fetched"`
	Favicon     string       `json:"favicon"`
	FolderID    *json.Number `json:"folder_id"`
}

func (d feedDTO) toDomain() feed.Feed {
	f := feed.Feed{
		ID:          d.ID.String(),
		Title:       d.Title,
		URL:         d.URL,
		Description: d.Description,
		Link:        d.Link,
		LastFetched: parseTime(d.LastFetched),
		Favicon:     d.Favicon,
	}
	if d.FolderID != nil {
		id := d.FolderID.String()
		f.FolderID = &id
	}
	return f
}

type folderDTO struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

func (d folderDTO) toDomain() feed.Folder {
	return feed.Folder{ID: d.ID.String(), Name: d.Name}
}

type articleDTO struct {
	ID             json.Number `json:"id"`
	Title          string      `json:"title"`
	Link           string      `json:"link"`
	PublishedAt    string      `json:"published_at"`
	FeedID         json.Number `json:"feed_id"`
	FeedTitle      string      `json:"feed_title"`
	Content        string      `json:"content"`
	ContentSnippet string      `json:"content_snippet"`
	Author         string      `json:"author"`
	ImageURL       string      `json:"image_url"`
	IsRead         bool        `json:"is_read"`
}

func (d articleDTO) toDomain() feed.Article {
	return feed.Article{
		ID:             d.ID.String(),
		Title:          d.Title,
		Link:           d.Link,
		PubDate:        parseTime(d.PublishedAt),
		FeedID:         d.FeedID.String(),
		FeedTitle:      d.FeedTitle,
		Content:        d.Content,
		ContentSnippet: d.ContentSnippet,
		Author:         d.Author,
		ImageURL:       d.ImageURL,
		IsRead:         d.IsRead,
	}
}

type settingsDTO struct {
	ID                     int  `json:"id"`
	AutoCleanupEnabled     bool `json:"auto_cleanup_enabled"`
	AutoCleanupDays        int  `json:"auto_cleanup_days"`
	RefreshIntervalMinutes int  `json:"refresh_interval_minutes"`
}

func (d settingsDTO) toDomain() feed.Settings {
	return feed.Settings{
		ID:                     d.ID,
		AutoCleanupEnabled:     d.AutoCleanupEnabled,
		AutoCleanupDays:        d.AutoCleanupDays,
		RefreshIntervalMinutes: d.RefreshIntervalMinutes,
	}
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GetFeeds fetches every subscribed feed.
func (c *Client) GetFeeds(ctx context.Context) ([]feed.Feed, error) {
	var dtos []feedDTO
	if err := c.do(ctx, http.MethodGet, "/feeds/", nil, &dtos); err != nil {
		return nil, err
	}
	feeds := make([]feed.Feed, len(dtos))
	for i, d := range dtos {
		feeds[i] = d.toDomain()
	}
	return feeds, nil
}

// GetFolders fetches every folder.
func (c *Client) GetFolders(ctx context.Context) ([]feed.Folder, error) {
	var dtos []folderDTO
	if err := c.do(ctx, http.MethodGet, "/folders/", nil, &dtos); err != nil {
		return nil, err
	}
	folders := make([]feed.Folder, len(dtos))
	for i, d := range dtos {
		folders[i] = d.toDomain()
	}
	return folders, nil
}

// GetArticles fetches the articles of a single feed. The trailing
// slash avoids a 307 from the backend router.
func (c *Client) GetArticles(ctx context.Context, feedID string) ([]feed.Article, error) {
	var dtos []articleDTO
	if err := c.do(ctx, http.MethodGet, "/feeds/"+feedID+"/articles/", nil, &dtos); err != nil {
		return nil, err
	}
	articles := make([]feed.Article, len(dtos))
	for i, d := range dtos {
		articles[i] = d.toDomain()
	}
	return articles, nil
}

// AddFeed subscribes to a feed. The backend rejects duplicates with a
// message that is passed through to the caller.
func (c *Client) AddFeed(ctx context.Context, url, title string, folderID *string) (feed.Feed, error) {
	body := map[string]any{"url": url, "title": title, "folder_id": folderID}
	var dto feedDTO
	if err := c.do(ctx, http.MethodPost, "/feeds/", body, &dto); err != nil {
		return feed.Feed{}, err
	}
	return dto.toDomain(), nil
}

// DeleteFeed unsubscribes a feed.
func (c *Client) DeleteFeed(ctx context.Context, feedID string) error {
	return c.do(ctx, http.MethodDelete, "/feeds/"+feedID, nil, nil)
}

// MoveFeedToFolder reassigns a feed's folder. A nil folder id moves the
// feed out of every folder.
func (c *Client) MoveFeedToFolder(ctx context.Context, feedID string, folderID *string) (feed.Feed, error) {
	body := map[string]any{"target_folder_id": folderID}
	var dto feedDTO
	if err := c.do(ctx, http.MethodPatch, "/feeds/"+feedID+"/move", body, &dto); err != nil {
		return feed.Feed{}, err
	}
	return dto.toDomain(), nil
}

// AddFolder creates a folder.
func (c *Client) AddFolder(ctx context.Context, name string) (feed.Folder, error) {
	var dto folderDTO
	if err := c.do(ctx, http.MethodPost, "/folders/", map[string]any{"name": name}, &dto); err != nil {
		return feed.Folder{}, err
	}
	return dto.toDomain(), nil
}

// RenameFolder changes a folder's name.
func (c *Client) RenameFolder(ctx context.Context, folderID, newName string) (feed.Folder, error) {
	var dto folderDTO
	if err := c.do(ctx, http.MethodPut, "/folders/"+folderID, map[string]any{"name": newName}, &dto); err != nil {
		return feed.Folder{}, err
	}
	return dto.toDomain(), nil
}

// DeleteFolder removes a folder. Feeds inside it survive and become
// unfiled.
func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	return c.do(ctx, http.MethodDelete, "/folders/"+folderID, nil, nil)
}

// MarkArticleAsRead persists the read flag for an article.
func (c *Client) MarkArticleAsRead(ctx context.Context, articleID string) error {
	return c.do(ctx, http.MethodPut, "/articles/"+articleID+"/read", map[string]any{}, nil)
}

// GetSettings fetches the server-side reader settings.
func (c *Client) GetSettings(ctx context.Context) (feed.Settings, error) {
	var dto settingsDTO
	if err := c.do(ctx, http.MethodGet, "/settings/", nil, &dto); err != nil {
		return feed.Settings{}, err
	}
	return dto.toDomain(), nil
}

// UpdateSettings applies a partial settings change and returns the
// resulting settings.
func (c *Client) UpdateSettings(ctx context.Context, update feed.SettingsUpdate) (feed.Settings, error) {
	body := map[string]any{}
	if update.AutoCleanupEnabled != nil {
		body["auto_cleanup_enabled"] = *update.AutoCleanupEnabled
	}
	if update.AutoCleanupDays != nil {
		body["auto_cleanup_days"] = *update.AutoCleanupDays
	}
	if update.RefreshIntervalMinutes != nil {
		body["refresh_interval_minutes"] = *update.RefreshIntervalMinutes
	}
	var dto settingsDTO
	if err := c.do(ctx, http.MethodPut, "/settings/", body, &dto); err != nil {
		return feed.Settings{}, err
	}
	return dto.toDomain(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the human-readable part out of an error body. The
// backend wraps messages in a "detail" field; plain text bodies are
// kept as-is.
func errorMessage(body []byte) string {
	var wrapped struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Message != "" {
			return wrapped.Message
		}
		if len(wrapped.Detail) > 0 {
			var s string
			if json.Unmarshal(wrapped.Detail, &s) == nil {
				return s
			}
			return string(wrapped.Detail)
		}
	}
	return strings.TrimSpace(string(body))
}
