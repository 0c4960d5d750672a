package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlag/feedra/internal/domain/feed"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/v1")
}

func TestGetFeedsTranslatesWireFormat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/feeds/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "Go Blog", "url": "https://go.dev/blog/feed.atom", "folder_id": 7, "last_fetched": "2026-08-01T10:00:00Z"},
			{"id": 2, "title": "Unfiled", "url": "https://example.com/rss", "folder_id": null}
		]`))
	})

	feeds, err := c.GetFeeds(context.Background())
	require.NoError(t, err)
	require.Len(t, feeds, 2)

	assert.Equal(t, "1", feeds[0].ID)
	assert.Equal(t, "Go Blog", feeds[0].Title)
	require.NotNil(t, feeds[0].FolderID)
	assert.Equal(t, "7", *feeds[0].FolderID)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), feeds[0].LastFetched)

	assert.Equal(t, "2", feeds[1].ID)
	assert.Nil(t, feeds[1].FolderID)
}

func TestGetArticlesTranslatesWireFormat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/feeds/3/articles/", r.URL.Path)
		_, _ = w.Write([]byte(`[{
			"id": 42,
			"title": "Release notes",
			"link": "https://example.com/a",
			"published_at": "2026-08-02T08:30:00Z",
			"feed_id": 3,
			"feed_title": "Example",
			"content_snippet": "short",
			"image_url": "https://example.com/img.png",
			"is_read": true
		}]`))
	})

	articles, err := c.GetArticles(context.Background(), "3")
	require.NoError(t, err)
	require.Len(t, articles, 1)

	a := articles[0]
	assert.Equal(t, "42", a.ID)
	assert.Equal(t, "3", a.FeedID)
	assert.Equal(t, "Example", a.FeedTitle)
	assert.Equal(t, "short", a.ContentSnippet)
	assert.Equal(t, "https://example.com/img.png", a.ImageURL)
	assert.True(t, a.IsRead)
	assert.Equal(t, time.Date(2026, 8, 2, 8, 30, 0, 0, time.UTC), a.PubDate)
}

func TestAddFeedSendsFolderAndSurfacesDuplicateError(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got map[string]any
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"id": 9, "title": "New", "url": "https://example.com/rss", "folder_id": 4}`))
		})

		folderID := "4"
		f, err := c.AddFeed(context.Background(), "https://example.com/rss", "New", &folderID)
		require.NoError(t, err)
		assert.Equal(t, "9", f.ID)
		assert.Equal(t, "https://example.com/rss", got["url"])
		assert.Equal(t, "New", got["title"])
		assert.Equal(t, "4", got["folder_id"])
	})

	t.Run("duplicate", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail": "Feed already exists"}`))
		})

		_, err := c.AddFeed(context.Background(), "https://example.com/rss", "Dup", nil)
		require.Error(t, err)
		assert.Equal(t, "Feed already exists", err.Error())

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})
}

func TestMoveFeedToFolderSendsTarget(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/feeds/5/move", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id": 5, "title": "Moved", "url": "u", "folder_id": null}`))
	})

	f, err := c.MoveFeedToFolder(context.Background(), "5", nil)
	require.NoError(t, err)
	assert.Nil(t, f.FolderID)
	require.Contains(t, got, "target_folder_id")
	assert.Nil(t, got["target_folder_id"])
}

func TestMarkArticleAsRead(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/articles/42/read", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.MarkArticleAsRead(context.Background(), "42"))
}

func TestUpdateSettingsSendsOnlyChangedFields(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/settings/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id": 1, "auto_cleanup_enabled": true, "auto_cleanup_days": 30, "refresh_interval_minutes": 10}`))
	})

	minutes := 10
	s, err := c.UpdateSettings(context.Background(), feed.SettingsUpdate{RefreshIntervalMinutes: &minutes})
	require.NoError(t, err)
	assert.Equal(t, 10, s.RefreshIntervalMinutes)

	assert.Equal(t, map[string]any{"refresh_interval_minutes": float64(10)}, got)
}

func TestErrorMessageFallsBackToBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	err := c.DeleteFeed(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}

func TestErrorMessageEmptyBodyUsesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.DeleteFolder(context.Background(), "1")
	require.Error(t, err)
	assert.Equal(t, "request failed with status 502", err.Error())
}
