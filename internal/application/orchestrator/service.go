// Package orchestrator coordinates the remote data service with the
// state store: bootstrap, background refresh, article fan-out, and the
// user-initiated mutations.
package orchestrator

import (
	"context"

	"github.com/mlag/feedra/internal/domain/feed"
)

// Service is the remote data contract the coordinator depends on. Every
// call may block on network I/O; failures carry the message that gets
// surfaced to the user.
type Service interface {
	GetFeeds(ctx context.Context) ([]feed.Feed, error)
	GetFolders(ctx context.Context) ([]feed.Folder, error)
	GetArticles(ctx context.Context, feedID string) ([]feed.Article, error)

	AddFeed(ctx context.Context, url, title string, folderID *string) (feed.Feed, error)
	DeleteFeed(ctx context.Context, feedID string) error
	AddFolder(ctx context.Context, name string) (feed.Folder, error)
	RenameFolder(ctx context.Context, folderID, newName string) (feed.Folder, error)
	DeleteFolder(ctx context.Context, folderID string) error
	MoveFeedToFolder(ctx context.Context, feedID string, folderID *string) (feed.Feed, error)

	MarkArticleAsRead(ctx context.Context, articleID string) error

	GetSettings(ctx context.Context) (feed.Settings, error)
	UpdateSettings(ctx context.Context, update feed.SettingsUpdate) (feed.Settings, error)
}
