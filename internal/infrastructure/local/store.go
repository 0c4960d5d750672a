// Package local implements the data service against an embedded SQLite
// database, fetching feed content directly instead of going through a
// backend.
package local

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mlag/feedra/internal/domain/feed"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS feeds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		folder_id INTEGER REFERENCES folders(id) ON DELETE SET NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		description TEXT DEFAULT '',
		link TEXT DEFAULT '',
		favicon TEXT DEFAULT '',
		last_fetched DATETIME
	);
	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		feed_id INTEGER NOT NULL REFERENCES feeds(id) ON DELETE CASCADE,
		guid TEXT NOT NULL,
		title TEXT NOT NULL,
		link TEXT DEFAULT '',
		published_at DATETIME,
		content TEXT DEFAULT '',
		content_snippet TEXT DEFAULT '',
		author TEXT DEFAULT '',
		image_url TEXT DEFAULT '',
		is_read INTEGER DEFAULT 0,
		UNIQUE(feed_id, guid)
	);
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		auto_cleanup_enabled INTEGER NOT NULL DEFAULT 0,
		auto_cleanup_days INTEGER NOT NULL DEFAULT 30,
		refresh_interval_minutes INTEGER NOT NULL DEFAULT 15
	);
	INSERT OR IGNORE INTO settings (id) VALUES (1);
	`
	_, err := db.conn.Exec(schema)
	return err
}

func (db *DB) folders() ([]feed.Folder, error) {
	rows, err := db.conn.Query("SELECT id, name FROM folders ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var folders []feed.Folder
	for rows.Next() {
		var id int64
		var f feed.Folder
		if err := rows.Scan(&id, &f.Name); err != nil {
			return nil, err
		}
		f.ID = formatID(id)
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (db *DB) insertFolder(name string) (feed.Folder, error) {
	res, err := db.conn.Exec("INSERT INTO folders (name) VALUES (?)", name)
	if err != nil {
		return feed.Folder{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return feed.Folder{}, err
	}
	return feed.Folder{ID: formatID(id), Name: name}, nil
}

func (db *DB) renameFolder(id int64, name string) (feed.Folder, error) {
	res, err := db.conn.Exec("UPDATE folders SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return feed.Folder{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return feed.Folder{}, ErrNotFound
	}
	return feed.Folder{ID: formatID(id), Name: name}, nil
}

func (db *DB) deleteFolder(id int64) error {
	if _, err := db.conn.Exec("UPDATE feeds SET folder_id = NULL WHERE folder_id = ?", id); err != nil {
		return err
	}
	_, err := db.conn.Exec("DELETE FROM folders WHERE id = ?", id)
	return err
}

const feedColumns = "id, folder_id, title, url, description, link, favicon, last_fetched"

func scanFeed(scan func(dest ...any) error) (feed.Feed, error) {
	var id int64
	var folderID sql.NullInt64
	var lastFetched sql.NullTime
	var f feed.Feed
	if err := scan(&id, &folderID, &f.Title, &f.URL, &f.Description, &f.Link, &f.Favicon, &lastFetched); err != nil {
		return feed.Feed{}, err
	}
	f.ID = formatID(id)
	if folderID.Valid {
		fid := formatID(folderID.Int64)
		f.FolderID = &fid
	}
	if lastFetched.Valid {
		f.LastFetched = lastFetched.Time
	}
	return f, nil
}

func (db *DB) feeds() ([]feed.Feed, error) {
	rows, err := db.conn.Query("SELECT " + feedColumns + " FROM feeds ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var feeds []feed.Feed
	for rows.Next() {
		f, err := scanFeed(rows.Scan)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, f)
	}
	return feeds, rows.Err()
}

func (db *DB) feedByID(id int64) (feed.Feed, error) {
	row := db.conn.QueryRow("SELECT "+feedColumns+" FROM feeds WHERE id = ?", id)
	f, err := scanFeed(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return feed.Feed{}, ErrNotFound
	}
	return f, err
}

func (db *DB) feedURLExists(url string) (bool, error) {
	var n int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM feeds WHERE url = ?", url).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (db *DB) insertFeed(f feed.Feed, folderID *int64) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO feeds (folder_id, title, url, description, link, favicon, last_fetched) VALUES (?, ?, ?, ?, ?, ?, ?)",
		folderID, f.Title, f.URL, f.Description, f.Link, f.Favicon, nullableTime(f.LastFetched),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) deleteFeed(id int64) error {
	_, err := db.conn.Exec("DELETE FROM feeds WHERE id = ?", id)
	return err
}

func (db *DB) moveFeed(id int64, folderID *int64) (feed.Feed, error) {
	res, err := db.conn.Exec("UPDATE feeds SET folder_id = ? WHERE id = ?", folderID, id)
	if err != nil {
		return feed.Feed{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return feed.Feed{}, ErrNotFound
	}
	return db.feedByID(id)
}

func (db *DB) touchFeed(id int64, t time.Time) error {
	_, err := db.conn.Exec("UPDATE feeds SET last_fetched = ? WHERE id = ?", t, id)
	return err
}

const articleColumns = "a.id, a.feed_id, f.title, a.title, a.link, a.published_at, a.content, a.content_snippet, a.author, a.image_url, a.is_read"

func (db *DB) articlesForFeed(feedID int64) ([]feed.Article, error) {
	rows, err := db.conn.Query(
		"SELECT "+articleColumns+" FROM articles a JOIN feeds f ON f.id = a.feed_id WHERE a.feed_id = ? ORDER BY a.published_at DESC",
		feedID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var articles []feed.Article
	for rows.Next() {
		var id, fid int64
		var published sql.NullTime
		var a feed.Article
		if err := rows.Scan(&id, &fid, &a.FeedTitle, &a.Title, &a.Link, &published, &a.Content, &a.ContentSnippet, &a.Author, &a.ImageURL, &a.IsRead); err != nil {
			return nil, err
		}
		a.ID = formatID(id)
		a.FeedID = formatID(fid)
		if published.Valid {
			a.PubDate = published.Time
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// upsertArticle inserts an article keyed by (feed, guid), leaving the
// read flag alone on refresh.
func (db *DB) upsertArticle(feedID int64, guid string, a feed.Article) error {
	_, err := db.conn.Exec(`
	INSERT INTO articles (feed_id, guid, title, link, published_at, content, content_snippet, author, image_url)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(feed_id, guid) DO UPDATE SET
		title = excluded.title,
		link = excluded.link,
		content = excluded.content,
		content_snippet = excluded.content_snippet,
		author = excluded.author,
		image_url = excluded.image_url`,
		feedID, guid, a.Title, a.Link, nullableTime(a.PubDate), a.Content, a.ContentSnippet, a.Author, a.ImageURL,
	)
	return err
}

func (db *DB) markArticleRead(id int64) error {
	res, err := db.conn.Exec("UPDATE articles SET is_read = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteReadArticlesBefore removes read articles older than the cutoff
// and returns how many were deleted.
func (db *DB) deleteReadArticlesBefore(cutoff time.Time) (int64, error) {
	res, err := db.conn.Exec("DELETE FROM articles WHERE is_read = 1 AND published_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (db *DB) settings() (feed.Settings, error) {
	var s feed.Settings
	err := db.conn.QueryRow(
		"SELECT id, auto_cleanup_enabled, auto_cleanup_days, refresh_interval_minutes FROM settings WHERE id = 1",
	).Scan(&s.ID, &s.AutoCleanupEnabled, &s.AutoCleanupDays, &s.RefreshIntervalMinutes)
	return s, err
}

func (db *DB) updateSettings(update feed.SettingsUpdate) (feed.Settings, error) {
	if update.AutoCleanupEnabled != nil {
		if _, err := db.conn.Exec("UPDATE settings SET auto_cleanup_enabled = ? WHERE id = 1", *update.AutoCleanupEnabled); err != nil {
			return feed.Settings{}, err
		}
	}
	if update.AutoCleanupDays != nil {
		if _, err := db.conn.Exec("UPDATE settings SET auto_cleanup_days = ? WHERE id = 1", *update.AutoCleanupDays); err != nil {
			return feed.Settings{}, err
		}
	}
	if update.RefreshIntervalMinutes != nil {
		if _, err := db.conn.Exec("UPDATE settings SET refresh_interval_minutes = ? WHERE id = 1", *update.RefreshIntervalMinutes); err != nil {
			return feed.Settings{}, err
		}
	}
	return db.settings()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
