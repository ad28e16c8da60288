package database

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const createFeed = `
INSERT INTO feeds (url, title, description, last_updated, visible)
VALUES (?, ?, ?, ?, ?)
RETURNING id, url, title, description, visible, last_updated, etag, last_modified, cache_control_max_age, last_error, last_error_time
`

type CreateFeedParams struct {
	Url         string
	Title       string
	Description string
	LastUpdated sql.NullTime
	Visible     bool
}

func (q *Queries) CreateFeed(ctx context.Context, arg CreateFeedParams) (Feed, error) {
	row := q.db.QueryRowContext(ctx, createFeed,
		arg.Url, arg.Title, arg.Description, arg.LastUpdated, arg.Visible)
	return scanFeed(row)
}

const getFeed = `
SELECT id, url, title, description, visible, last_updated, etag, last_modified, cache_control_max_age, last_error, last_error_time
FROM feeds WHERE id = ?
`

func (q *Queries) GetFeed(ctx context.Context, id int64) (Feed, error) {
	return scanFeed(q.db.QueryRowContext(ctx, getFeed, id))
}

const getFeedByURL = `
SELECT id, url, title, description, visible, last_updated, etag, last_modified, cache_control_max_age, last_error, last_error_time
FROM feeds WHERE url = ?
`

func (q *Queries) GetFeedByURL(ctx context.Context, url string) (Feed, error) {
	return scanFeed(q.db.QueryRowContext(ctx, getFeedByURL, url))
}

const listFeeds = `
SELECT id, url, title, description, visible, last_updated, etag, last_modified, cache_control_max_age, last_error, last_error_time
FROM feeds WHERE visible = TRUE ORDER BY id
`

func (q *Queries) ListFeeds(ctx context.Context) ([]Feed, error) {
	return q.queryFeeds(ctx, listFeeds)
}

const listAllFeeds = `
SELECT id, url, title, description, visible, last_updated, etag, last_modified, cache_control_max_age, last_error, last_error_time
FROM feeds ORDER BY id
`

func (q *Queries) ListAllFeeds(ctx context.Context) ([]Feed, error) {
	return q.queryFeeds(ctx, listAllFeeds)
}

const updateFeed = `
UPDATE feeds
SET title = ?, description = ?, last_updated = ?, etag = ?, last_modified = ?, cache_control_max_age = ?
WHERE id = ?
`

type UpdateFeedParams struct {
	ID                 int64
	Title              string
	Description        string
	LastUpdated        sql.NullTime
	Etag               sql.NullString
	LastModified       sql.NullString
	CacheControlMaxAge sql.NullInt64
}

func (q *Queries) UpdateFeed(ctx context.Context, arg UpdateFeedParams) error {
	_, err := q.db.ExecContext(ctx, updateFeed,
		arg.Title, arg.Description, arg.LastUpdated, arg.Etag, arg.LastModified, arg.CacheControlMaxAge, arg.ID)
	return err
}

const updateFeedError = `
UPDATE feeds SET last_error = ?, last_error_time = ? WHERE id = ?
`

type UpdateFeedErrorParams struct {
	ID            int64
	LastError     sql.NullString
	LastErrorTime sql.NullTime
}

func (q *Queries) UpdateFeedError(ctx context.Context, arg UpdateFeedErrorParams) error {
	_, err := q.db.ExecContext(ctx, updateFeedError, arg.LastError, arg.LastErrorTime, arg.ID)
	return err
}

const clearFeedError = `
UPDATE feeds SET last_error = NULL, last_error_time = NULL WHERE id = ?
`

func (q *Queries) ClearFeedError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, clearFeedError, id)
	return err
}

const hideFeedByURL = `
UPDATE feeds SET visible = FALSE WHERE url = ?
`

func (q *Queries) HideFeedByURL(ctx context.Context, url string) error {
	_, err := q.db.ExecContext(ctx, hideFeedByURL, url)
	return err
}

const showFeedByURL = `
UPDATE feeds SET visible = TRUE WHERE url = ?
`

func (q *Queries) ShowFeedByURL(ctx context.Context, url string) error {
	_, err := q.db.ExecContext(ctx, showFeedByURL, url)
	return err
}

const deleteFeed = `
DELETE FROM feeds WHERE id = ?
`

func (q *Queries) DeleteFeed(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteFeed, id)
	return err
}

const getFeedStats = `
SELECT f.id, f.url, f.title, f.last_updated, f.last_error,
       COUNT(CASE WHEN i.read = FALSE THEN 1 END) AS unread_items,
       COUNT(i.id) AS total_items
FROM feeds f
LEFT JOIN items i ON i.feed_id = f.id
WHERE f.visible = TRUE
GROUP BY f.id
ORDER BY f.id
`

func (q *Queries) GetFeedStats(ctx context.Context) ([]GetFeedStatsRow, error) {
	rows, err := q.db.QueryContext(ctx, getFeedStats)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var stats []GetFeedStatsRow
	for rows.Next() {
		var s GetFeedStatsRow
		if err := rows.Scan(&s.ID, &s.Url, &s.Title, &s.LastUpdated, &s.LastError, &s.UnreadItems, &s.TotalItems); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

const upsertItem = `
INSERT INTO items (feed_id, guid, title, description, content, link, published)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(feed_id, guid) DO UPDATE
SET title = excluded.title,
    description = excluded.description,
    content = excluded.content,
    link = excluded.link,
    published = excluded.published
RETURNING id, feed_id, guid, title, description, content, link, published, read
`

type UpsertItemParams struct {
	FeedID      int64
	Guid        string
	Title       string
	Description string
	Content     string
	Link        string
	Published   sql.NullTime
}

func (q *Queries) UpsertItem(ctx context.Context, arg UpsertItemParams) (Item, error) {
	row := q.db.QueryRowContext(ctx, upsertItem,
		arg.FeedID, arg.Guid, arg.Title, arg.Description, arg.Content, arg.Link, arg.Published)
	var i Item
	err := row.Scan(&i.ID, &i.FeedID, &i.Guid, &i.Title, &i.Description, &i.Content, &i.Link, &i.Published, &i.Read)
	return i, err
}

const getItemsByFeed = `
SELECT id, feed_id, guid, title, description, content, link, published, read
FROM items WHERE feed_id = ?
ORDER BY published DESC, id DESC
`

func (q *Queries) GetItemsByFeed(ctx context.Context, feedID int64) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, getItemsByFeed, feedID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.FeedID, &i.Guid, &i.Title, &i.Description, &i.Content, &i.Link, &i.Published, &i.Read); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const markItemRead = `
UPDATE items SET read = TRUE WHERE id = ?
`

func (q *Queries) MarkItemRead(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markItemRead, id)
	return err
}

const markItemUnread = `
UPDATE items SET read = FALSE WHERE id = ?
`

func (q *Queries) MarkItemUnread(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markItemUnread, id)
	return err
}

const markAllItemsReadInFeed = `
UPDATE items SET read = TRUE WHERE feed_id = ?
`

func (q *Queries) MarkAllItemsReadInFeed(ctx context.Context, feedID int64) error {
	_, err := q.db.ExecContext(ctx, markAllItemsReadInFeed, feedID)
	return err
}

const createLogMessage = `
INSERT INTO log_messages (level, message, timestamp, attributes)
VALUES (?, ?, ?, ?)
`

type CreateLogMessageParams struct {
	Level      string
	Message    string
	Timestamp  sql.NullTime
	Attributes sql.NullString
}

func (q *Queries) CreateLogMessage(ctx context.Context, arg CreateLogMessageParams) error {
	_, err := q.db.ExecContext(ctx, createLogMessage,
		arg.Level, arg.Message, arg.Timestamp, arg.Attributes)
	return err
}

const getLogMessages = `
SELECT id, level, message, timestamp, attributes
FROM log_messages ORDER BY id DESC LIMIT ?
`

func (q *Queries) GetLogMessages(ctx context.Context, limit int64) ([]LogMessage, error) {
	rows, err := q.db.QueryContext(ctx, getLogMessages, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var logs []LogMessage
	for rows.Next() {
		var l LogMessage
		if err := rows.Scan(&l.ID, &l.Level, &l.Message, &l.Timestamp, &l.Attributes); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

const deleteAllLogMessages = `
DELETE FROM log_messages
`

func (q *Queries) DeleteAllLogMessages(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllLogMessages)
	return err
}

type feedScanner interface {
	Scan(dest ...interface{}) error
}

func scanFeed(row feedScanner) (Feed, error) {
	var f Feed
	err := row.Scan(&f.ID, &f.Url, &f.Title, &f.Description, &f.Visible,
		&f.LastUpdated, &f.Etag, &f.LastModified, &f.CacheControlMaxAge,
		&f.LastError, &f.LastErrorTime)
	return f, err
}

func (q *Queries) queryFeeds(ctx context.Context, query string) ([]Feed, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var feeds []Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	return feeds, rows.Err()
}
