package database

import "database/sql"

type Feed struct {
	ID                 int64
	Url                string
	Title              string
	Description        string
	Visible            bool
	LastUpdated        sql.NullTime
	Etag               sql.NullString
	LastModified       sql.NullString
	CacheControlMaxAge sql.NullInt64
	LastError          sql.NullString
	LastErrorTime      sql.NullTime
}

type Item struct {
	ID          int64
	FeedID      int64
	Guid        string
	Title       string
	Description string
	Content     string
	Link        string
	Published   sql.NullTime
	Read        bool
}

type LogMessage struct {
	ID         int64
	Level      string
	Message    string
	Timestamp  sql.NullTime
	Attributes sql.NullString
}

// GetFeedStatsRow is a feed joined with its item counts, as shown in the
// feed list.
type GetFeedStatsRow struct {
	ID          int64
	Url         string
	Title       string
	LastUpdated sql.NullTime
	LastError   sql.NullString
	UnreadItems int64
	TotalItems  int64
}
