package feeds

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/mmcdole/gofeed"
	"github.com/viddrobnic/simple-rss/internal/database"
	"github.com/viddrobnic/simple-rss/internal/logging"
	"github.com/viddrobnic/simple-rss/internal/version"
)

// Type aliases for convenience
type LogMessage = database.LogMessage

// conditionalRequestTransport wraps http.RoundTripper to add conditional
// request headers and User-Agent
type conditionalRequestTransport struct {
	Transport http.RoundTripper
	UserAgent string
	Manager   *Manager
	FeedURL   string
}

func (t *conditionalRequestTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", t.UserAgent)

	if t.Manager != nil && t.FeedURL != "" {
		t.Manager.dbMutex.RLock()
		feed, err := t.Manager.queries.GetFeedByURL(context.Background(), t.FeedURL)
		t.Manager.dbMutex.RUnlock()

		if err == nil {
			if feed.Etag.Valid && feed.Etag.String != "" {
				req.Header.Set("If-None-Match", feed.Etag.String)
			}
			if feed.LastModified.Valid && feed.LastModified.String != "" {
				req.Header.Set("If-Modified-Since", feed.LastModified.String)
			}
		}
	}

	return t.Transport.RoundTrip(req)
}

type Manager struct {
	db           *sql.DB
	queries      *database.Queries
	parser       *gofeed.Parser
	fetchTimeout time.Duration
	fetchRetries int
	dbMutex      sync.RWMutex // Global RWMutex for database operations
}

func NewManager(db *sql.DB, queries *database.Queries, fetchTimeout time.Duration, fetchRetries int) *Manager {
	return &Manager{
		db:           db,
		queries:      queries,
		parser:       gofeed.NewParser(),
		fetchTimeout: fetchTimeout,
		fetchRetries: fetchRetries,
	}
}

// createHTTPClientForFeed creates an HTTP client with conditional request
// support for a specific feed URL
func (m *Manager) createHTTPClientForFeed(feedURL string) *http.Client {
	return &http.Client{
		Timeout: m.fetchTimeout,
		Transport: &conditionalRequestTransport{
			Transport: http.DefaultTransport,
			UserAgent: version.GetUserAgent(),
			Manager:   m,
			FeedURL:   feedURL,
		},
	}
}

// parseCacheControl extracts max-age from Cache-Control header
func parseCacheControl(cacheControl string) (maxAge int64, hasMaxAge bool) {
	parts := strings.Split(cacheControl, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "max-age=") {
			val := strings.TrimPrefix(part, "max-age=")
			if age, err := strconv.ParseInt(val, 10, 64); err == nil {
				return age, true
			}
		}
	}
	return 0, false
}

// itemGUID returns the stable identity of an item: the guid when present,
// the link otherwise. Items with neither are skipped.
func itemGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

func (m *Manager) ConvertHTMLToMarkdown(input string) string {
	if input == "" {
		return ""
	}

	markdown, err := md.ConvertString(input)
	if err != nil {
		logging.Warn("Failed to convert HTML to markdown", "error", err)
		return input
	}

	markdown = strings.TrimSpace(markdown)
	lines := strings.Split(markdown, "\n")
	var cleanLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanLines = append(cleanLines, line)
		}
	}

	return strings.Join(cleanLines, "\n")
}

// AddFeed parses the feed at url to validate it, stores it, and fetches
// its items.
func (m *Manager) AddFeed(url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.fetchTimeout)
	defer cancel()

	feed, err := m.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		logging.Error("Error parsing feed during add", "url", url, "error", err)
		return err
	}

	now := sql.NullTime{Time: time.Now(), Valid: true}

	m.dbMutex.Lock()
	_, err = m.queries.CreateFeed(context.Background(), database.CreateFeedParams{
		Url:         url,
		Title:       feed.Title,
		Description: feed.Description,
		LastUpdated: now,
		Visible:     true,
	})
	m.dbMutex.Unlock()

	if err != nil {
		return err
	}

	return m.RefreshFeedByURL(url)
}

// AddFeedWithoutFetching adds a feed to the database without fetching its
// content. The feed title will be the URL until it's refreshed.
func (m *Manager) AddFeedWithoutFetching(url string) error {
	m.dbMutex.Lock()
	defer m.dbMutex.Unlock()

	_, err := m.queries.CreateFeed(context.Background(), database.CreateFeedParams{
		Url:         url,
		Title:       url,
		Description: "",
		LastUpdated: sql.NullTime{Valid: false},
		Visible:     true,
	})

	return err
}

// HideFeedByURL hides a feed by setting visible = false
func (m *Manager) HideFeedByURL(url string) error {
	m.dbMutex.Lock()
	defer m.dbMutex.Unlock()

	return m.queries.HideFeedByURL(context.Background(), url)
}

// ShowFeedByURL shows a feed by setting visible = true
func (m *Manager) ShowFeedByURL(url string) error {
	m.dbMutex.Lock()
	defer m.dbMutex.Unlock()

	return m.queries.ShowFeedByURL(context.Background(), url)
}

// GetAllFeeds returns all feeds (both visible and hidden)
func (m *Manager) GetAllFeeds() ([]database.Feed, error) {
	m.dbMutex.RLock()
	defer m.dbMutex.RUnlock()

	return m.queries.ListAllFeeds(context.Background())
}

func (m *Manager) RefreshFeedByURL(url string) error {
	m.dbMutex.RLock()
	feed, err := m.queries.GetFeedByURL(context.Background(), url)
	m.dbMutex.RUnlock()
	if err != nil {
		return err
	}

	return m.RefreshFeed(feed.ID)
}

// fetchResult carries the response of a successful feed fetch.
type fetchResult struct {
	parsed             *gofeed.Feed
	notModified        bool
	etag               sql.NullString
	lastModified       sql.NullString
	cacheControlMaxAge sql.NullInt64
}

// fetchFeed performs the HTTP GET and parse for a feed, retrying transient
// failures (network errors, 429, 5xx) with exponential backoff. Client
// errors are permanent and not retried.
func (m *Manager) fetchFeed(ctx context.Context, feedURL string) (*fetchResult, error) {
	client := m.createHTTPClientForFeed(feedURL)

	operation := func() (*fetchResult, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode == http.StatusNotModified {
			return &fetchResult{notModified: true}, nil
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}

		result := &fetchResult{
			etag:         nullString(resp.Header.Get("ETag")),
			lastModified: nullString(resp.Header.Get("Last-Modified")),
		}
		if cacheControl := resp.Header.Get("Cache-Control"); cacheControl != "" {
			if maxAge, ok := parseCacheControl(cacheControl); ok {
				result.cacheControlMaxAge = sql.NullInt64{Int64: maxAge, Valid: true}
			}
		}

		parsed, err := m.parser.Parse(resp.Body)
		if err != nil {
			// A malformed payload won't get better on retry
			return nil, backoff.Permanent(err)
		}
		result.parsed = parsed

		return result, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second

	return backoff.RetryWithData(operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(m.fetchRetries)), ctx))
}

func (m *Manager) RefreshFeed(feedID int64) error {
	m.dbMutex.RLock()
	feed, err := m.queries.GetFeed(context.Background(), feedID)
	m.dbMutex.RUnlock()
	if err != nil {
		return err
	}

	// Check if feed is still within cache control max age period
	if feed.CacheControlMaxAge.Valid && feed.LastUpdated.Valid {
		cacheExpiry := feed.LastUpdated.Time.Add(time.Duration(feed.CacheControlMaxAge.Int64) * time.Second)
		if time.Now().Before(cacheExpiry) {
			logging.Debug("Feed still within cache control period, skipping fetch",
				"url", feed.Url,
				"lastUpdated", feed.LastUpdated.Time,
				"maxAge", feed.CacheControlMaxAge.Int64,
				"expiresAt", cacheExpiry)
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.fetchTimeout)
	defer cancel()

	result, err := m.fetchFeed(ctx, feed.Url)
	if err != nil {
		logging.Error("Error fetching feed", "url", feed.Url, "error", err)
		m.recordFeedError(feedID, err)
		return err
	}

	now := sql.NullTime{Time: time.Now(), Valid: true}

	// Feed hasn't changed, only track that we checked
	if result.notModified {
		logging.Debug("Feed not modified", "url", feed.Url)
		m.dbMutex.Lock()
		err = m.queries.UpdateFeed(context.Background(), database.UpdateFeedParams{
			ID:                 feedID,
			Title:              feed.Title,
			Description:        feed.Description,
			LastUpdated:        now,
			Etag:               feed.Etag,
			LastModified:       feed.LastModified,
			CacheControlMaxAge: feed.CacheControlMaxAge,
		})
		m.dbMutex.Unlock()
		return err
	}

	// Clear any previous error since this fetch was successful
	m.recordFeedError(feedID, nil)

	m.dbMutex.Lock()
	err = m.queries.UpdateFeed(context.Background(), database.UpdateFeedParams{
		ID:                 feedID,
		Title:              result.parsed.Title,
		Description:        result.parsed.Description,
		LastUpdated:        now,
		Etag:               result.etag,
		LastModified:       result.lastModified,
		CacheControlMaxAge: result.cacheControlMaxAge,
	})
	m.dbMutex.Unlock()
	if err != nil {
		return err
	}

	for _, item := range result.parsed.Items {
		guid := itemGUID(item)
		if guid == "" {
			logging.Debug("Skipping item without guid or link", "feed", feed.Url, "title", item.Title)
			continue
		}

		var published sql.NullTime
		if item.PublishedParsed != nil {
			published = sql.NullTime{Time: *item.PublishedParsed, Valid: true}
		}

		content := item.Content
		if content == "" && item.Description != "" {
			content = item.Description
		}

		m.dbMutex.Lock()
		_, err := m.queries.UpsertItem(context.Background(), database.UpsertItemParams{
			FeedID:      feedID,
			Guid:        guid,
			Title:       item.Title,
			Description: item.Description,
			Content:     content,
			Link:        item.Link,
			Published:   published,
		})
		m.dbMutex.Unlock()
		if err != nil {
			logging.Error("Error upserting item", "guid", guid, "error", err)
		}
	}

	return nil
}

// RefreshAllFeeds refreshes every visible feed sequentially. A failing feed
// is recorded and does not stop the others.
func (m *Manager) RefreshAllFeeds() error {
	m.dbMutex.RLock()
	feeds, err := m.queries.ListFeeds(context.Background())
	m.dbMutex.RUnlock()
	if err != nil {
		return err
	}

	for _, feed := range feeds {
		if err := m.RefreshFeed(feed.ID); err != nil {
			logging.Error("Error refreshing feed", "url", feed.Url, "error", err)
		}
	}

	return nil
}

func (m *Manager) GetFeedStats() ([]database.GetFeedStatsRow, error) {
	m.dbMutex.RLock()
	result, err := m.queries.GetFeedStats(context.Background())
	m.dbMutex.RUnlock()
	return result, err
}

func (m *Manager) GetItems(feedID int64) ([]database.Item, error) {
	m.dbMutex.RLock()
	result, err := m.queries.GetItemsByFeed(context.Background(), feedID)
	m.dbMutex.RUnlock()
	return result, err
}

func (m *Manager) MarkItemRead(itemID int64) error {
	m.dbMutex.Lock()
	defer m.dbMutex.Unlock()
	return m.queries.MarkItemRead(context.Background(), itemID)
}

func (m *Manager) MarkItemUnread(itemID int64) error {
	m.dbMutex.Lock()
	defer m.dbMutex.Unlock()
	return m.queries.MarkItemUnread(context.Background(), itemID)
}

// ToggleItemRead flips the read flag of a single item.
func (m *Manager) ToggleItemRead(itemID int64, currentlyRead bool) error {
	if currentlyRead {
		return m.MarkItemUnread(itemID)
	}
	return m.MarkItemRead(itemID)
}

func (m *Manager) MarkAllItemsReadInFeed(feedID int64) error {
	m.dbMutex.Lock()
	defer m.dbMutex.Unlock()
	return m.queries.MarkAllItemsReadInFeed(context.Background(), feedID)
}

// SyncWithURLs reconciles the database with the URLs file: feeds absent
// from the file are hidden (their read state is kept), feeds present are
// created or made visible again.
func (m *Manager) SyncWithURLs(urls []string) error {
	allFeeds, err := m.GetAllFeeds()
	if err != nil {
		return fmt.Errorf("failed to get all feeds: %w", err)
	}

	urlsFromFile := make(map[string]bool, len(urls))
	for _, url := range urls {
		urlsFromFile[url] = true
	}

	urlsFromDB := make(map[string]bool, len(allFeeds))
	for _, feed := range allFeeds {
		urlsFromDB[feed.Url] = true
	}

	for _, feed := range allFeeds {
		if !urlsFromFile[feed.Url] {
			if err := m.HideFeedByURL(feed.Url); err != nil {
				logging.Warn("Failed to hide feed", "url", feed.Url, "error", err)
			}
		}
	}

	for _, url := range urls {
		if urlsFromDB[url] {
			if err := m.ShowFeedByURL(url); err != nil {
				logging.Warn("Failed to show feed", "url", url, "error", err)
			}
		} else {
			if err := m.AddFeedWithoutFetching(url); err != nil {
				logging.Warn("Failed to add feed", "url", url, "error", err)
			}
		}
	}

	return nil
}

func (m *Manager) GetLogMessages(limit int64) ([]database.LogMessage, error) {
	m.dbMutex.RLock()
	result, err := m.queries.GetLogMessages(context.Background(), limit)
	m.dbMutex.RUnlock()
	return result, err
}

func (m *Manager) DeleteAllLogMessages() error {
	m.dbMutex.Lock()
	defer m.dbMutex.Unlock()
	return m.queries.DeleteAllLogMessages(context.Background())
}

func (m *Manager) recordFeedError(feedID int64, err error) {
	if err == nil {
		m.dbMutex.Lock()
		retryErr := m.queries.ClearFeedError(context.Background(), feedID)
		m.dbMutex.Unlock()
		if retryErr != nil {
			logging.Error("Failed to clear feed error", "feedID", feedID, "error", retryErr)
		}
		return
	}

	now := sql.NullTime{Time: time.Now(), Valid: true}
	errorText := sql.NullString{String: err.Error(), Valid: true}

	m.dbMutex.Lock()
	retryErr := m.queries.UpdateFeedError(context.Background(), database.UpdateFeedErrorParams{
		ID:            feedID,
		LastError:     errorText,
		LastErrorTime: now,
	})
	m.dbMutex.Unlock()
	if retryErr != nil {
		logging.Error("Failed to update feed error", "feedID", feedID, "error", retryErr)
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
