package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestQueries(t *testing.T) *Queries {
	t.Helper()

	schema, err := os.ReadFile(filepath.Join("..", "..", "sql", "schema.sql"))
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}

	db, queries, err := InitTestDB(filepath.Join(t.TempDir(), "test.db"), string(schema))
	if err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return queries
}

func createTestFeed(t *testing.T, q *Queries, url string) Feed {
	t.Helper()

	feed, err := q.CreateFeed(t.Context(), CreateFeedParams{
		Url:     url,
		Title:   url,
		Visible: true,
	})
	if err != nil {
		t.Fatalf("Failed to create feed: %v", err)
	}
	return feed
}

func TestUpsertItemPreservesReadFlag(t *testing.T) {
	queries := newTestQueries(t)
	feed := createTestFeed(t, queries, "https://example.com/feed")

	item, err := queries.UpsertItem(t.Context(), UpsertItemParams{
		FeedID: feed.ID,
		Guid:   "guid-1",
		Title:  "Original Title",
		Link:   "https://example.com/1",
	})
	if err != nil {
		t.Fatalf("Failed to insert item: %v", err)
	}
	if item.Read {
		t.Error("New item should be unread")
	}

	if err := queries.MarkItemRead(t.Context(), item.ID); err != nil {
		t.Fatalf("Failed to mark read: %v", err)
	}

	// Upserting the same guid updates the content but not the read flag
	updated, err := queries.UpsertItem(t.Context(), UpsertItemParams{
		FeedID: feed.ID,
		Guid:   "guid-1",
		Title:  "Updated Title",
		Link:   "https://example.com/1",
	})
	if err != nil {
		t.Fatalf("Failed to upsert item: %v", err)
	}

	if updated.ID != item.ID {
		t.Errorf("Upsert should keep the same row, got id %d want %d", updated.ID, item.ID)
	}
	if updated.Title != "Updated Title" {
		t.Errorf("Expected updated title, got %q", updated.Title)
	}
	if !updated.Read {
		t.Error("Read flag should survive upsert")
	}
}

func TestGetFeedStatsCountsUnread(t *testing.T) {
	queries := newTestQueries(t)
	feed := createTestFeed(t, queries, "https://example.com/feed")

	published := sql.NullTime{Time: time.Now(), Valid: true}
	for _, guid := range []string{"a", "b", "c"} {
		if _, err := queries.UpsertItem(t.Context(), UpsertItemParams{
			FeedID:    feed.ID,
			Guid:      guid,
			Title:     guid,
			Published: published,
		}); err != nil {
			t.Fatalf("Failed to insert item: %v", err)
		}
	}

	items, err := queries.GetItemsByFeed(t.Context(), feed.ID)
	if err != nil {
		t.Fatalf("Failed to get items: %v", err)
	}
	if err := queries.MarkItemRead(t.Context(), items[0].ID); err != nil {
		t.Fatalf("Failed to mark read: %v", err)
	}

	stats, err := queries.GetFeedStats(t.Context())
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("Expected 1 feed, got %d", len(stats))
	}
	if stats[0].TotalItems != 3 {
		t.Errorf("Expected 3 total items, got %d", stats[0].TotalItems)
	}
	if stats[0].UnreadItems != 2 {
		t.Errorf("Expected 2 unread items, got %d", stats[0].UnreadItems)
	}
}

func TestHiddenFeedExcludedFromStats(t *testing.T) {
	queries := newTestQueries(t)
	createTestFeed(t, queries, "https://example.com/feed")

	if err := queries.HideFeedByURL(t.Context(), "https://example.com/feed"); err != nil {
		t.Fatalf("Failed to hide feed: %v", err)
	}

	stats, err := queries.GetFeedStats(t.Context())
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("Hidden feed should be excluded, got %d rows", len(stats))
	}

	feeds, err := queries.ListAllFeeds(t.Context())
	if err != nil {
		t.Fatalf("Failed to list all feeds: %v", err)
	}
	if len(feeds) != 1 {
		t.Errorf("ListAllFeeds should include hidden feeds, got %d", len(feeds))
	}
}

func TestDeleteFeedCascadesItems(t *testing.T) {
	queries := newTestQueries(t)
	feed := createTestFeed(t, queries, "https://example.com/feed")

	if _, err := queries.UpsertItem(t.Context(), UpsertItemParams{
		FeedID: feed.ID,
		Guid:   "guid-1",
		Title:  "Item",
	}); err != nil {
		t.Fatalf("Failed to insert item: %v", err)
	}

	if err := queries.DeleteFeed(t.Context(), feed.ID); err != nil {
		t.Fatalf("Failed to delete feed: %v", err)
	}

	items, err := queries.GetItemsByFeed(t.Context(), feed.ID)
	if err != nil {
		t.Fatalf("Failed to get items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Items should be deleted with their feed, got %d", len(items))
	}
}
