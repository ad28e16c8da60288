package tasks

import (
	"context"
	"fmt"

	"github.com/viddrobnic/simple-rss/internal/feeds"
	"github.com/viddrobnic/simple-rss/internal/logging"
)

// FeedRefreshHandler refreshes a single feed per task.
type FeedRefreshHandler struct {
	feedManager *feeds.Manager
}

func NewFeedRefreshHandler(feedManager *feeds.Manager) *FeedRefreshHandler {
	return &FeedRefreshHandler{
		feedManager: feedManager,
	}
}

func (h *FeedRefreshHandler) Execute(ctx context.Context, task *Task) error {
	if task.FeedID == 0 {
		return fmt.Errorf("missing feed id in task")
	}

	if err := h.feedManager.RefreshFeed(task.FeedID); err != nil {
		logging.Error("Feed refresh failed", "feedID", task.FeedID, "error", err)
		return fmt.Errorf("feed refresh failed: %w", err)
	}

	return nil
}

func (h *FeedRefreshHandler) Handles(taskType TaskType) bool {
	return taskType == TaskTypeFeedRefresh
}

// CreateFeedRefreshTask builds a refresh task for the given feed.
func CreateFeedRefreshTask(feedID int64, url string) *Task {
	return &Task{
		Type:   TaskTypeFeedRefresh,
		FeedID: feedID,
		URL:    url,
	}
}
