package tasks

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubHandler struct {
	execute func(ctx context.Context, task *Task) error
}

func (h *stubHandler) Execute(ctx context.Context, task *Task) error {
	return h.execute(ctx, task)
}

func (h *stubHandler) Handles(taskType TaskType) bool {
	return taskType == TaskTypeFeedRefresh
}

func waitForEvent(t *testing.T, events <-chan TaskEvent, eventType TaskEventType) TaskEvent {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case event := <-events:
			if event.Type == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %s event", eventType)
		}
	}
}

func TestManagerRunsTask(t *testing.T) {
	executed := make(chan int64, 1)
	manager := NewManager(2)
	err := manager.RegisterHandler(&stubHandler{
		execute: func(ctx context.Context, task *Task) error {
			executed <- task.FeedID
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Failed to register handler: %v", err)
	}

	if err := manager.Start(t.Context()); err != nil {
		t.Fatalf("Failed to start manager: %v", err)
	}
	defer func() {
		_ = manager.Stop()
	}()

	events := manager.Subscribe()

	if err := manager.AddTask(CreateFeedRefreshTask(42, "https://example.com/feed")); err != nil {
		t.Fatalf("Failed to add task: %v", err)
	}

	select {
	case feedID := <-executed:
		if feedID != 42 {
			t.Errorf("Expected feed 42, got %d", feedID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Handler was never executed")
	}

	event := waitForEvent(t, events, TaskEventCompleted)
	if event.FeedID != 42 {
		t.Errorf("Expected completed event for feed 42, got %d", event.FeedID)
	}
	if event.Status != TaskStatusCompleted {
		t.Errorf("Unexpected status: %s", event.Status)
	}
}

func TestManagerPublishesFailure(t *testing.T) {
	manager := NewManager(1)
	err := manager.RegisterHandler(&stubHandler{
		execute: func(ctx context.Context, task *Task) error {
			return errors.New("boom")
		},
	})
	if err != nil {
		t.Fatalf("Failed to register handler: %v", err)
	}

	if err := manager.Start(t.Context()); err != nil {
		t.Fatalf("Failed to start manager: %v", err)
	}
	defer func() {
		_ = manager.Stop()
	}()

	events := manager.Subscribe()

	if err := manager.AddTask(CreateFeedRefreshTask(7, "https://example.com/feed")); err != nil {
		t.Fatalf("Failed to add task: %v", err)
	}

	event := waitForEvent(t, events, TaskEventFailed)
	if event.FeedID != 7 {
		t.Errorf("Expected failed event for feed 7, got %d", event.FeedID)
	}
	if event.Error != "boom" {
		t.Errorf("Expected handler error in event, got %q", event.Error)
	}
}

func TestManagerStartTwiceFails(t *testing.T) {
	manager := NewManager(1)
	if err := manager.Start(t.Context()); err != nil {
		t.Fatalf("Failed to start manager: %v", err)
	}
	defer func() {
		_ = manager.Stop()
	}()

	if err := manager.Start(t.Context()); err == nil {
		t.Error("Second Start should fail")
	}
}

func TestManagerDuplicateHandlerFails(t *testing.T) {
	manager := NewManager(1)
	handler := &stubHandler{execute: func(ctx context.Context, task *Task) error { return nil }}

	if err := manager.RegisterHandler(handler); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}
	if err := manager.RegisterHandler(handler); err == nil {
		t.Error("Duplicate registration should fail")
	}
}

func TestPendingCountDrainsToZero(t *testing.T) {
	manager := NewManager(1)
	release := make(chan struct{})
	err := manager.RegisterHandler(&stubHandler{
		execute: func(ctx context.Context, task *Task) error {
			<-release
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Failed to register handler: %v", err)
	}

	// Tasks queue up before the workers start
	for i := int64(1); i <= 3; i++ {
		if err := manager.AddTask(CreateFeedRefreshTask(i, "https://example.com/feed")); err != nil {
			t.Fatalf("Failed to add task: %v", err)
		}
	}
	if got := manager.PendingCount(); got != 3 {
		t.Errorf("Expected 3 pending tasks, got %d", got)
	}

	if err := manager.Start(t.Context()); err != nil {
		t.Fatalf("Failed to start manager: %v", err)
	}
	defer func() {
		_ = manager.Stop()
	}()

	events := manager.Subscribe()
	close(release)
	for i := 0; i < 3; i++ {
		waitForEvent(t, events, TaskEventCompleted)
	}

	if got := manager.PendingCount(); got != 0 {
		t.Errorf("Expected 0 pending tasks after completion, got %d", got)
	}
}
