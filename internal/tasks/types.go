package tasks

import (
	"context"
	"time"
)

type TaskType string

const (
	TaskTypeFeedRefresh TaskType = "feed_refresh"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task is a unit of background work. FeedID and URL identify the feed for
// feed refresh tasks.
type Task struct {
	ID        string
	Type      TaskType
	Status    TaskStatus
	FeedID    int64
	URL       string
	CreatedAt time.Time
	StartedAt *time.Time
	EndedAt   *time.Time
	Error     string
}

// Handler executes tasks of the types it declares.
type Handler interface {
	Execute(ctx context.Context, task *Task) error
	Handles(taskType TaskType) bool
}

// TaskEvent is published when a task changes state. The UI subscribes to
// these to show per-feed progress.
type TaskEvent struct {
	Type      TaskEventType
	TaskID    string
	TaskType  TaskType
	Status    TaskStatus
	FeedID    int64
	URL       string
	Error     string
	Timestamp time.Time
}

type TaskEventType string

const (
	TaskEventStarted   TaskEventType = "task_started"
	TaskEventCompleted TaskEventType = "task_completed"
	TaskEventFailed    TaskEventType = "task_failed"
)

// Manager runs queued tasks on a bounded worker pool.
type Manager interface {
	Start(ctx context.Context) error
	Stop() error
	AddTask(task *Task) error
	Subscribe() <-chan TaskEvent
	RegisterHandler(handler Handler) error
	PendingCount() int
}
