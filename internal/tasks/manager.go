package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viddrobnic/simple-rss/internal/logging"
)

const (
	queueSize = 100
	eventSize = 100
)

// DefaultManager implements Manager with a fixed pool of workers pulling
// from a buffered queue.
type DefaultManager struct {
	maxWorkers int
	taskQueue  chan *Task
	handlers   map[TaskType]Handler
	events     chan TaskEvent
	pending    map[string]*Task
	mutex      sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	running    bool
}

func NewManager(maxWorkers int) Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &DefaultManager{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan *Task, queueSize),
		handlers:   make(map[TaskType]Handler),
		events:     make(chan TaskEvent, eventSize),
		pending:    make(map[string]*Task),
	}
}

func (m *DefaultManager) Start(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.running {
		return fmt.Errorf("task manager is already running")
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running = true

	for i := 0; i < m.maxWorkers; i++ {
		m.wg.Add(1)
		go m.work()
	}

	return nil
}

// Stop cancels the workers without waiting for in-flight tasks. The event
// channel is closed once the last worker returns.
func (m *DefaultManager) Stop() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.running {
		return fmt.Errorf("task manager is not running")
	}

	m.cancel()
	close(m.taskQueue)

	go func() {
		m.wg.Wait()
		close(m.events)
	}()

	m.running = false

	return nil
}

func (m *DefaultManager) AddTask(task *Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.Status = TaskStatusPending

	m.mutex.Lock()
	m.pending[task.ID] = task
	m.mutex.Unlock()

	select {
	case m.taskQueue <- task:
		return nil
	default:
		m.mutex.Lock()
		delete(m.pending, task.ID)
		m.mutex.Unlock()
		return fmt.Errorf("task queue is full")
	}
}

func (m *DefaultManager) Subscribe() <-chan TaskEvent {
	return m.events
}

func (m *DefaultManager) RegisterHandler(handler Handler) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	taskTypes := []TaskType{TaskTypeFeedRefresh}
	for _, taskType := range taskTypes {
		if handler.Handles(taskType) {
			if _, exists := m.handlers[taskType]; exists {
				return fmt.Errorf("handler for task type %s already exists", taskType)
			}
			m.handlers[taskType] = handler
		}
	}

	return nil
}

// PendingCount reports tasks that are queued or running.
func (m *DefaultManager) PendingCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.pending)
}

func (m *DefaultManager) publishEvent(event TaskEvent) {
	select {
	case m.events <- event:
	default:
		logging.Warn("Event channel full, dropping event", "type", event.Type, "taskID", event.TaskID)
	}
}

func (m *DefaultManager) work() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case task, ok := <-m.taskQueue:
			if !ok {
				return
			}
			m.executeTask(task)
		}
	}
}

func (m *DefaultManager) executeTask(task *Task) {
	now := time.Now()
	m.mutex.Lock()
	task.Status = TaskStatusRunning
	task.StartedAt = &now
	m.mutex.Unlock()

	m.publishEvent(TaskEvent{
		Type:      TaskEventStarted,
		TaskID:    task.ID,
		TaskType:  task.Type,
		Status:    TaskStatusRunning,
		FeedID:    task.FeedID,
		URL:       task.URL,
		Timestamp: now,
	})

	m.mutex.RLock()
	handler, exists := m.handlers[task.Type]
	m.mutex.RUnlock()

	if !exists {
		m.finishTask(task, fmt.Errorf("no handler for task type: %s", task.Type))
		return
	}

	m.finishTask(task, handler.Execute(m.ctx, task))
}

func (m *DefaultManager) finishTask(task *Task, err error) {
	now := time.Now()

	m.mutex.Lock()
	task.EndedAt = &now
	if err != nil {
		task.Status = TaskStatusFailed
		task.Error = err.Error()
	} else {
		task.Status = TaskStatusCompleted
	}
	delete(m.pending, task.ID)
	m.mutex.Unlock()

	event := TaskEvent{
		TaskID:    task.ID,
		TaskType:  task.Type,
		FeedID:    task.FeedID,
		URL:       task.URL,
		Timestamp: now,
	}
	if err != nil {
		event.Type = TaskEventFailed
		event.Status = TaskStatusFailed
		event.Error = err.Error()
		logging.Error("Task failed", "taskID", task.ID, "type", task.Type, "error", err)
	} else {
		event.Type = TaskEventCompleted
		event.Status = TaskStatusCompleted
	}

	m.publishEvent(event)
}
