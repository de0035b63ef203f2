package access

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

// Task is the handle of one enrollment run.
type Task struct {
	ID        uuid.UUID
	Username  string
	StartedAt time.Time

	done chan struct{}

	mu         sync.Mutex
	status     TaskStatus
	token      string
	evicted    []string
	err        error
	finishedAt time.Time
}

func newTask(username string) *Task {
	return &Task{
		ID:        uuid.New(),
		Username:  username,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
		status:    TaskPending,
	}
}

// Done is closed once the workflow, display dwell included, has returned.
func (t *Task) Done() <-chan struct{} { return t.done }

func (t *Task) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Token is the bound token once the task succeeded.
func (t *Task) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Evicted lists usernames deleted because they held the token before.
func (t *Task) Evicted() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.evicted...)
}

func (t *Task) FinishedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finishedAt
}

func (t *Task) active() bool {
	s := t.Status()
	return s == TaskPending || s == TaskRunning
}

func (t *Task) setRunning() {
	t.mu.Lock()
	t.status = TaskRunning
	t.mu.Unlock()
}

func (t *Task) succeed(token string, evicted []string) {
	t.mu.Lock()
	t.status = TaskSucceeded
	t.token = token
	t.evicted = evicted
	t.finishedAt = time.Now()
	t.mu.Unlock()
}

func (t *Task) fail(err error) {
	t.mu.Lock()
	t.status = TaskFailed
	t.err = err
	t.finishedAt = time.Now()
	t.mu.Unlock()
}
