package backup

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrQueueFull is returned when an in-process queue cannot accept more tasks.
	ErrQueueFull = errors.New("backup queue full")
	// ErrQueueClosed is returned by Dequeue once a queue has been closed.
	ErrQueueClosed = errors.New("backup queue closed")
)

// Task requests the completion of one project's backup.
type Task struct {
	ProjectID   string    `json:"project_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// Queue carries backup tasks from the request path to the worker.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	// Dequeue blocks until a task is available or ctx ends.
	Dequeue(ctx context.Context) (Task, error)
}

// Completer finishes a backup for a project.
type Completer interface {
	CompleteBackup(ctx context.Context, projectID string) error
}
