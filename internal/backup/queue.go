package backup

import (
	"context"
	"sync"
)

// DefaultMemoryCapacity bounds the in-process queue.
const DefaultMemoryCapacity = 256

// MemoryQueue is an in-process Queue backed by a buffered channel.
type MemoryQueue struct {
	tasks  chan Task
	once   sync.Once
	closed chan struct{}
}

// NewMemoryQueue creates a queue holding up to capacity pending tasks.
func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryQueue{
		tasks:  make(chan Task, capacity),
		closed: make(chan struct{}),
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, task Task) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}
	select {
	case q.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Task, error) {
	select {
	case task := <-q.tasks:
		return task, nil
	case <-q.closed:
		return Task{}, ErrQueueClosed
	case <-ctx.Done():
		return Task{}, ctx.Err()
	}
}

// Len reports the number of pending tasks.
func (q *MemoryQueue) Len() int {
	return len(q.tasks)
}

// Close stops Dequeue from waiting. Pending tasks are dropped.
func (q *MemoryQueue) Close() error {
	q.once.Do(func() { close(q.closed) })
	return nil
}
