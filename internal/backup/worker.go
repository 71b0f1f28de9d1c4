package backup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultDelay is how long a backup takes before it is marked processed.
const DefaultDelay = 3 * time.Second

// Worker consumes backup tasks and completes them after a fixed delay.
type Worker struct {
	queue     Queue
	completer Completer
	delay     time.Duration
	logger    *slog.Logger
}

// NewWorker creates a worker. A negative delay selects DefaultDelay.
func NewWorker(queue Queue, completer Completer, delay time.Duration, logger *slog.Logger) *Worker {
	if delay < 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Worker{queue: queue, completer: completer, delay: delay, logger: logger}
}

// Run consumes tasks until ctx ends or the queue is closed, then waits for
// in-flight tasks. Task failures are logged and dropped.
func (w *Worker) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	w.logger.Info("backup worker started", "delay", w.delay)
	for {
		task, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrQueueClosed) {
				w.logger.Info("backup worker stopping")
				return nil
			}
			w.logger.Error("failed to dequeue backup task", "error", err)
			if !sleepCtx(ctx, time.Second) {
				return nil
			}
			continue
		}

		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			w.Process(ctx, task)
		}(task)
	}
}

// Process waits the configured delay and completes one task. A task whose
// delay is cut short by ctx is put back on the queue.
func (w *Worker) Process(ctx context.Context, task Task) {
	if !sleepCtx(ctx, w.delay) {
		// hand the task back so the next worker completes it
		if err := w.queue.Enqueue(context.WithoutCancel(ctx), task); err != nil {
			w.logger.Error("backup lost at shutdown", "project_id", task.ProjectID, "error", err)
			return
		}
		w.logger.Warn("backup requeued at shutdown", "project_id", task.ProjectID)
		return
	}
	// completion is not tied to the consumer's lifetime once the delay elapsed
	if err := w.completer.CompleteBackup(context.WithoutCancel(ctx), task.ProjectID); err != nil {
		w.logger.Error("backup completion failed", "project_id", task.ProjectID, "error", err)
		return
	}
	w.logger.Debug("backup completed", "project_id", task.ProjectID, "queued_for", time.Since(task.RequestedAt))
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
