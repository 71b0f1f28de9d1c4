package project

import (
	"context"
	"time"

	"github.com/rpggio/slotboard/internal/backup"
)

// Repository provides persistence for projects and their layout slots.
type Repository interface {
	// Create stores the project and all of its slots atomically.
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, ownerID string) ([]ProjectSummary, error)
	// Update writes the project fields and every label change in a single
	// transaction. Any failure leaves storage untouched.
	Update(ctx context.Context, proj *Project, changes []LabelChange) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status Status, at time.Time) error
}

// BackupQueue accepts deferred backup completions.
type BackupQueue interface {
	Enqueue(ctx context.Context, task backup.Task) error
}
