package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/slotboard/internal/backup"
	"github.com/rpggio/slotboard/internal/repository"
)

// BackupStartedMessage acknowledges a backup request.
const BackupStartedMessage = "Project processing has started."

// Service handles project operations.
type Service struct {
	repo   Repository
	queue  BackupQueue
	layout Layout
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new project service using the default layout.
func NewService(repo Repository, queue BackupQueue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:   repo,
		queue:  queue,
		layout: DefaultLayout,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns the owner's projects, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]ProjectSummary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrForbidden
	}
	list, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return list, nil
}

// Get fetches a project with its layout slots.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Project, error) {
	return s.authorize(ctx, ownerID, id)
}

// Create creates a new project and materializes its empty layout.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrForbidden
	}
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	now := s.now()
	proj := &Project{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Title:          strings.TrimSpace(req.Title),
		Genre:          strings.TrimSpace(req.Genre),
		Status:         StatusIdle,
		NumberOfTracks: s.layout.Tracks,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.layout.materialize(proj)

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "project_id", proj.ID, "owner_id", ownerID)
	return proj, nil
}

// Update applies the field changes and label edits atomically. Validation
// happens before any write; a storage failure rolls back the whole batch.
func (s *Service) Update(ctx context.Context, ownerID, id string, req UpdateRequest) (*Project, error) {
	proj, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	changes, err := ValidateUpdateInput(proj, req)
	if err != nil {
		return nil, err
	}

	updated := *proj
	updated.Title = strings.TrimSpace(req.Title)
	updated.Genre = strings.TrimSpace(req.Genre)
	if req.DurationMinutes != nil {
		updated.DurationMinutes = *req.DurationMinutes
	}
	if req.IsDone != nil {
		updated.IsDone = *req.IsDone
	}
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &updated, changes); err != nil {
		s.logger.Error("project update rolled back", "project_id", id, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	result, err := s.repo.Get(ctx, id)
	if err != nil {
		// the batch is committed; answer with what was written
		s.logger.Warn("reload after committed update failed", "project_id", id, "error", err)
		return updated.withLabels(changes), nil
	}
	return result, nil
}

// Delete removes a project together with its layout slots.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.authorize(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "project_id", id, "owner_id", ownerID)
	return nil
}

// RequestBackup marks the project as processing and schedules its completion.
// Repeated requests enqueue repeated completions.
func (s *Service) RequestBackup(ctx context.Context, ownerID, id string) (string, error) {
	proj, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return "", err
	}

	now := s.now()
	if err := s.setStatus(ctx, id, StatusProcessing, now); err != nil {
		return "", err
	}
	if err := s.queue.Enqueue(ctx, backup.Task{ProjectID: id, RequestedAt: now}); err != nil {
		// nothing will complete the backup, so the project must not stay processing
		if restoreErr := s.setStatus(context.WithoutCancel(ctx), id, proj.Status, proj.UpdatedAt); restoreErr != nil {
			s.logger.Error("failed to restore status after enqueue failure", "project_id", id, "status", proj.Status, "error", restoreErr)
		}
		return "", fmt.Errorf("enqueueing backup: %w", err)
	}

	s.logger.Info("backup requested", "project_id", id)
	return BackupStartedMessage, nil
}

// CompleteBackup marks the project as processed. It is invoked by the
// backup worker and performs no ownership check.
func (s *Service) CompleteBackup(ctx context.Context, id string) error {
	if err := s.setStatus(ctx, id, StatusProcessed, s.now()); err != nil {
		return err
	}
	s.logger.Info("backup completed", "project_id", id)
	return nil
}

func (s *Service) setStatus(ctx context.Context, id string, status Status, at time.Time) error {
	if err := s.repo.SetStatus(ctx, id, status, at); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("setting project status: %w", err)
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, ownerID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	if ownerID == "" || proj.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return proj, nil
}
