package mocks

import (
	"context"
	"time"

	"github.com/rpggio/slotboard/internal/backup"
	"github.com/rpggio/slotboard/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, ownerID string) ([]project.ProjectSummary, error) {
	args := m.Called(ctx, ownerID)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project, changes []project.LabelChange) error {
	args := m.Called(ctx, proj, changes)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) SetStatus(ctx context.Context, id string, status project.Status, at time.Time) error {
	args := m.Called(ctx, id, status, at)
	return args.Error(0)
}

// BackupQueue is a mock for project.BackupQueue.
type BackupQueue struct {
	mock.Mock
}

func (m *BackupQueue) Enqueue(ctx context.Context, task backup.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
