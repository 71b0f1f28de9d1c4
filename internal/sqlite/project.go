package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/slotboard/internal/domain/project"
	"github.com/rpggio/slotboard/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project and all of its layout slots in one transaction
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (id, owner_id, title, genre, status, number_of_tracks, duration_minutes, is_done, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		proj.ID,
		proj.OwnerID,
		proj.Title,
		proj.Genre,
		string(proj.Status),
		proj.NumberOfTracks,
		proj.DurationMinutes,
		proj.IsDone,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("failed to create project", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO layout_slots (id, project_id, kind, slot_index, label)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare slot insert: %w", err)
	}
	defer stmt.Close()

	for _, slot := range proj.AllSlots() {
		if _, err := stmt.ExecContext(ctx, slot.ID, proj.ID, string(slot.Kind), slot.Index, slot.Label); err != nil {
			return mapWriteError("failed to create layout slot", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a project by ID together with its slots ordered by index
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, owner_id, title, genre, status, number_of_tracks, duration_minutes, is_done, created_at, updated_at
		FROM projects
		WHERE id = ?
	`

	var proj project.Project
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&proj.ID,
		&proj.OwnerID,
		&proj.Title,
		&proj.Genre,
		&status,
		&proj.NumberOfTracks,
		&proj.DurationMinutes,
		&proj.IsDone,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	proj.Status = project.Status(status)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, kind, slot_index, label
		FROM layout_slots
		WHERE project_id = ?
		ORDER BY kind, slot_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get layout slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot project.Slot
		var kind string
		if err := rows.Scan(&slot.ID, &slot.ProjectID, &kind, &slot.Index, &slot.Label); err != nil {
			return nil, fmt.Errorf("failed to scan layout slot: %w", err)
		}
		slot.Kind = project.SlotKind(kind)
		proj.AddSlot(slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slot rows: %w", err)
	}

	return &proj, nil
}

// List returns all projects owned by ownerID, newest first
func (r *ProjectRepository) List(ctx context.Context, ownerID string) ([]project.ProjectSummary, error) {
	query := `
		SELECT id, owner_id, title, genre, status, number_of_tracks, duration_minutes, is_done, created_at, updated_at
		FROM projects
		WHERE owner_id = ?
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	summaries := []project.ProjectSummary{}
	for rows.Next() {
		var summary project.ProjectSummary
		var status string
		err := rows.Scan(
			&summary.ID,
			&summary.OwnerID,
			&summary.Title,
			&summary.Genre,
			&status,
			&summary.NumberOfTracks,
			&summary.DurationMinutes,
			&summary.IsDone,
			&summary.CreatedAt,
			&summary.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summary.Status = project.Status(status)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// Update writes the project fields and label changes in one transaction.
// A label change that matches no slot of the project aborts the batch.
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project, changes []project.LabelChange) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, genre = ?, duration_minutes = ?, is_done = ?, updated_at = ?
		WHERE id = ?
	`, proj.Title, proj.Genre, proj.DurationMinutes, proj.IsDone, proj.UpdatedAt, proj.ID)
	if err != nil {
		return mapWriteError("failed to update project", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	for _, change := range changes {
		result, err := tx.ExecContext(ctx, `
			UPDATE layout_slots
			SET label = ?
			WHERE id = ? AND project_id = ? AND kind = ?
		`, change.Label, change.SlotID, proj.ID, string(change.Kind))
		if err != nil {
			return mapWriteError("failed to update layout slot", err)
		}
		if err := requireRow(result); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %s", repository.ErrSlotMismatch, change.SlotID)
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a project; its slots cascade
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireRow(result)
}

// SetStatus records a backup workflow transition
func (r *ProjectRepository) SetStatus(ctx context.Context, id string, status project.Status, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), at, id)
	if err != nil {
		return mapWriteError("failed to set project status", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func mapWriteError(msg string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", msg, repository.ErrForeignKeyViolation)
	case isUniqueViolation(err), isCheckViolation(err):
		return fmt.Errorf("%s: %w: %v", msg, repository.ErrInvalidInput, err)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
