package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rpggio/slotboard/internal/domain/project"
	"github.com/rpggio/slotboard/internal/repository"
)

// Postgres error codes the store maps onto repository errors.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeStringTooLong       = "22001"
)

// ProjectRepository implements project.Repository on PostgreSQL.
type ProjectRepository struct {
	db DB
}

func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := createProject(ctx, tx, proj); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func createProject(ctx context.Context, tx pgx.Tx, proj *project.Project) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO projects (id, owner_id, title, genre, status, number_of_tracks, duration_minutes, is_done, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, proj.ID, proj.OwnerID, proj.Title, proj.Genre, string(proj.Status),
		proj.NumberOfTracks, proj.DurationMinutes, proj.IsDone, proj.CreatedAt, proj.UpdatedAt)
	if err != nil {
		return mapWriteError("insert project", err)
	}

	for _, slot := range proj.AllSlots() {
		_, err := tx.Exec(ctx, `
			INSERT INTO layout_slots (id, project_id, kind, slot_index, label)
			VALUES ($1, $2, $3, $4, $5)
		`, slot.ID, proj.ID, string(slot.Kind), slot.Index, slot.Label)
		if err != nil {
			return mapWriteError("insert layout slot", err)
		}
	}
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	var proj project.Project
	var status string
	err := r.db.QueryRow(ctx, `
		SELECT id, owner_id, title, genre, status, number_of_tracks, duration_minutes, is_done, created_at, updated_at
		FROM projects
		WHERE id = $1
	`, id).Scan(
		&proj.ID, &proj.OwnerID, &proj.Title, &proj.Genre, &status,
		&proj.NumberOfTracks, &proj.DurationMinutes, &proj.IsDone, &proj.CreatedAt, &proj.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	proj.Status = project.Status(status)

	rows, err := r.db.Query(ctx, `
		SELECT id, project_id, kind, slot_index, label
		FROM layout_slots
		WHERE project_id = $1
		ORDER BY kind, slot_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get layout slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot project.Slot
		var kind string
		if err := rows.Scan(&slot.ID, &slot.ProjectID, &kind, &slot.Index, &slot.Label); err != nil {
			return nil, fmt.Errorf("scan layout slot: %w", err)
		}
		slot.Kind = project.SlotKind(kind)
		proj.AddSlot(slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate layout slots: %w", err)
	}
	return &proj, nil
}

func (r *ProjectRepository) List(ctx context.Context, ownerID string) ([]project.ProjectSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, title, genre, status, number_of_tracks, duration_minutes, is_done, created_at, updated_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []project.ProjectSummary{}
	for rows.Next() {
		var s project.ProjectSummary
		var status string
		if err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Title, &s.Genre, &status,
			&s.NumberOfTracks, &s.DurationMinutes, &s.IsDone, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		s.Status = project.Status(status)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

// Update writes the project fields and label changes in one transaction.
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project, changes []project.LabelChange) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := updateProject(ctx, tx, proj, changes); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func updateProject(ctx context.Context, tx pgx.Tx, proj *project.Project, changes []project.LabelChange) error {
	tag, err := tx.Exec(ctx, `
		UPDATE projects
		SET title = $1, genre = $2, duration_minutes = $3, is_done = $4, updated_at = $5
		WHERE id = $6
	`, proj.Title, proj.Genre, proj.DurationMinutes, proj.IsDone, proj.UpdatedAt, proj.ID)
	if err != nil {
		return mapWriteError("update project", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	for _, c := range changes {
		tag, err := tx.Exec(ctx, `
			UPDATE layout_slots
			SET label = $1
			WHERE id = $2 AND project_id = $3 AND kind = $4
		`, c.Label, c.SlotID, proj.ID, string(c.Kind))
		if err != nil {
			return mapWriteError("update layout slot", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", repository.ErrSlotMismatch, c.SlotID)
		}
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) SetStatus(ctx context.Context, id string, status project.Status, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE projects SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), at, id)
	if err != nil {
		return mapWriteError("set project status", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, repository.ErrForeignKeyViolation)
		case codeUniqueViolation, codeCheckViolation, codeStringTooLong:
			return fmt.Errorf("%s: %w: %s", op, repository.ErrInvalidInput, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
