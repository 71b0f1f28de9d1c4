package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when storage rejects a value
	ErrInvalidInput = errors.New("invalid input")

	// ErrSlotMismatch is returned when a label change targets a slot that is
	// not part of the project being updated
	ErrSlotMismatch = errors.New("slot does not belong to project")
)
