package mcp

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/slotboard/internal/domain/project"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RecoveryHint != "" {
		msg += " (" + e.RecoveryHint + ")"
	}
	return msg
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var verr *project.ValidationError
	switch {
	case errors.As(err, &verr):
		return &APIError{Code: "INVALID_INPUT", Message: verr.Error(), Details: verr.Fields, RecoveryHint: "Read slot ids with get_project"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid input"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check ID with list_projects"}
	case errors.Is(err, project.ErrForbidden):
		return &APIError{Code: "FORBIDDEN", Message: "forbidden"}
	case errors.Is(err, project.ErrUpdateFailed):
		return &APIError{Code: "UPDATE_FAILED", Message: "update was rolled back", RecoveryHint: "Retry the update"}
	default:
		return nil
	}
}

// toolError converts err into the error returned from a tool handler.
// Unmapped causes are logged and hidden from the caller.
func toolError(logger *slog.Logger, tool string, err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	logger.Error("tool failed", "tool", tool, "error", err)
	return errors.New("internal error")
}
