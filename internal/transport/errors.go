package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rpggio/slotboard/internal/domain/project"
)

// writeDomainError maps service errors onto HTTP responses. Causes of
// internal failures are logged, never returned to the client.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *project.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make(map[string][]string, len(verr.Fields))
		for _, f := range verr.Fields {
			fields[f.Field] = append(fields[f.Field], f.Message)
		}
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{
			Message: "The given data was invalid.",
			Errors:  fields,
		})
	case errors.Is(err, project.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.")
	case errors.Is(err, project.ErrForbidden):
		writeError(w, http.StatusForbidden, "This action is unauthorized.")
	case errors.Is(err, project.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "Project not found.")
	case errors.Is(err, project.ErrUpdateFailed):
		logger.Error("project update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update project.")
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error.")
	}
}
