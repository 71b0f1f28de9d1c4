package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/slotboard/internal/domain/project"
)

// maxBodyBytes bounds request bodies; a full layout edit is well below it.
const maxBodyBytes = 1 << 20

// ProjectService is the project API consumed by HTTP handlers.
type ProjectService interface {
	List(ctx context.Context, ownerID string) ([]project.ProjectSummary, error)
	Get(ctx context.Context, ownerID, id string) (*project.Project, error)
	Create(ctx context.Context, ownerID string, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, ownerID, id string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
	RequestBackup(ctx context.Context, ownerID, id string) (string, error)
}

type projectHandlers struct {
	svc    ProjectService
	logger *slog.Logger
}

func (h *projectHandlers) routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Patch("/", h.update)
		r.Delete("/", h.delete)
		r.Post("/process", h.process)
	})
}

func (h *projectHandlers) list(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := OwnerFromContext(r.Context())
	summaries, err := h.svc.List(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	out := make([]projectResource, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryResource(s))
	}
	writeJSON(w, http.StatusOK, envelope{Data: out})
}

func (h *projectHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req project.CreateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ownerID, _ := OwnerFromContext(r.Context())
	proj, err := h.svc.Create(r.Context(), ownerID, req)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Data: fullResource(proj)})
}

func (h *projectHandlers) get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := OwnerFromContext(r.Context())
	proj, err := h.svc.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: fullResource(proj)})
}

func (h *projectHandlers) update(w http.ResponseWriter, r *http.Request) {
	var req project.UpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ownerID, _ := OwnerFromContext(r.Context())
	proj, err := h.svc.Update(r.Context(), ownerID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Data: fullResource(proj)})
}

func (h *projectHandlers) delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := OwnerFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *projectHandlers) process(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := OwnerFromContext(r.Context())
	msg, err := h.svc.RequestBackup(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, messageResponse{Message: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
