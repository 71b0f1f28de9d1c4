package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rpggio/slotboard/internal/domain/project"
)

type envelope struct {
	Data any `json:"data"`
}

type messageResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type slotResource struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Index     int    `json:"slot_index"`
	Label     string `json:"label"`
}

type projectResource struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Status          project.Status `json:"status"`
	Genre           string         `json:"genre"`
	NumberOfTracks  int            `json:"number_of_tracks"`
	DurationMinutes int            `json:"duration_minutes"`
	IsDone          bool           `json:"is_done"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Tracks          []slotResource `json:"tracks,omitempty"`
	Parts           []slotResource `json:"parts,omitempty"`
	Scenes          []slotResource `json:"scenes,omitempty"`
}

func summaryResource(s project.ProjectSummary) projectResource {
	return projectResource{
		ID:              s.ID,
		Title:           s.Title,
		Status:          s.Status,
		Genre:           s.Genre,
		NumberOfTracks:  s.NumberOfTracks,
		DurationMinutes: s.DurationMinutes,
		IsDone:          s.IsDone,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func fullResource(p *project.Project) projectResource {
	res := summaryResource(p.Summary())
	res.Tracks = slotResources(p.Tracks)
	res.Parts = slotResources(p.Parts)
	res.Scenes = slotResources(p.Scenes)
	return res
}

func slotResources(slots []project.Slot) []slotResource {
	out := make([]slotResource, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResource{ID: s.ID, ProjectID: s.ProjectID, Index: s.Index, Label: s.Label})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
