package mcp

import (
	"time"

	"github.com/rpggio/slotboard/internal/domain/project"
)

type ListProjectsParams struct{}

type ProjectIDParams struct {
	ID string `json:"id" jsonschema:"project identifier"`
}

type CreateProjectParams struct {
	Title string `json:"title" jsonschema:"project title, at most 32 characters"`
	Genre string `json:"genre,omitempty" jsonschema:"genre, at most 16 characters"`
}

type SlotEditParams struct {
	ID    string `json:"id" jsonschema:"slot identifier from get_project"`
	Label string `json:"label" jsonschema:"new label, at most 32 characters; empty clears it"`
}

type UpdateProjectParams struct {
	ID              string           `json:"id" jsonschema:"project identifier"`
	Title           string           `json:"title" jsonschema:"project title"`
	Genre           string           `json:"genre,omitempty" jsonschema:"genre"`
	DurationMinutes *int             `json:"duration_minutes,omitempty" jsonschema:"duration in minutes"`
	IsDone          *bool            `json:"is_done,omitempty" jsonschema:"completion flag"`
	Tracks          []SlotEditParams `json:"tracks,omitempty" jsonschema:"track label edits"`
	Parts           []SlotEditParams `json:"parts,omitempty" jsonschema:"part label edits"`
	Scenes          []SlotEditParams `json:"scenes,omitempty" jsonschema:"scene label edits"`
}

func (p UpdateProjectParams) request() project.UpdateRequest {
	return project.UpdateRequest{
		Title:           p.Title,
		Genre:           p.Genre,
		DurationMinutes: p.DurationMinutes,
		IsDone:          p.IsDone,
		Tracks:          slotEdits(p.Tracks),
		Parts:           slotEdits(p.Parts),
		Scenes:          slotEdits(p.Scenes),
	}
}

func slotEdits(in []SlotEditParams) []project.SlotEdit {
	if len(in) == 0 {
		return nil
	}
	out := make([]project.SlotEdit, 0, len(in))
	for _, e := range in {
		out = append(out, project.SlotEdit{SlotID: e.ID, Label: e.Label})
	}
	return out
}

type SlotView struct {
	ID    string `json:"id"`
	Index int    `json:"slot_index"`
	Label string `json:"label"`
}

type ProjectSummaryView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Genre           string `json:"genre"`
	Status          string `json:"status"`
	NumberOfTracks  int    `json:"number_of_tracks"`
	DurationMinutes int    `json:"duration_minutes"`
	IsDone          bool   `json:"is_done"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type ProjectView struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Genre           string     `json:"genre"`
	Status          string     `json:"status"`
	NumberOfTracks  int        `json:"number_of_tracks"`
	DurationMinutes int        `json:"duration_minutes"`
	IsDone          bool       `json:"is_done"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
	Tracks          []SlotView `json:"tracks"`
	Parts           []SlotView `json:"parts"`
	Scenes          []SlotView `json:"scenes"`
}

type ListProjectsResult struct {
	Projects []ProjectSummaryView `json:"projects"`
}

type DeleteProjectResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type ProcessProjectResult struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func summaryView(s project.ProjectSummary) ProjectSummaryView {
	return ProjectSummaryView{
		ID:              s.ID,
		Title:           s.Title,
		Genre:           s.Genre,
		Status:          string(s.Status),
		NumberOfTracks:  s.NumberOfTracks,
		DurationMinutes: s.DurationMinutes,
		IsDone:          s.IsDone,
		CreatedAt:       formatTime(s.CreatedAt),
		UpdatedAt:       formatTime(s.UpdatedAt),
	}
}

func projectView(p *project.Project) ProjectView {
	s := summaryView(p.Summary())
	return ProjectView{
		ID:              s.ID,
		Title:           s.Title,
		Genre:           s.Genre,
		Status:          s.Status,
		NumberOfTracks:  s.NumberOfTracks,
		DurationMinutes: s.DurationMinutes,
		IsDone:          s.IsDone,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Tracks:          slotViews(p.Tracks),
		Parts:           slotViews(p.Parts),
		Scenes:          slotViews(p.Scenes),
	}
}

func slotViews(slots []project.Slot) []SlotView {
	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotView{ID: s.ID, Index: s.Index, Label: s.Label})
	}
	return out
}
