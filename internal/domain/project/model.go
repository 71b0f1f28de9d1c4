package project

import "time"

// Status represents the backup workflow state of a project
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
)

// SlotKind names one of the three layout collections owned by a project
type SlotKind string

const (
	KindTrack SlotKind = "track"
	KindPart  SlotKind = "part"
	KindScene SlotKind = "scene"
)

// Kinds lists every slot kind in presentation order.
var Kinds = []SlotKind{KindTrack, KindPart, KindScene}

// Slot is one labeled position within a project's layout
type Slot struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"project_id"`
	Kind      SlotKind `json:"kind"`
	Index     int      `json:"slot_index"`
	Label     string   `json:"label"`
}

// Project groups a fixed layout configuration owned by a single account
type Project struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	Genre           string    `json:"genre"`
	Status          Status    `json:"status"`
	NumberOfTracks  int       `json:"number_of_tracks"`
	DurationMinutes int       `json:"duration_minutes"`
	IsDone          bool      `json:"is_done"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Tracks          []Slot    `json:"tracks"`
	Parts           []Slot    `json:"parts"`
	Scenes          []Slot    `json:"scenes"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	Genre           string    `json:"genre"`
	Status          Status    `json:"status"`
	NumberOfTracks  int       `json:"number_of_tracks"`
	DurationMinutes int       `json:"duration_minutes"`
	IsDone          bool      `json:"is_done"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Slots returns the project's slots of the given kind.
func (p *Project) Slots(kind SlotKind) []Slot {
	switch kind {
	case KindTrack:
		return p.Tracks
	case KindPart:
		return p.Parts
	case KindScene:
		return p.Scenes
	default:
		return nil
	}
}

// AddSlot appends a slot to the collection matching its kind. Repositories
// use it while assembling a project from storage rows ordered by index.
func (p *Project) AddSlot(slot Slot) {
	switch slot.Kind {
	case KindTrack:
		p.Tracks = append(p.Tracks, slot)
	case KindPart:
		p.Parts = append(p.Parts, slot)
	case KindScene:
		p.Scenes = append(p.Scenes, slot)
	}
}

// AllSlots returns tracks, parts and scenes as a single sequence.
func (p *Project) AllSlots() []Slot {
	all := make([]Slot, 0, len(p.Tracks)+len(p.Parts)+len(p.Scenes))
	all = append(all, p.Tracks...)
	all = append(all, p.Parts...)
	all = append(all, p.Scenes...)
	return all
}

// Summary drops the slot collections.
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:              p.ID,
		OwnerID:         p.OwnerID,
		Title:           p.Title,
		Genre:           p.Genre,
		Status:          p.Status,
		NumberOfTracks:  p.NumberOfTracks,
		DurationMinutes: p.DurationMinutes,
		IsDone:          p.IsDone,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// SlotEdit relabels one slot, addressed by its id.
type SlotEdit struct {
	SlotID string `json:"id"`
	Label  string `json:"label"`
}

// LabelChange is a slot edit resolved to its kind, as handed to storage.
type LabelChange struct {
	Kind   SlotKind
	SlotID string
	Label  string
}

// withLabels returns a copy of p with the label changes applied, leaving p's
// slot collections untouched.
func (p *Project) withLabels(changes []LabelChange) *Project {
	labels := make(map[string]string, len(changes))
	for _, c := range changes {
		labels[c.SlotID] = c.Label
	}
	relabel := func(slots []Slot) []Slot {
		if slots == nil {
			return nil
		}
		out := make([]Slot, len(slots))
		for i, slot := range slots {
			if label, ok := labels[slot.ID]; ok {
				slot.Label = label
			}
			out[i] = slot
		}
		return out
	}
	out := *p
	out.Tracks = relabel(p.Tracks)
	out.Parts = relabel(p.Parts)
	out.Scenes = relabel(p.Scenes)
	return &out
}
