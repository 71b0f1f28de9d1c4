package project

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength = 32
	MaxGenreLength = 16
	MaxLabelLength = 32
)

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Title string `json:"title"`
	Genre string `json:"genre"`
}

// UpdateRequest is a full edit of a project: scalar fields plus label edits
// for any subset of slots. Nil optional fields keep their current value.
type UpdateRequest struct {
	Title           string     `json:"title"`
	Genre           string     `json:"genre"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	IsDone          *bool      `json:"is_done,omitempty"`
	Tracks          []SlotEdit `json:"tracks,omitempty"`
	Parts           []SlotEdit `json:"parts,omitempty"`
	Scenes          []SlotEdit `json:"scenes,omitempty"`
}

// Edits returns the label edits sent for the given kind.
func (r UpdateRequest) Edits(kind SlotKind) []SlotEdit {
	switch kind {
	case KindTrack:
		return r.Tracks
	case KindPart:
		return r.Parts
	case KindScene:
		return r.Scenes
	default:
		return nil
	}
}

func fieldName(kind SlotKind) string {
	return string(kind) + "s"
}

// ValidateCreateInput validates fields required to create a project.
func ValidateCreateInput(req CreateRequest) error {
	verr := &ValidationError{}
	validateTitle(verr, req.Title)
	validateGenre(verr, req.Genre)
	return verr.orNil()
}

// ValidateUpdateInput validates an update against the project it targets.
// Every edited slot must belong to proj and to the kind it was sent under.
// It returns the edits resolved to label changes in request order.
func ValidateUpdateInput(proj *Project, req UpdateRequest) ([]LabelChange, error) {
	verr := &ValidationError{}
	validateTitle(verr, req.Title)
	validateGenre(verr, req.Genre)
	if req.DurationMinutes != nil && *req.DurationMinutes < 0 {
		verr.add("duration_minutes", "must be zero or greater")
	}

	var changes []LabelChange
	for _, kind := range Kinds {
		owned := make(map[string]struct{}, len(proj.Slots(kind)))
		for _, slot := range proj.Slots(kind) {
			owned[slot.ID] = struct{}{}
		}
		for i, edit := range req.Edits(kind) {
			prefix := fmt.Sprintf("%s.%d", fieldName(kind), i)
			id := strings.TrimSpace(edit.SlotID)
			if id == "" {
				verr.add(prefix+".id", "is required")
				continue
			}
			if _, ok := owned[id]; !ok {
				verr.add(prefix+".id", "does not belong to this project")
				continue
			}
			label := strings.TrimSpace(edit.Label)
			if utf8.RuneCountInString(label) > MaxLabelLength {
				verr.add(prefix+".label", fmt.Sprintf("may not be greater than %d characters", MaxLabelLength))
				continue
			}
			changes = append(changes, LabelChange{Kind: kind, SlotID: id, Label: label})
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return changes, nil
}

func validateTitle(verr *ValidationError, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		verr.add("title", "is required")
		return
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		verr.add("title", fmt.Sprintf("may not be greater than %d characters", MaxTitleLength))
	}
}

func validateGenre(verr *ValidationError, genre string) {
	if utf8.RuneCountInString(strings.TrimSpace(genre)) > MaxGenreLength {
		verr.add("genre", fmt.Sprintf("may not be greater than %d characters", MaxGenreLength))
	}
}
