package project

import "github.com/google/uuid"

// Layout is the slot cardinality policy applied when a project is created.
type Layout struct {
	Tracks int
	Parts  int
	Scenes int
}

// DefaultLayout is the canonical configuration: 8 tracks, 4 parts, 16 scenes.
var DefaultLayout = Layout{Tracks: 8, Parts: 4, Scenes: 16}

// Count returns the number of slots of the given kind.
func (l Layout) Count(kind SlotKind) int {
	switch kind {
	case KindTrack:
		return l.Tracks
	case KindPart:
		return l.Parts
	case KindScene:
		return l.Scenes
	default:
		return 0
	}
}

// Total returns the number of slots across all kinds.
func (l Layout) Total() int {
	return l.Tracks + l.Parts + l.Scenes
}

// materialize fills the project's slot collections with empty slots
// indexed 1..N for each kind.
func (l Layout) materialize(proj *Project) {
	proj.Tracks = nil
	proj.Parts = nil
	proj.Scenes = nil
	for _, kind := range Kinds {
		for i := 1; i <= l.Count(kind); i++ {
			proj.AddSlot(Slot{
				ID:        uuid.NewString(),
				ProjectID: proj.ID,
				Kind:      kind,
				Index:     i,
			})
		}
	}
}
