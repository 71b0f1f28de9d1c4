// Package seed fills a store with demo projects. It goes through the
// project service so demo data obeys the same rules as user data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/rpggio/slotboard/internal/domain/project"
)

var (
	TrackLabels = []string{"BD", "SD", "HT", "BL", "PD", "ST", "FX", "DL", "SL", "FL", "VO"}
	PartLabels  = []string{"full", "intro", "outro", "break", "side", "part"}
	SceneLabels = []string{
		"LP", "HP",
		"V1", "V2", "V3", "V4",
		"B1", "B2", "B3", "B4",
		"S1", "S2", "S3", "S4",
		"R1", "R2", "R3", "R4",
	}
	Genres = []string{"techno", "electo", "idm", "ambient", "tech", "minimal"}
)

const (
	minDuration = 30
	maxDuration = 90
)

// ProjectService is the subset of the project service the seeder drives.
type ProjectService interface {
	Create(ctx context.Context, ownerID string, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, ownerID, id string, req project.UpdateRequest) (*project.Project, error)
}

// Seeder creates labeled demo projects.
type Seeder struct {
	svc    ProjectService
	rng    *rand.Rand
	logger *slog.Logger
}

// NewSeeder returns a seeder; equal seeds yield equal demo data.
func NewSeeder(svc ProjectService, seed uint64, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Seeder{
		svc:    svc,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logger,
	}
}

// Seed creates count projects for ownerID with every slot labeled.
func (s *Seeder) Seed(ctx context.Context, ownerID string, count int) ([]*project.Project, error) {
	out := make([]*project.Project, 0, count)
	for i := 0; i < count; i++ {
		proj, err := s.svc.Create(ctx, ownerID, project.CreateRequest{
			Title: time.Month(s.rng.IntN(12) + 1).String(),
			Genre: pick(s.rng, Genres),
		})
		if err != nil {
			return out, fmt.Errorf("creating demo project %d: %w", i+1, err)
		}

		duration := minDuration + s.rng.IntN(maxDuration-minDuration+1)
		done := s.rng.IntN(2) == 1
		proj, err = s.svc.Update(ctx, ownerID, proj.ID, project.UpdateRequest{
			Title:           proj.Title,
			Genre:           proj.Genre,
			DurationMinutes: &duration,
			IsDone:          &done,
			Tracks:          s.labels(proj.Tracks, TrackLabels),
			Parts:           s.labels(proj.Parts, PartLabels),
			Scenes:          s.labels(proj.Scenes, SceneLabels),
		})
		if err != nil {
			return out, fmt.Errorf("labeling demo project %d: %w", i+1, err)
		}
		out = append(out, proj)
	}
	s.logger.Info("seeded demo projects", "owner_id", ownerID, "count", len(out))
	return out, nil
}

func (s *Seeder) labels(slots []project.Slot, vocab []string) []project.SlotEdit {
	edits := make([]project.SlotEdit, 0, len(slots))
	for _, slot := range slots {
		edits = append(edits, project.SlotEdit{SlotID: slot.ID, Label: pick(s.rng, vocab)})
	}
	return edits
}

func pick(rng *rand.Rand, words []string) string {
	return words[rng.IntN(len(words))]
}
