package preference

import (
	"context"

	"github.com/Kidkender/dating-ai-engine/domain/store"
)

// ChoiceStore persists the append-only choice ledger.
type ChoiceStore interface {
	// AppendBatch atomically appends a batch of choices. Either every choice
	// is persisted or none is.
	AppendBatch(ctx context.Context, choices []Choice) error

	// Find returns choices matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]Choice, error)

	// CountByPhase returns per-phase recorded choice counts for a user.
	CountByPhase(ctx context.Context, userID string) ([PhaseCount]int, error)

	// ShownImageIDs returns the set of pool image IDs that have appeared in
	// any recorded choice of the user.
	ShownImageIDs(ctx context.Context, userID string) (map[string]bool, error)
}

// ProfileStore persists learned preference vectors.
type ProfileStore interface {
	// Save upserts the profile for its user.
	Save(ctx context.Context, profile Profile) error

	// Get returns the profile for a user, or database.ErrNotFound.
	Get(ctx context.Context, userID string) (Profile, error)
}

// RecommendationStore persists ranked recommendation runs.
type RecommendationStore interface {
	// Replace deletes any prior run for the user and stores the new one.
	Replace(ctx context.Context, userID string, recs []Recommendation) error

	// Latest returns the stored run for a user ordered by rank.
	Latest(ctx context.Context, userID string) ([]Recommendation, error)
}
