package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/config"
)

// Preference recomputes the learned preference vector from the full choice
// ledger. Each choice contributes +w(phase) times the chosen embedding and
// -w(phase)*lambda times the rejected one; the sum is L2-normalized.
type Preference struct {
	choices    preference.ChoiceStore
	profiles   preference.ProfileStore
	embeddings *Embeddings
	cfg        config.AppConfig
	logger     *slog.Logger
}

// NewPreference creates the aggregation service.
func NewPreference(
	choices preference.ChoiceStore,
	profiles preference.ProfileStore,
	embeddings *Embeddings,
	cfg config.AppConfig,
	logger *slog.Logger,
) *Preference {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preference{
		choices:    choices,
		profiles:   profiles,
		embeddings: embeddings,
		cfg:        cfg,
		logger:     logger,
	}
}

// Recompute rebuilds and stores the profile for a user from the entire
// ledger. The computation is deterministic: recomputing over an unchanged
// ledger yields the same vector. ErrInsufficientData is returned when the
// ledger holds no choice with a usable chosen-image embedding.
func (s *Preference) Recompute(ctx context.Context, userID string) (preference.Profile, error) {
	choices, err := s.choices.Find(ctx, store.WithUserID(userID), store.WithOrderAsc("created_at"))
	if err != nil {
		return preference.Profile{}, fmt.Errorf("%w: load ledger: %v", ErrDependency, err)
	}
	if len(choices) == 0 {
		return preference.Profile{}, fmt.Errorf("%w: user %s has no recorded choices", ErrInsufficientData, userID)
	}

	vector, used, err := s.aggregate(ctx, choices)
	if err != nil {
		return preference.Profile{}, err
	}
	if used == 0 {
		return preference.Profile{}, fmt.Errorf("%w: no choice with a usable embedding", ErrInsufficientData)
	}

	profile := preference.NewProfile(userID, vector, used, time.Now().UTC())
	if err := s.profiles.Save(ctx, profile); err != nil {
		return preference.Profile{}, fmt.Errorf("%w: save profile: %v", ErrDependency, err)
	}

	s.logger.Info("preference recomputed", "user_id", userID, "choices_used", used)
	return profile, nil
}

// Get returns the stored profile, or ErrInsufficientData when none exists.
func (s *Preference) Get(ctx context.Context, userID string) (preference.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return preference.Profile{}, fmt.Errorf("%w: no preference vector for user %s", ErrInsufficientData, userID)
	}
	return profile, nil
}

// InterimVector aggregates only the given choices without persisting the
// result. Used for phase 2/3 candidate selection before onboarding ends.
// Returns ok=false when no choice contributed signal.
func (s *Preference) InterimVector(ctx context.Context, choices []preference.Choice) ([]float64, bool, error) {
	vector, used, err := s.aggregate(ctx, choices)
	if err != nil {
		return nil, false, err
	}
	if used == 0 || preference.IsZero(vector) {
		return nil, false, nil
	}
	return vector, true, nil
}

func (s *Preference) aggregate(ctx context.Context, choices []preference.Choice) ([]float64, int, error) {
	ids := make([]string, 0, len(choices)*2)
	seen := make(map[string]bool, len(choices)*2)
	for _, c := range choices {
		for _, id := range []string{c.Chosen(), c.Rejected()} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	vectors, err := s.embeddings.Vectors(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	lambda := s.cfg.NegativeWeight()
	acc := make([]float64, s.cfg.EmbeddingDim())
	used := 0
	for _, c := range choices {
		chosen, ok := vectors[c.Chosen()]
		if !ok {
			continue
		}
		w := s.cfg.PhaseWeight(c.Phase().Number())
		preference.Accumulate(acc, chosen, w)
		if rejected, ok := vectors[c.Rejected()]; ok {
			preference.Accumulate(acc, rejected, -w*lambda)
		}
		used++
	}

	return preference.Normalize(acc), used, nil
}
