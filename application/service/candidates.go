package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/config"
)

// CandidatePair is one pair of pool images to present for a binary choice.
type CandidatePair struct {
	ImageA image.PoolImage
	ImageB image.PoolImage
}

// Candidates assembles the batch of image pairs a user should be shown for
// their current phase. Phase 1 pairs are random; later phases pair the
// unseen images most similar to an interim vector aggregated from the
// choices recorded so far.
type Candidates struct {
	choices    preference.ChoiceStore
	pool       image.PoolStore
	embeddings *Embeddings
	preference *Preference
	cfg        config.AppConfig
	logger     *slog.Logger
}

// NewCandidates creates the candidate selection service.
func NewCandidates(
	choices preference.ChoiceStore,
	pool image.PoolStore,
	embeddings *Embeddings,
	pref *Preference,
	cfg config.AppConfig,
	logger *slog.Logger,
) *Candidates {
	if logger == nil {
		logger = slog.Default()
	}
	return &Candidates{
		choices:    choices,
		pool:       pool,
		embeddings: embeddings,
		preference: pref,
		cfg:        cfg,
		logger:     logger,
	}
}

// Batch returns the full batch of pairs for the given phase. The phase must
// be the user's current one (ErrPhaseState otherwise); the pool must hold
// enough eligible unseen images for a full batch (ErrInsufficientData
// otherwise).
func (s *Candidates) Batch(ctx context.Context, userID string, phase preference.Phase) ([]CandidatePair, error) {
	counts, err := s.choices.CountByPhase(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: count choices: %v", ErrDependency, err)
	}
	progress := preference.NewProgress(counts, s.cfg.ProfilesPerPhase())
	if progress.Current().IsTerminal() {
		return nil, fmt.Errorf("%w: onboarding already complete", ErrPhaseState)
	}
	if phase != progress.Current() {
		return nil, fmt.Errorf("%w: requested %s but user is in %s", ErrPhaseState, phase, progress.Current())
	}

	pairs := s.cfg.ProfilesPerPhase() - progress.Count(phase.Number())
	eligible, err := s.eligibleImages(ctx, userID, phase.Number())
	if err != nil {
		return nil, err
	}
	if len(eligible) < pairs*2 {
		return nil, fmt.Errorf(
			"%w: need %d eligible images for phase %s, pool has %d",
			ErrInsufficientData, pairs*2, phase, len(eligible),
		)
	}

	ordered, err := s.order(ctx, userID, phase, eligible)
	if err != nil {
		return nil, err
	}

	batch := make([]CandidatePair, pairs)
	for i := range batch {
		batch[i] = CandidatePair{ImageA: ordered[2*i], ImageB: ordered[2*i+1]}
	}

	s.logger.Debug("candidate batch assembled",
		"user_id", userID,
		"phase", phase,
		"pairs", len(batch),
		"eligible", len(eligible),
	)
	return batch, nil
}

// eligibleImages returns active, embedded images tagged for the phase (or
// untagged) that the user has not seen in any recorded choice.
func (s *Candidates) eligibleImages(ctx context.Context, userID string, phase int) ([]image.PoolImage, error) {
	shown, err := s.choices.ShownImageIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load shown images: %v", ErrDependency, err)
	}

	images, err := s.pool.Find(ctx, store.WithActive(), store.WithEmbeddable())
	if err != nil {
		return nil, fmt.Errorf("%w: load pool: %v", ErrDependency, err)
	}

	eligible := make([]image.PoolImage, 0, len(images))
	for _, img := range images {
		if shown[img.ID()] || !img.EligibleFor(phase) {
			continue
		}
		eligible = append(eligible, img)
	}
	return eligible, nil
}

// order arranges the eligible images for pairing: a shuffle for phase 1 or
// when no interim preference signal exists yet, otherwise descending
// similarity to the interim vector so later phases refine against what the
// user has already picked.
func (s *Candidates) order(ctx context.Context, userID string, phase preference.Phase, eligible []image.PoolImage) ([]image.PoolImage, error) {
	if phase != preference.Phase1 {
		prior, err := s.choices.Find(ctx, store.WithUserID(userID), store.WithOrderAsc("created_at"))
		if err != nil {
			return nil, fmt.Errorf("%w: load ledger: %v", ErrDependency, err)
		}
		vector, ok, err := s.preference.InterimVector(ctx, prior)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.orderBySimilarity(ctx, vector, eligible)
		}
	}

	shuffled := make([]image.PoolImage, len(eligible))
	copy(shuffled, eligible)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled, nil
}

func (s *Candidates) orderBySimilarity(ctx context.Context, vector []float64, eligible []image.PoolImage) ([]image.PoolImage, error) {
	ids := make([]string, len(eligible))
	byID := make(map[string]image.PoolImage, len(eligible))
	for i, img := range eligible {
		ids[i] = img.ID()
		byID[img.ID()] = img
	}

	vectors, err := s.embeddings.Vectors(ctx, ids)
	if err != nil {
		return nil, err
	}

	scored := preference.TopKSimilar(vector, vectors, 0)
	ordered := make([]image.PoolImage, 0, len(eligible))
	for _, sc := range scored {
		ordered = append(ordered, byID[sc.ID])
	}
	// images whose vector went missing between listing and scoring drop to
	// the back rather than vanishing
	if len(ordered) < len(eligible) {
		for _, img := range eligible {
			if _, ok := vectors[img.ID()]; !ok {
				ordered = append(ordered, img)
			}
		}
	}
	return ordered, nil
}
