package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/config"
)

// Recommend ranks the pool against a user's learned preference vector.
type Recommend struct {
	preference *Preference
	choices    preference.ChoiceStore
	pool       image.PoolStore
	embeddings *Embeddings
	recs       preference.RecommendationStore
	cfg        config.AppConfig
	logger     *slog.Logger
}

// NewRecommend creates the recommendation service.
func NewRecommend(
	pref *Preference,
	choices preference.ChoiceStore,
	pool image.PoolStore,
	embeddings *Embeddings,
	recs preference.RecommendationStore,
	cfg config.AppConfig,
	logger *slog.Logger,
) *Recommend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recommend{
		preference: pref,
		choices:    choices,
		pool:       pool,
		embeddings: embeddings,
		recs:       recs,
		cfg:        cfg,
		logger:     logger,
	}
}

// Rank scores every active, embedded pool image the user has not already
// been shown against the stored preference vector, drops scores below the
// similarity threshold, and persists the top-k run. A limit of 0 falls back
// to the configured default. An empty candidate pool yields an empty run,
// not an error; a missing preference vector yields ErrInsufficientData.
func (s *Recommend) Rank(ctx context.Context, userID string, limit int) ([]preference.Recommendation, error) {
	profile, err := s.preference.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.RecommendLimit()
	}

	candidates, err := s.candidateVectors(ctx, userID)
	if err != nil {
		return nil, err
	}

	scored := preference.TopKSimilar(profile.Vector(), candidates, 0)
	threshold := s.cfg.SimilarityThreshold()
	ranked := make([]preference.Recommendation, 0, limit)
	now := time.Now().UTC()
	for _, sc := range scored {
		if sc.Score < threshold {
			break
		}
		ranked = append(ranked, preference.NewRecommendation(userID, sc.ID, sc.Score, len(ranked)+1, now))
		if len(ranked) == limit {
			break
		}
	}

	if err := s.recs.Replace(ctx, userID, ranked); err != nil {
		return nil, fmt.Errorf("%w: persist recommendations: %v", ErrDependency, err)
	}

	s.logger.Info("recommendations ranked",
		"user_id", userID,
		"candidates", len(candidates),
		"returned", len(ranked),
	)
	return ranked, nil
}

// Latest returns the most recently persisted run for a user.
func (s *Recommend) Latest(ctx context.Context, userID string) ([]preference.Recommendation, error) {
	recs, err := s.recs.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load recommendations: %v", ErrDependency, err)
	}
	return recs, nil
}

// candidateVectors returns the embedding vectors of every rankable image:
// active, embedded, and never shown to the user during onboarding.
func (s *Recommend) candidateVectors(ctx context.Context, userID string) (map[string][]float64, error) {
	shown, err := s.choices.ShownImageIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load shown images: %v", ErrDependency, err)
	}

	images, err := s.pool.Find(ctx, store.WithActive(), store.WithEmbeddable())
	if err != nil {
		return nil, fmt.Errorf("%w: load pool: %v", ErrDependency, err)
	}

	ids := make([]string, 0, len(images))
	for _, img := range images {
		if shown[img.ID()] {
			continue
		}
		ids = append(ids, img.ID())
	}
	if len(ids) == 0 {
		return map[string][]float64{}, nil
	}
	return s.embeddings.Vectors(ctx, ids)
}
