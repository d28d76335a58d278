package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kidkender/dating-ai-engine/domain/identity"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/internal/config"
)

// ChoiceSubmission is one pairwise decision of an incoming batch.
type ChoiceSubmission struct {
	ShownA string
	ShownB string
	Chosen string
}

// Choices records batches of pairwise decisions against the ledger and
// drives the phase machine. Submissions are all-or-nothing: a batch either
// exactly fills the current phase's quota and is appended atomically, or
// nothing is recorded.
type Choices struct {
	users      *Users
	store      preference.ChoiceStore
	embeddings *Embeddings
	preference *Preference
	cfg        config.AppConfig
	logger     *slog.Logger
	locks      *userLocks
}

// NewChoices creates the choice service.
func NewChoices(
	users *Users,
	store preference.ChoiceStore,
	embeddings *Embeddings,
	pref *Preference,
	cfg config.AppConfig,
	logger *slog.Logger,
) *Choices {
	if logger == nil {
		logger = slog.Default()
	}
	return &Choices{
		users:      users,
		store:      store,
		embeddings: embeddings,
		preference: pref,
		cfg:        cfg,
		logger:     logger,
		locks:      newUserLocks(),
	}
}

// Progress returns the user's current onboarding progress.
func (s *Choices) Progress(ctx context.Context, userID string) (preference.Progress, error) {
	counts, err := s.store.CountByPhase(ctx, userID)
	if err != nil {
		return preference.Progress{}, fmt.Errorf("%w: count choices: %v", ErrDependency, err)
	}
	return preference.NewProgress(counts, s.cfg.ProfilesPerPhase()), nil
}

// RecordBatch validates and atomically appends a full-phase batch of
// choices, then advances the user's lifecycle and recomputes the preference
// vector. Concurrent submissions for the same user are serialized; the
// losing submission fails the quota check with ErrPhaseState.
func (s *Choices) RecordBatch(ctx context.Context, userID string, phase preference.Phase, batch []ChoiceSubmission) (preference.Progress, error) {
	if len(batch) == 0 {
		return preference.Progress{}, fmt.Errorf("%w: empty batch", ErrValidation)
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return preference.Progress{}, err
	}

	unlock := s.locks.acquire(user.ID())
	defer unlock()

	progress, err := s.Progress(ctx, user.ID())
	if err != nil {
		return preference.Progress{}, err
	}
	if err := progress.Accepts(phase, len(batch)); err != nil {
		var stateErr *preference.StateError
		if errors.As(err, &stateErr) {
			return progress, fmt.Errorf("%w: %w", ErrPhaseState, stateErr)
		}
		return progress, fmt.Errorf("%w: %v", ErrPhaseState, err)
	}

	choices, err := s.buildChoices(user.ID(), phase, batch)
	if err != nil {
		return progress, err
	}
	if err := s.verifyEmbeddings(ctx, choices); err != nil {
		return progress, err
	}

	if err := s.store.AppendBatch(ctx, choices); err != nil {
		return progress, fmt.Errorf("%w: append batch: %v", ErrDependency, err)
	}

	progress, err = s.Progress(ctx, user.ID())
	if err != nil {
		return preference.Progress{}, err
	}

	if err := s.advanceUser(ctx, user, phase, progress); err != nil {
		return progress, err
	}

	// the vector must reflect the new phase before candidates or
	// recommendations are served from it
	if _, err := s.preference.Recompute(ctx, user.ID()); err != nil && !errors.Is(err, ErrInsufficientData) {
		return progress, err
	}

	s.logger.Info("choice batch recorded",
		"user_id", user.ID(),
		"phase", phase,
		"batch_size", len(batch),
		"current_phase", progress.Current(),
	)
	return progress, nil
}

func (s *Choices) buildChoices(userID string, phase preference.Phase, batch []ChoiceSubmission) ([]preference.Choice, error) {
	choices := make([]preference.Choice, len(batch))
	for i, sub := range batch {
		c, err := preference.NewChoice(userID, phase, sub.ShownA, sub.ShownB, sub.Chosen)
		if err != nil {
			return nil, fmt.Errorf("%w: choice %d: %v", ErrValidation, i, err)
		}
		choices[i] = c
	}
	return choices, nil
}

// verifyEmbeddings rejects the batch when any referenced image lacks a
// usable embedding.
func (s *Choices) verifyEmbeddings(ctx context.Context, choices []preference.Choice) error {
	ids := make([]string, 0, len(choices)*2)
	seen := make(map[string]bool, len(choices)*2)
	for _, c := range choices {
		for _, id := range []string{c.ShownA(), c.ShownB()} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	vectors, err := s.embeddings.Vectors(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := vectors[id]; !ok {
			return fmt.Errorf("%w: image %s has no usable embedding", ErrValidation, id)
		}
	}
	return nil
}

func (s *Choices) advanceUser(ctx context.Context, user identity.User, phase preference.Phase, progress preference.Progress) error {
	updated := user
	if phase == preference.Phase1 && progress.Completed(1) {
		updated = updated.Activate()
	}
	if progress.Done() {
		updated = updated.Complete(time.Now().UTC())
	}
	if updated.Status() == user.Status() {
		return nil
	}
	if err := s.users.store.Save(ctx, updated); err != nil {
		return fmt.Errorf("%w: update user status: %v", ErrDependency, err)
	}
	s.logger.Info("user status changed", "user_id", user.ID(), "status", updated.Status())
	return nil
}
