package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kidkender/dating-ai-engine/domain/identity"
	"github.com/Kidkender/dating-ai-engine/internal/database"
)

// Users manages the user lifecycle. Users are created implicitly on their
// first interaction.
type Users struct {
	store  identity.UserStore
	logger *slog.Logger
}

// NewUsers creates the user service.
func NewUsers(store identity.UserStore, logger *slog.Logger) *Users {
	if logger == nil {
		logger = slog.Default()
	}
	return &Users{store: store, logger: logger}
}

// GetOrCreate returns the user with the given external ID, creating an
// onboarding user if none exists.
func (s *Users) GetOrCreate(ctx context.Context, externalID string) (identity.User, error) {
	if externalID == "" {
		return identity.User{}, fmt.Errorf("%w: external id is required", ErrValidation)
	}

	user, err := s.store.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return identity.User{}, fmt.Errorf("%w: load user: %v", ErrDependency, err)
	}

	user, err = identity.NewUser(externalID)
	if err != nil {
		return identity.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.store.Save(ctx, user); err != nil {
		return identity.User{}, fmt.Errorf("%w: create user: %v", ErrDependency, err)
	}

	s.logger.Info("user created", "user_id", user.ID())
	return user, nil
}

// Get returns the user by internal ID.
func (s *Users) Get(ctx context.Context, id string) (identity.User, error) {
	user, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return identity.User{}, fmt.Errorf("%w: unknown user %s", ErrValidation, id)
		}
		return identity.User{}, fmt.Errorf("%w: load user: %v", ErrDependency, err)
	}
	return user, nil
}
