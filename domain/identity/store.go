package identity

import (
	"context"

	"github.com/Kidkender/dating-ai-engine/domain/store"
)

// UserStore persists users.
type UserStore interface {
	// Save upserts a user.
	Save(ctx context.Context, user User) error

	// Get returns the user by ID, or database.ErrNotFound.
	Get(ctx context.Context, id string) (User, error)

	// GetByExternalID returns the user by external ID, or database.ErrNotFound.
	GetByExternalID(ctx context.Context, externalID string) (User, error)

	// Find returns users matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]User, error)
}
