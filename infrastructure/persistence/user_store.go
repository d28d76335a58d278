package persistence

import (
	"context"
	"fmt"

	"github.com/Kidkender/dating-ai-engine/domain/identity"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/database"
	"gorm.io/gorm/clause"
)

// UserStore implements identity.UserStore on GORM.
type UserStore struct {
	database.Repository[identity.User, UserModel]
}

// NewUserStore creates a UserStore.
func NewUserStore(db database.Database) *UserStore {
	return &UserStore{
		Repository: database.NewRepository[identity.User, UserModel](db, UserMapper{}, "user"),
	}
}

// Save upserts a user by ID.
func (s *UserStore) Save(ctx context.Context, user identity.User) error {
	model := s.Mapper().ToModel(user)
	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "completed_at"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("save user: %w", result.Error)
	}
	return nil
}

// Get returns the user by ID.
func (s *UserStore) Get(ctx context.Context, id string) (identity.User, error) {
	return s.FindOne(ctx, store.WithID(id))
}

// GetByExternalID returns the user by external ID.
func (s *UserStore) GetByExternalID(ctx context.Context, externalID string) (identity.User, error) {
	return s.FindOne(ctx, store.WithExternalID(externalID))
}
