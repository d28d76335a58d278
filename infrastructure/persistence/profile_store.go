package persistence

import (
	"context"
	"fmt"

	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/database"
	"gorm.io/gorm/clause"
)

// ProfileStore implements preference.ProfileStore on GORM.
type ProfileStore struct {
	database.Repository[preference.Profile, ProfileModel]
}

// NewProfileStore creates a ProfileStore.
func NewProfileStore(db database.Database) *ProfileStore {
	return &ProfileStore{
		Repository: database.NewRepository[preference.Profile, ProfileModel](db, ProfileMapper{}, "profile"),
	}
}

// Save upserts the profile for its user.
func (s *ProfileStore) Save(ctx context.Context, profile preference.Profile) error {
	model := s.Mapper().ToModel(profile)
	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vector", "choice_count", "updated_at"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("save profile: %w", result.Error)
	}
	return nil
}

// Get returns the profile for a user.
func (s *ProfileStore) Get(ctx context.Context, userID string) (preference.Profile, error) {
	return s.FindOne(ctx, store.WithUserID(userID))
}
