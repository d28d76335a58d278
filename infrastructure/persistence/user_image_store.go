package persistence

import (
	"context"
	"fmt"

	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserImageStore implements image.UserImageStore on GORM.
type UserImageStore struct {
	database.Repository[image.UserImage, UserImageModel]
	db database.Database
}

// NewUserImageStore creates a UserImageStore.
func NewUserImageStore(db database.Database) *UserImageStore {
	return &UserImageStore{
		Repository: database.NewRepository[image.UserImage, UserImageModel](db, UserImageMapper{}, "user image"),
		db:         db,
	}
}

// Save upserts a user image by ID.
func (s *UserImageStore) Save(ctx context.Context, img image.UserImage) error {
	model := s.Mapper().ToModel(img)
	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_primary", "has_embedding"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("save user image: %w", result.Error)
	}
	return nil
}

// Get returns the image by ID.
func (s *UserImageStore) Get(ctx context.Context, id string) (image.UserImage, error) {
	return s.FindOne(ctx, store.WithID(id))
}

// FindByUser returns all images uploaded by the user, oldest first.
func (s *UserImageStore) FindByUser(ctx context.Context, userID string) ([]image.UserImage, error) {
	return s.Find(ctx, store.WithUserID(userID), store.WithOrderAsc("created_at"))
}

// SetPrimary marks one image as primary and clears the flag everywhere else,
// atomically.
func (s *UserImageStore) SetPrimary(ctx context.Context, userID, imageID string) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		result := tx.Model(&UserImageModel{}).
			Where("id = ? AND user_id = ?", imageID, userID).
			Update("is_primary", true)
		if result.Error != nil {
			return fmt.Errorf("set primary: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("user image %s: %w", imageID, database.ErrNotFound)
		}
		if err := tx.Model(&UserImageModel{}).
			Where("user_id = ? AND id <> ?", userID, imageID).
			Update("is_primary", false).Error; err != nil {
			return fmt.Errorf("clear prior primary: %w", err)
		}
		return nil
	})
}
