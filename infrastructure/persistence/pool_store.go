package persistence

import (
	"context"
	"fmt"

	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/database"
	"gorm.io/gorm/clause"
)

// PoolStore implements image.PoolStore on GORM.
type PoolStore struct {
	database.Repository[image.PoolImage, PoolImageModel]
}

// NewPoolStore creates a PoolStore.
func NewPoolStore(db database.Database) *PoolStore {
	return &PoolStore{
		Repository: database.NewRepository[image.PoolImage, PoolImageModel](db, PoolImageMapper{}, "pool image"),
	}
}

// Save upserts a pool image by ID.
func (s *PoolStore) Save(ctx context.Context, img image.PoolImage) error {
	model := s.Mapper().ToModel(img)
	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phase", "has_embedding", "active"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("save pool image: %w", result.Error)
	}
	return nil
}

// Get returns the image by ID.
func (s *PoolStore) Get(ctx context.Context, id string) (image.PoolImage, error) {
	return s.FindOne(ctx, store.WithID(id))
}

// GetByURL returns the image by URL.
func (s *PoolStore) GetByURL(ctx context.Context, url string) (image.PoolImage, error) {
	return s.FindOne(ctx, store.WithURL(url))
}
