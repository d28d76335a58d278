package persistence

import (
	"context"
	"fmt"

	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/database"
	"gorm.io/gorm"
)

// RecommendationStore implements preference.RecommendationStore on GORM.
type RecommendationStore struct {
	database.Repository[preference.Recommendation, RecommendationModel]
	db database.Database
}

// NewRecommendationStore creates a RecommendationStore.
func NewRecommendationStore(db database.Database) *RecommendationStore {
	return &RecommendationStore{
		Repository: database.NewRepository[preference.Recommendation, RecommendationModel](
			db, RecommendationMapper{}, "recommendation",
		),
		db: db,
	}
}

// Replace deletes any prior run for the user and stores the new one.
func (s *RecommendationStore) Replace(ctx context.Context, userID string, recs []preference.Recommendation) error {
	models := make([]RecommendationModel, len(recs))
	for i, r := range recs {
		models[i] = s.Mapper().ToModel(r)
	}

	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&RecommendationModel{}).Error; err != nil {
			return fmt.Errorf("clear prior run: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		return nil
	})
}

// Latest returns the stored run for a user ordered by rank.
func (s *RecommendationStore) Latest(ctx context.Context, userID string) ([]preference.Recommendation, error) {
	return s.Find(ctx, store.WithUserID(userID), store.WithOrderAsc("rank"))
}
