package persistence

import (
	"context"
	"fmt"

	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/internal/database"
	"gorm.io/gorm"
)

// ChoiceStore implements preference.ChoiceStore on GORM. The ledger is
// append-only: rows are never updated.
type ChoiceStore struct {
	database.Repository[preference.Choice, ChoiceModel]
	db database.Database
}

// NewChoiceStore creates a ChoiceStore.
func NewChoiceStore(db database.Database) *ChoiceStore {
	return &ChoiceStore{
		Repository: database.NewRepository[preference.Choice, ChoiceModel](db, ChoiceMapper{}, "choice"),
		db:         db,
	}
}

// AppendBatch atomically appends a batch of choices.
func (s *ChoiceStore) AppendBatch(ctx context.Context, choices []preference.Choice) error {
	if len(choices) == 0 {
		return nil
	}

	models := make([]ChoiceModel, len(choices))
	for i, c := range choices {
		models[i] = s.Mapper().ToModel(c)
	}

	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Create(&models).Error; err != nil {
			return fmt.Errorf("append choice batch: %w", err)
		}
		return nil
	})
}

// CountByPhase returns per-phase recorded choice counts for a user.
func (s *ChoiceStore) CountByPhase(ctx context.Context, userID string) ([preference.PhaseCount]int, error) {
	var counts [preference.PhaseCount]int

	var rows []struct {
		Phase int   `gorm:"column:phase"`
		N     int64 `gorm:"column:n"`
	}
	err := s.DB(ctx).
		Model(&ChoiceModel{}).
		Select("phase, COUNT(*) as n").
		Where("user_id = ?", userID).
		Group("phase").
		Scan(&rows).Error
	if err != nil {
		return counts, fmt.Errorf("count choices by phase: %w", err)
	}

	for _, row := range rows {
		if row.Phase >= 1 && row.Phase <= preference.PhaseCount {
			counts[row.Phase-1] = int(row.N)
		}
	}
	return counts, nil
}

// ShownImageIDs returns the set of pool image IDs that have appeared in any
// recorded choice of the user.
func (s *ChoiceStore) ShownImageIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var rows []struct {
		ShownA string `gorm:"column:shown_a"`
		ShownB string `gorm:"column:shown_b"`
	}
	err := s.DB(ctx).
		Model(&ChoiceModel{}).
		Select("shown_a, shown_b").
		Where("user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load shown images: %w", err)
	}

	shown := make(map[string]bool, len(rows)*2)
	for _, row := range rows {
		shown[row.ShownA] = true
		shown[row.ShownB] = true
	}
	return shown, nil
}
