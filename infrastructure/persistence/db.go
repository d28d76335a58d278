package persistence

import (
	"context"
	"fmt"

	"github.com/Kidkender/dating-ai-engine/internal/database"
)

// AutoMigrate runs GORM auto migration for all models. On PostgreSQL it
// additionally enables the pgvector extension before migrating the
// vector-backed embeddings table.
func AutoMigrate(ctx context.Context, db database.Database) error {
	models := []any{
		&UserModel{},
		&UserImageModel{},
		&PoolImageModel{},
		&ChoiceModel{},
		&ProfileModel{},
		&RecommendationModel{},
	}

	if db.IsPostgres() {
		if err := db.Session(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
			return fmt.Errorf("enable pgvector extension: %w", err)
		}
		models = append(models, &PgEmbeddingModel{})
	} else {
		models = append(models, &SQLiteEmbeddingModel{})
	}

	if err := db.Session(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
