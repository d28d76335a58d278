package persistence

import (
	"context"
	"fmt"

	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/domain/store"
	"github.com/Kidkender/dating-ai-engine/internal/database"
	"gorm.io/gorm/clause"
)

// NewEmbeddingStore returns the embedding store for the database backend:
// pgvector columns on PostgreSQL, JSON columns on SQLite.
func NewEmbeddingStore(db database.Database) image.EmbeddingStore {
	if db.IsPostgres() {
		return NewPgEmbeddingStore(db)
	}
	return NewSQLiteEmbeddingStore(db)
}

// SQLiteEmbeddingStore implements image.EmbeddingStore with JSON vectors.
type SQLiteEmbeddingStore struct {
	database.Repository[image.Embedding, SQLiteEmbeddingModel]
}

// NewSQLiteEmbeddingStore creates a SQLiteEmbeddingStore.
func NewSQLiteEmbeddingStore(db database.Database) *SQLiteEmbeddingStore {
	return &SQLiteEmbeddingStore{
		Repository: database.NewRepository[image.Embedding, SQLiteEmbeddingModel](
			db, sqliteEmbeddingMapper{}, "embedding",
		),
	}
}

// Save stores a detection result, replacing any prior row for the image.
func (s *SQLiteEmbeddingStore) Save(ctx context.Context, emb image.Embedding) error {
	model := s.Mapper().ToModel(emb)
	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "image_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vector", "confidence", "detected", "created_at"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("save embedding: %w", result.Error)
	}
	return nil
}

// Get returns the cached result for an image.
func (s *SQLiteEmbeddingStore) Get(ctx context.Context, imageID string) (image.Embedding, error) {
	return s.FindOne(ctx, store.WithImageID(imageID))
}

// GetBatch returns cached results for the given image IDs, keyed by image ID.
func (s *SQLiteEmbeddingStore) GetBatch(ctx context.Context, imageIDs []string) (map[string]image.Embedding, error) {
	if len(imageIDs) == 0 {
		return map[string]image.Embedding{}, nil
	}
	embs, err := s.Find(ctx, store.WithImageIDIn(imageIDs))
	if err != nil {
		return nil, err
	}
	return keyByImageID(embs), nil
}

// Vectors returns the usable embedding vectors for the given image IDs.
func (s *SQLiteEmbeddingStore) Vectors(ctx context.Context, imageIDs []string) (map[string][]float64, error) {
	batch, err := s.GetBatch(ctx, imageIDs)
	if err != nil {
		return nil, err
	}
	return usableVectors(batch), nil
}

// PgEmbeddingStore implements image.EmbeddingStore with pgvector columns.
type PgEmbeddingStore struct {
	database.Repository[image.Embedding, PgEmbeddingModel]
}

// NewPgEmbeddingStore creates a PgEmbeddingStore.
func NewPgEmbeddingStore(db database.Database) *PgEmbeddingStore {
	return &PgEmbeddingStore{
		Repository: database.NewRepository[image.Embedding, PgEmbeddingModel](
			db, pgEmbeddingMapper{}, "embedding",
		),
	}
}

// Save stores a detection result, replacing any prior row for the image.
func (s *PgEmbeddingStore) Save(ctx context.Context, emb image.Embedding) error {
	model := s.Mapper().ToModel(emb)
	result := s.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "image_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vector", "confidence", "detected", "created_at"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("save embedding: %w", result.Error)
	}
	return nil
}

// Get returns the cached result for an image.
func (s *PgEmbeddingStore) Get(ctx context.Context, imageID string) (image.Embedding, error) {
	return s.FindOne(ctx, store.WithImageID(imageID))
}

// GetBatch returns cached results for the given image IDs, keyed by image ID.
func (s *PgEmbeddingStore) GetBatch(ctx context.Context, imageIDs []string) (map[string]image.Embedding, error) {
	if len(imageIDs) == 0 {
		return map[string]image.Embedding{}, nil
	}
	embs, err := s.Find(ctx, store.WithImageIDIn(imageIDs))
	if err != nil {
		return nil, err
	}
	return keyByImageID(embs), nil
}

// Vectors returns the usable embedding vectors for the given image IDs.
func (s *PgEmbeddingStore) Vectors(ctx context.Context, imageIDs []string) (map[string][]float64, error) {
	batch, err := s.GetBatch(ctx, imageIDs)
	if err != nil {
		return nil, err
	}
	return usableVectors(batch), nil
}

func keyByImageID(embs []image.Embedding) map[string]image.Embedding {
	out := make(map[string]image.Embedding, len(embs))
	for _, e := range embs {
		out[e.ImageID()] = e
	}
	return out
}

func usableVectors(batch map[string]image.Embedding) map[string][]float64 {
	out := make(map[string][]float64, len(batch))
	for id, e := range batch {
		if e.Detected() {
			out[id] = e.Vector()
		}
	}
	return out
}
