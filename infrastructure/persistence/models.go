// Package persistence provides database storage implementations.
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Kidkender/dating-ai-engine/internal/database"
)

// UserModel is the GORM model for users.
type UserModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	ExternalID  string     `gorm:"column:external_id;uniqueIndex"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

// TableName returns the table name.
func (UserModel) TableName() string { return "users" }

// PoolImageModel is the GORM model for pool images.
type PoolImageModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	URL          string    `gorm:"column:url;uniqueIndex"`
	Phase        int       `gorm:"column:phase"`
	HasEmbedding bool      `gorm:"column:has_embedding"`
	Active       bool      `gorm:"column:active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (PoolImageModel) TableName() string { return "pool_images" }

// UserImageModel is the GORM model for user-uploaded images.
type UserImageModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	UserID       string    `gorm:"column:user_id;index"`
	URL          string    `gorm:"column:url"`
	Primary      bool      `gorm:"column:is_primary"`
	HasEmbedding bool      `gorm:"column:has_embedding"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (UserImageModel) TableName() string { return "user_images" }

// ChoiceModel is the GORM model for ledger choices.
type ChoiceModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id;index:idx_choices_user_phase"`
	Phase     int       `gorm:"column:phase;index:idx_choices_user_phase"`
	ShownA    string    `gorm:"column:shown_a"`
	ShownB    string    `gorm:"column:shown_b"`
	Chosen    string    `gorm:"column:chosen"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (ChoiceModel) TableName() string { return "choices" }

// Float64Slice is a custom type for JSON serialization of []float64.
type Float64Slice []float64

// Scan implements sql.Scanner for reading JSON.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer for writing JSON.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// SQLiteEmbeddingModel stores a cached detection result with the vector
// serialized as JSON.
type SQLiteEmbeddingModel struct {
	ID         int64        `gorm:"column:id;primaryKey;autoIncrement"`
	ImageID    string       `gorm:"column:image_id;uniqueIndex"`
	Vector     Float64Slice `gorm:"column:vector;type:json"`
	Confidence float64      `gorm:"column:confidence"`
	Detected   bool         `gorm:"column:detected"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
}

// TableName returns the table name.
func (SQLiteEmbeddingModel) TableName() string { return "embeddings" }

// PgEmbeddingModel stores a cached detection result in a pgvector column.
// The vector is NULL for sentinel rows.
type PgEmbeddingModel struct {
	ID         int64              `gorm:"column:id;primaryKey;autoIncrement"`
	ImageID    string             `gorm:"column:image_id;uniqueIndex"`
	Vector     *database.PgVector `gorm:"column:vector;type:vector"`
	Confidence float64            `gorm:"column:confidence"`
	Detected   bool               `gorm:"column:detected"`
	CreatedAt  time.Time          `gorm:"column:created_at"`
}

// TableName returns the table name.
func (PgEmbeddingModel) TableName() string { return "embeddings" }

// ProfileModel is the GORM model for learned preference vectors.
type ProfileModel struct {
	UserID      string       `gorm:"column:user_id;primaryKey"`
	Vector      Float64Slice `gorm:"column:vector;type:json"`
	ChoiceCount int          `gorm:"column:choice_count"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (ProfileModel) TableName() string { return "preference_profiles" }

// RecommendationModel is the GORM model for persisted recommendation runs.
type RecommendationModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string    `gorm:"column:user_id;uniqueIndex:idx_recommendations_user_image"`
	ImageID   string    `gorm:"column:image_id;uniqueIndex:idx_recommendations_user_image"`
	Score     float64   `gorm:"column:score"`
	Rank      int       `gorm:"column:rank"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName returns the table name.
func (RecommendationModel) TableName() string { return "recommendations" }
