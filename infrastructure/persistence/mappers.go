package persistence

import (
	"github.com/Kidkender/dating-ai-engine/domain/identity"
	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/internal/database"
)

// UserMapper maps between identity.User and UserModel.
type UserMapper struct{}

// ToDomain converts a UserModel to a domain User.
func (UserMapper) ToDomain(e UserModel) identity.User {
	return identity.NewUserFull(e.ID, e.ExternalID, identity.Status(e.Status), e.CreatedAt, e.CompletedAt)
}

// ToModel converts a domain User to a UserModel.
func (UserMapper) ToModel(u identity.User) UserModel {
	return UserModel{
		ID:          u.ID(),
		ExternalID:  u.ExternalID(),
		Status:      string(u.Status()),
		CreatedAt:   u.CreatedAt(),
		CompletedAt: u.CompletedAt(),
	}
}

// PoolImageMapper maps between image.PoolImage and PoolImageModel.
type PoolImageMapper struct{}

// ToDomain converts a PoolImageModel to a domain PoolImage.
func (PoolImageMapper) ToDomain(e PoolImageModel) image.PoolImage {
	return image.NewPoolImageFull(e.ID, e.URL, e.Phase, e.HasEmbedding, e.Active, e.CreatedAt)
}

// ToModel converts a domain PoolImage to a PoolImageModel.
func (PoolImageMapper) ToModel(p image.PoolImage) PoolImageModel {
	return PoolImageModel{
		ID:           p.ID(),
		URL:          p.URL(),
		Phase:        p.Phase(),
		HasEmbedding: p.HasEmbedding(),
		Active:       p.Active(),
		CreatedAt:    p.CreatedAt(),
	}
}

// UserImageMapper maps between image.UserImage and UserImageModel.
type UserImageMapper struct{}

// ToDomain converts a UserImageModel to a domain UserImage.
func (UserImageMapper) ToDomain(e UserImageModel) image.UserImage {
	return image.NewUserImageFull(e.ID, e.UserID, e.URL, e.Primary, e.HasEmbedding, e.CreatedAt)
}

// ToModel converts a domain UserImage to a UserImageModel.
func (UserImageMapper) ToModel(u image.UserImage) UserImageModel {
	return UserImageModel{
		ID:           u.ID(),
		UserID:       u.UserID(),
		URL:          u.URL(),
		Primary:      u.Primary(),
		HasEmbedding: u.HasEmbedding(),
		CreatedAt:    u.CreatedAt(),
	}
}

// ChoiceMapper maps between preference.Choice and ChoiceModel.
type ChoiceMapper struct{}

// ToDomain converts a ChoiceModel to a domain Choice.
func (ChoiceMapper) ToDomain(e ChoiceModel) preference.Choice {
	phase, err := preference.PhaseFromNumber(e.Phase)
	if err != nil {
		phase = preference.Phase1
	}
	return preference.NewChoiceFull(e.ID, e.UserID, phase, e.ShownA, e.ShownB, e.Chosen, e.CreatedAt)
}

// ToModel converts a domain Choice to a ChoiceModel.
func (ChoiceMapper) ToModel(c preference.Choice) ChoiceModel {
	return ChoiceModel{
		ID:        c.ID(),
		UserID:    c.UserID(),
		Phase:     c.Phase().Number(),
		ShownA:    c.ShownA(),
		ShownB:    c.ShownB(),
		Chosen:    c.Chosen(),
		CreatedAt: c.CreatedAt(),
	}
}

// sqliteEmbeddingMapper maps between image.Embedding and SQLiteEmbeddingModel.
type sqliteEmbeddingMapper struct{}

func (sqliteEmbeddingMapper) ToDomain(e SQLiteEmbeddingModel) image.Embedding {
	return image.NewEmbeddingFull(e.ImageID, []float64(e.Vector), e.Confidence, e.Detected, e.CreatedAt)
}

func (sqliteEmbeddingMapper) ToModel(emb image.Embedding) SQLiteEmbeddingModel {
	var vec Float64Slice
	if emb.Detected() {
		vec = Float64Slice(emb.Vector())
	}
	return SQLiteEmbeddingModel{
		ImageID:    emb.ImageID(),
		Vector:     vec,
		Confidence: emb.Confidence(),
		Detected:   emb.Detected(),
		CreatedAt:  emb.CreatedAt(),
	}
}

// pgEmbeddingMapper maps between image.Embedding and PgEmbeddingModel.
type pgEmbeddingMapper struct{}

func (pgEmbeddingMapper) ToDomain(e PgEmbeddingModel) image.Embedding {
	var vec []float64
	if e.Vector != nil {
		vec = e.Vector.Floats()
	}
	return image.NewEmbeddingFull(e.ImageID, vec, e.Confidence, e.Detected, e.CreatedAt)
}

func (pgEmbeddingMapper) ToModel(emb image.Embedding) PgEmbeddingModel {
	var vec *database.PgVector
	if emb.Detected() {
		v := database.NewPgVector(emb.Vector())
		vec = &v
	}
	return PgEmbeddingModel{
		ImageID:    emb.ImageID(),
		Vector:     vec,
		Confidence: emb.Confidence(),
		Detected:   emb.Detected(),
		CreatedAt:  emb.CreatedAt(),
	}
}

// ProfileMapper maps between preference.Profile and ProfileModel.
type ProfileMapper struct{}

// ToDomain converts a ProfileModel to a domain Profile.
func (ProfileMapper) ToDomain(e ProfileModel) preference.Profile {
	return preference.NewProfile(e.UserID, []float64(e.Vector), e.ChoiceCount, e.UpdatedAt)
}

// ToModel converts a domain Profile to a ProfileModel.
func (ProfileMapper) ToModel(p preference.Profile) ProfileModel {
	return ProfileModel{
		UserID:      p.UserID(),
		Vector:      Float64Slice(p.Vector()),
		ChoiceCount: p.ChoiceCount(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

// RecommendationMapper maps between preference.Recommendation and RecommendationModel.
type RecommendationMapper struct{}

// ToDomain converts a RecommendationModel to a domain Recommendation.
func (RecommendationMapper) ToDomain(e RecommendationModel) preference.Recommendation {
	return preference.NewRecommendation(e.UserID, e.ImageID, e.Score, e.Rank, e.CreatedAt)
}

// ToModel converts a domain Recommendation to a RecommendationModel.
func (RecommendationMapper) ToModel(r preference.Recommendation) RecommendationModel {
	return RecommendationModel{
		UserID:    r.UserID(),
		ImageID:   r.ImageID(),
		Score:     r.Score(),
		Rank:      r.Rank(),
		CreatedAt: r.CreatedAt(),
	}
}
