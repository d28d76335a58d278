package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/Kidkender/dating-ai-engine/domain/identity"
	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/infrastructure/persistence"
	"github.com/Kidkender/dating-ai-engine/internal/database"
	"github.com/Kidkender/dating-ai-engine/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStoreSaveAndGet(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	users := persistence.NewUserStore(db)

	u, err := identity.NewUser("ext-1")
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, u))

	got, err := users.Get(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, u.ID(), got.ID())
	assert.Equal(t, identity.StatusOnboarding, got.Status())

	byExt, err := users.GetByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID(), byExt.ID())

	_, err = users.Get(ctx, "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUserStoreUpsertKeepsIdentity(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	users := persistence.NewUserStore(db)

	u, err := identity.NewUser("ext-2")
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, u))

	done := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, users.Save(ctx, u.Complete(done)))

	got, err := users.Get(ctx, u.ID())
	require.NoError(t, err)
	assert.Equal(t, identity.StatusCompleted, got.Status())
	require.NotNil(t, got.CompletedAt())
	assert.Equal(t, "ext-2", got.ExternalID())
}

func TestChoiceStoreAppendAndCounts(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	choices := persistence.NewChoiceStore(db)

	batch := make([]preference.Choice, 0, 3)
	pairs := [][3]string{
		{"a", "b", "a"},
		{"c", "d", "d"},
		{"e", "f", "e"},
	}
	for _, p := range pairs {
		c, err := preference.NewChoice("user-1", preference.Phase1, p[0], p[1], p[2])
		require.NoError(t, err)
		batch = append(batch, c)
	}
	require.NoError(t, choices.AppendBatch(ctx, batch))

	c2, err := preference.NewChoice("user-1", preference.Phase2, "g", "h", "g")
	require.NoError(t, err)
	require.NoError(t, choices.AppendBatch(ctx, []preference.Choice{c2}))

	counts, err := choices.CountByPhase(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, [preference.PhaseCount]int{3, 1, 0}, counts)

	// other users are untouched
	counts, err = choices.CountByPhase(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, [preference.PhaseCount]int{0, 0, 0}, counts)
}

func TestChoiceStoreShownImageIDs(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	choices := persistence.NewChoiceStore(db)

	c, err := preference.NewChoice("user-1", preference.Phase1, "a", "b", "a")
	require.NoError(t, err)
	require.NoError(t, choices.AppendBatch(ctx, []preference.Choice{c}))

	shown, err := choices.ShownImageIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, shown["a"])
	assert.True(t, shown["b"])
	assert.False(t, shown["c"])
}

func TestPoolStoreSaveAndLookup(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	pool := persistence.NewPoolStore(db)

	img, err := image.NewPoolImage("https://cdn.example.com/1.jpg", 2)
	require.NoError(t, err)
	require.NoError(t, pool.Save(ctx, img))

	got, err := pool.GetByURL(ctx, "https://cdn.example.com/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, img.ID(), got.ID())
	assert.Equal(t, 2, got.Phase())

	// upsert flips the embedding flag without duplicating the row
	require.NoError(t, pool.Save(ctx, got.WithEmbedding()))
	count, err := pool.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	refreshed, err := pool.Get(ctx, img.ID())
	require.NoError(t, err)
	assert.True(t, refreshed.HasEmbedding())
}

func TestUserImageStoreSetPrimary(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	images := persistence.NewUserImageStore(db)

	first, err := image.NewUserImage("user-1", "https://cdn.example.com/me-1.jpg")
	require.NoError(t, err)
	second, err := image.NewUserImage("user-1", "https://cdn.example.com/me-2.jpg")
	require.NoError(t, err)
	require.NoError(t, images.Save(ctx, first.AsPrimary()))
	require.NoError(t, images.Save(ctx, second))

	require.NoError(t, images.SetPrimary(ctx, "user-1", second.ID()))

	all, err := images.FindByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, img := range all {
		assert.Equal(t, img.ID() == second.ID(), img.Primary())
	}

	// images of other users are out of reach
	err = images.SetPrimary(ctx, "user-2", first.ID())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestEmbeddingStoreSentinelRoundTrip(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	embeddings := persistence.NewEmbeddingStore(db)

	usable := image.NewEmbedding("img-1", []float64{0.1, 0.2, 0.3}, 0.95)
	sentinel := image.NewSentinelEmbedding("img-2", 0.4)
	require.NoError(t, embeddings.Save(ctx, usable))
	require.NoError(t, embeddings.Save(ctx, sentinel))

	got, err := embeddings.Get(ctx, "img-1")
	require.NoError(t, err)
	assert.True(t, got.Detected())
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, got.Vector())

	got, err = embeddings.Get(ctx, "img-2")
	require.NoError(t, err)
	assert.False(t, got.Detected())
	assert.Nil(t, got.Vector())

	_, err = embeddings.Get(ctx, "img-3")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestEmbeddingStoreVectorsSkipSentinels(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	embeddings := persistence.NewEmbeddingStore(db)

	require.NoError(t, embeddings.Save(ctx, image.NewEmbedding("img-1", []float64{1, 0}, 0.9)))
	require.NoError(t, embeddings.Save(ctx, image.NewSentinelEmbedding("img-2", 0.2)))

	vectors, err := embeddings.Vectors(ctx, []string{"img-1", "img-2", "img-3"})
	require.NoError(t, err)
	assert.Len(t, vectors, 1)
	assert.Equal(t, []float64{1, 0}, vectors["img-1"])
}

func TestEmbeddingStoreSaveReplaces(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	embeddings := persistence.NewEmbeddingStore(db)

	require.NoError(t, embeddings.Save(ctx, image.NewSentinelEmbedding("img-1", 0.1)))
	require.NoError(t, embeddings.Save(ctx, image.NewEmbedding("img-1", []float64{0.5}, 0.9)))

	got, err := embeddings.Get(ctx, "img-1")
	require.NoError(t, err)
	assert.True(t, got.Detected())
	assert.Equal(t, []float64{0.5}, got.Vector())
}

func TestProfileStoreUpsert(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	profiles := persistence.NewProfileStore(db)

	first := preference.NewProfile("user-1", []float64{1, 0}, 20, time.Now().UTC())
	require.NoError(t, profiles.Save(ctx, first))

	second := preference.NewProfile("user-1", []float64{0, 1}, 40, time.Now().UTC())
	require.NoError(t, profiles.Save(ctx, second))

	got, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, got.Vector())
	assert.Equal(t, 40, got.ChoiceCount())

	_, err = profiles.Get(ctx, "user-2")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRecommendationStoreReplace(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	recs := persistence.NewRecommendationStore(db)

	now := time.Now().UTC()
	first := []preference.Recommendation{
		preference.NewRecommendation("user-1", "img-a", 0.9, 1, now),
		preference.NewRecommendation("user-1", "img-b", 0.7, 2, now),
	}
	require.NoError(t, recs.Replace(ctx, "user-1", first))

	second := []preference.Recommendation{
		preference.NewRecommendation("user-1", "img-c", 0.8, 1, now),
	}
	require.NoError(t, recs.Replace(ctx, "user-1", second))

	got, err := recs.Latest(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "img-c", got[0].ImageID())
	assert.Equal(t, 1, got[0].Rank())
}

func TestRecommendationStoreReplaceWithEmpty(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	recs := persistence.NewRecommendationStore(db)

	now := time.Now().UTC()
	require.NoError(t, recs.Replace(ctx, "user-1", []preference.Recommendation{
		preference.NewRecommendation("user-1", "img-a", 0.9, 1, now),
	}))
	require.NoError(t, recs.Replace(ctx, "user-1", nil))

	got, err := recs.Latest(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
