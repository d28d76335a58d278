package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
)

func saveProfile(t *testing.T, fx *fixture, userID string, vector []float64) {
	t.Helper()
	profile := preference.NewProfile(userID, vector, 2, time.Now().UTC())
	require.NoError(t, fx.profileStore.Save(context.Background(), profile))
}

func TestRankOrdersByScoreAndPersists(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	saveProfile(t, fx, user.ID(), []float64{1, 0, 0, 0})

	close1 := fx.seedEmbedded(t, "https://pool/close1.jpg", 0, []float64{1, 0, 0, 0})
	close2 := fx.seedEmbedded(t, "https://pool/close2.jpg", 0, []float64{0.9, 0.1, 0, 0})
	far := fx.seedEmbedded(t, "https://pool/far.jpg", 0, []float64{0, 1, 0, 0})

	ranked, err := fx.recommend.Rank(ctx, user.ID(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2, "sub-threshold image must be excluded")
	assert.Equal(t, close1.ID(), ranked[0].ImageID())
	assert.Equal(t, close2.ID(), ranked[1].ImageID())
	assert.Equal(t, 1, ranked[0].Rank())
	assert.Equal(t, 2, ranked[1].Rank())
	assert.Greater(t, ranked[0].Score(), ranked[1].Score())
	for _, rec := range ranked {
		assert.NotEqual(t, far.ID(), rec.ImageID())
	}

	latest, err := fx.recommend.Latest(ctx, user.ID())
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, ranked[0].ImageID(), latest[0].ImageID())
	assert.Equal(t, ranked[1].ImageID(), latest[1].ImageID())
}

func TestRankExcludesShownImages(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	saveProfile(t, fx, user.ID(), []float64{1, 0, 0, 0})

	shownA := fx.seedEmbedded(t, "https://pool/shown-a.jpg", 0, []float64{1, 0, 0, 0})
	shownB := fx.seedEmbedded(t, "https://pool/shown-b.jpg", 0, []float64{0.8, 0.2, 0, 0})
	fresh := fx.seedEmbedded(t, "https://pool/fresh.jpg", 0, []float64{0.7, 0.3, 0, 0})

	choice, err := preference.NewChoice(user.ID(), preference.Phase1, shownA.ID(), shownB.ID(), shownA.ID())
	require.NoError(t, err)
	require.NoError(t, fx.choiceStore.AppendBatch(ctx, []preference.Choice{choice}))

	ranked, err := fx.recommend.Rank(ctx, user.ID(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1, "both members of a shown pair must be excluded")
	assert.Equal(t, fresh.ID(), ranked[0].ImageID())
}

func TestRankTieBreaksByImageID(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	saveProfile(t, fx, user.ID(), []float64{1, 0, 0, 0})

	// identical vectors, so ordering falls back to the image ID
	twinA := fx.seedEmbedded(t, "https://pool/twin-a.jpg", 0, []float64{1, 0, 0, 0})
	twinB := fx.seedEmbedded(t, "https://pool/twin-b.jpg", 0, []float64{1, 0, 0, 0})

	first, err := fx.recommend.Rank(ctx, user.ID(), 10)
	require.NoError(t, err)
	second, err := fx.recommend.Rank(ctx, user.ID(), 10)
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ImageID(), second[0].ImageID())
	assert.Equal(t, first[1].ImageID(), second[1].ImageID())
	assert.Less(t, first[0].ImageID(), first[1].ImageID())
	assert.ElementsMatch(t,
		[]string{twinA.ID(), twinB.ID()},
		[]string{first[0].ImageID(), first[1].ImageID()},
	)
}

func TestRankHonorsLimit(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	saveProfile(t, fx, user.ID(), []float64{1, 0, 0, 0})

	fx.seedEmbedded(t, "https://pool/one.jpg", 0, []float64{1, 0, 0, 0})
	fx.seedEmbedded(t, "https://pool/two.jpg", 0, []float64{0.9, 0.1, 0, 0})
	fx.seedEmbedded(t, "https://pool/three.jpg", 0, []float64{0.8, 0.2, 0, 0})

	ranked, err := fx.recommend.Rank(ctx, user.ID(), 2)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestRankWithoutProfile(t *testing.T) {
	fx := newFixture(t)
	user := fx.user(t)

	_, err := fx.recommend.Rank(context.Background(), user.ID(), 10)
	require.ErrorIs(t, err, service.ErrInsufficientData)
}

func TestRankEmptyPool(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	saveProfile(t, fx, user.ID(), []float64{1, 0, 0, 0})

	ranked, err := fx.recommend.Rank(ctx, user.ID(), 10)
	require.NoError(t, err)
	assert.Empty(t, ranked)

	latest, err := fx.recommend.Latest(ctx, user.ID())
	require.NoError(t, err)
	assert.Empty(t, latest)
}
