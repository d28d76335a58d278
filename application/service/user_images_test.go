package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/internal/database"
)

func TestUploadFirstImageBecomesPrimary(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	user := fx.user(t)

	fx.detector.set("https://cdn.test/selfie.jpg", image.Detection{
		Found:      true,
		Vector:     []float64{1, 0, 0, 0},
		Confidence: 0.95,
	})

	img, err := fx.userImages.Upload(ctx, user.ID(), "https://cdn.test/selfie.jpg", false)
	require.NoError(t, err)
	assert.True(t, img.Primary())
	assert.True(t, img.HasEmbedding())
	assert.Equal(t, 1, fx.detector.callCount("https://cdn.test/selfie.jpg"))

	images, err := fx.userImages.List(ctx, user.ID())
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.True(t, images[0].Primary())
	assert.True(t, images[0].HasEmbedding())
}

func TestUploadWithoutUsableFaceIsKept(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	user := fx.user(t)

	fx.detector.set("https://cdn.test/blurry.jpg", image.Detection{
		Found:      true,
		Vector:     []float64{1, 0, 0, 0},
		Confidence: 0.6,
	})

	img, err := fx.userImages.Upload(ctx, user.ID(), "https://cdn.test/blurry.jpg", false)
	require.ErrorIs(t, err, service.ErrNotDetected)
	assert.False(t, img.HasEmbedding())

	// the image stays on record, just without a usable embedding
	images, err := fx.userImages.List(ctx, user.ID())
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.False(t, images[0].HasEmbedding())
}

func TestUploadRejectsEmptyURL(t *testing.T) {
	fx := newFixture(t)
	user := fx.user(t)

	_, err := fx.userImages.Upload(context.Background(), user.ID(), "", false)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestSetPrimarySwitchesImage(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	user := fx.user(t)

	fx.detector.set("https://cdn.test/a.jpg", image.Detection{Found: true, Vector: []float64{1, 0, 0, 0}, Confidence: 0.9})
	fx.detector.set("https://cdn.test/b.jpg", image.Detection{Found: true, Vector: []float64{0, 1, 0, 0}, Confidence: 0.9})

	first, err := fx.userImages.Upload(ctx, user.ID(), "https://cdn.test/a.jpg", false)
	require.NoError(t, err)
	second, err := fx.userImages.Upload(ctx, user.ID(), "https://cdn.test/b.jpg", false)
	require.NoError(t, err)
	assert.True(t, first.Primary())
	assert.False(t, second.Primary())

	require.NoError(t, fx.userImages.SetPrimary(ctx, user.ID(), second.ID()))

	images, err := fx.userImages.List(ctx, user.ID())
	require.NoError(t, err)
	require.Len(t, images, 2)
	for _, img := range images {
		assert.Equal(t, img.ID() == second.ID(), img.Primary())
	}
}

func TestUploadWithPrimaryFlagTakesOver(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	user := fx.user(t)

	fx.detector.set("https://cdn.test/a.jpg", image.Detection{Found: true, Vector: []float64{1, 0, 0, 0}, Confidence: 0.9})
	fx.detector.set("https://cdn.test/b.jpg", image.Detection{Found: true, Vector: []float64{0, 1, 0, 0}, Confidence: 0.9})

	first, err := fx.userImages.Upload(ctx, user.ID(), "https://cdn.test/a.jpg", false)
	require.NoError(t, err)
	second, err := fx.userImages.Upload(ctx, user.ID(), "https://cdn.test/b.jpg", true)
	require.NoError(t, err)
	assert.True(t, second.Primary())

	reloaded, err := fx.userImgStore.Get(ctx, first.ID())
	require.NoError(t, err)
	assert.False(t, reloaded.Primary())
}

func TestSetPrimaryUnknownImage(t *testing.T) {
	fx := newFixture(t)
	user := fx.user(t)

	err := fx.userImages.SetPrimary(context.Background(), user.ID(), "no-such-image")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
