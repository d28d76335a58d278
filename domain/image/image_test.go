package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolImage(t *testing.T) {
	img, err := NewPoolImage("https://cdn.example.com/1.jpg", 0)
	require.NoError(t, err)

	assert.NotEmpty(t, img.ID())
	assert.True(t, img.Active())
	assert.False(t, img.HasEmbedding())

	_, err = NewPoolImage("", 0)
	assert.Error(t, err)
	_, err = NewPoolImage("x", 4)
	assert.Error(t, err)
}

func TestPoolImageEligibleFor(t *testing.T) {
	anyPhase, err := NewPoolImage("a.jpg", 0)
	require.NoError(t, err)
	phase2Only, err := NewPoolImage("b.jpg", 2)
	require.NoError(t, err)

	assert.True(t, anyPhase.EligibleFor(1))
	assert.True(t, anyPhase.EligibleFor(3))
	assert.False(t, phase2Only.EligibleFor(1))
	assert.True(t, phase2Only.EligibleFor(2))

	assert.False(t, anyPhase.Deactivate().EligibleFor(1))
}

func TestPoolImageWithEmbedding(t *testing.T) {
	img, err := NewPoolImage("a.jpg", 0)
	require.NoError(t, err)

	assert.True(t, img.WithEmbedding().HasEmbedding())
	// value semantics: the original is untouched
	assert.False(t, img.HasEmbedding())
}

func TestEmbeddingSentinel(t *testing.T) {
	emb := NewEmbedding("img-1", []float64{0.1, 0.2}, 0.95)
	assert.True(t, emb.Detected())
	assert.Equal(t, []float64{0.1, 0.2}, emb.Vector())

	sentinel := NewSentinelEmbedding("img-2", 0.3)
	assert.False(t, sentinel.Detected())
	assert.Nil(t, sentinel.Vector())
	assert.InDelta(t, 0.3, sentinel.Confidence(), 1e-9)
}

func TestEmbeddingFullPreservesNilVector(t *testing.T) {
	stored := NewSentinelEmbedding("img-1", 0.3)
	rebuilt := NewEmbeddingFull(stored.ImageID(), stored.Vector(), stored.Confidence(), stored.Detected(), stored.CreatedAt())

	assert.False(t, rebuilt.Detected())
	assert.Nil(t, rebuilt.Vector())
}

func TestUserImage(t *testing.T) {
	img, err := NewUserImage("user-1", "https://cdn.example.com/me.jpg")
	require.NoError(t, err)

	assert.NotEmpty(t, img.ID())
	assert.False(t, img.Primary())
	assert.False(t, img.HasEmbedding())
	assert.True(t, img.AsPrimary().Primary())
	assert.True(t, img.WithEmbedding().HasEmbedding())
	// value semantics: the original is untouched
	assert.False(t, img.Primary())

	_, err = NewUserImage("", "x.jpg")
	assert.Error(t, err)
	_, err = NewUserImage("user-1", "")
	assert.Error(t, err)
}

func TestEmbeddingCopiesVector(t *testing.T) {
	src := []float64{1, 2}
	emb := NewEmbedding("img", src, 0.9)
	src[0] = 99

	assert.Equal(t, []float64{1, 2}, emb.Vector())
}
