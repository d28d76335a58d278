package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
)

func TestCandidateBatchPhase1(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	imgs := seedQuartet(t, fx)

	batch, err := fx.candidates.Batch(ctx, user.ID(), preference.Phase1)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	seen := make(map[string]bool)
	for _, pair := range batch {
		seen[pair.ImageA.ID()] = true
		seen[pair.ImageB.ID()] = true
	}
	assert.Len(t, seen, 4, "a batch must not repeat images")
	for _, img := range imgs {
		assert.True(t, seen[img.ID()])
	}
}

func TestCandidateBatchWrongPhase(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	seedQuartet(t, fx)

	_, err := fx.candidates.Batch(ctx, user.ID(), preference.Phase2)
	require.ErrorIs(t, err, service.ErrPhaseState)
}

func TestCandidateBatchPoolTooSmall(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)

	fx.seedEmbedded(t, "https://pool/a.jpg", 0, []float64{1, 0, 0, 0})
	fx.seedEmbedded(t, "https://pool/b.jpg", 0, []float64{0, 1, 0, 0})
	// tagged for phase 2, so not eligible in phase 1
	fx.seedEmbedded(t, "https://pool/late.jpg", 2, []float64{0, 0, 1, 0})

	_, err := fx.candidates.Batch(ctx, user.ID(), preference.Phase1)
	require.ErrorIs(t, err, service.ErrInsufficientData)
}

func TestCandidateBatchPhase2RanksByInterimVector(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	imgs := seedQuartet(t, fx)

	// complete phase 1 picking the first and third axes
	batch := []service.ChoiceSubmission{
		{ShownA: imgs[0].ID(), ShownB: imgs[1].ID(), Chosen: imgs[0].ID()},
		{ShownA: imgs[2].ID(), ShownB: imgs[3].ID(), Chosen: imgs[2].ID()},
	}
	_, err := fx.choices.RecordBatch(ctx, user.ID(), preference.Phase1, batch)
	require.NoError(t, err)

	// interim vector ~ (1,-1,1,-1)/2; closest first
	best := fx.seedEmbedded(t, "https://pool/best.jpg", 0, []float64{1, 0, 1, 0})
	good := fx.seedEmbedded(t, "https://pool/good.jpg", 0, []float64{1, 0, 0, 0})
	bad := fx.seedEmbedded(t, "https://pool/bad.jpg", 0, []float64{0, 1, 0, 0})
	worst := fx.seedEmbedded(t, "https://pool/worst.jpg", 0, []float64{0, 1, 0, 1})

	pairs, err := fx.candidates.Batch(ctx, user.ID(), preference.Phase2)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, best.ID(), pairs[0].ImageA.ID())
	assert.Equal(t, good.ID(), pairs[0].ImageB.ID())
	assert.Equal(t, bad.ID(), pairs[1].ImageA.ID())
	assert.Equal(t, worst.ID(), pairs[1].ImageB.ID())
}

func TestCandidateBatchExcludesShownImages(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	imgs := seedQuartet(t, fx)

	batch := []service.ChoiceSubmission{
		{ShownA: imgs[0].ID(), ShownB: imgs[1].ID(), Chosen: imgs[0].ID()},
		{ShownA: imgs[2].ID(), ShownB: imgs[3].ID(), Chosen: imgs[2].ID()},
	}
	_, err := fx.choices.RecordBatch(ctx, user.ID(), preference.Phase1, batch)
	require.NoError(t, err)

	// phase 2 has only the four already-shown images available
	_, err = fx.candidates.Batch(ctx, user.ID(), preference.Phase2)
	require.ErrorIs(t, err, service.ErrInsufficientData)
}

func TestCandidateBatchAfterCompletion(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	user := fx.user(t)
	imgs := seedQuartet(t, fx)

	// fill every phase quota directly in the ledger
	for _, phase := range []preference.Phase{preference.Phase1, preference.Phase2, preference.Phase3} {
		for i := 0; i < 2; i++ {
			choice, err := preference.NewChoice(user.ID(), phase, imgs[0].ID(), imgs[1].ID(), imgs[0].ID())
			require.NoError(t, err)
			require.NoError(t, fx.choiceStore.AppendBatch(ctx, []preference.Choice{choice}))
		}
	}

	_, err := fx.candidates.Batch(ctx, user.ID(), preference.Phase1)
	require.ErrorIs(t, err, service.ErrPhaseState)
}
