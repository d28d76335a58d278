package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/domain/identity"
	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/infrastructure/persistence"
	"github.com/Kidkender/dating-ai-engine/internal/config"
	"github.com/Kidkender/dating-ai-engine/internal/testdb"
)

// fakeDetector serves canned detections keyed by image URL and counts calls.
type fakeDetector struct {
	mu         sync.Mutex
	detections map[string]image.Detection
	errs       map[string]error
	calls      map[string]int
}

func newFakeDetector() *fakeDetector {
	return &fakeDetector{
		detections: make(map[string]image.Detection),
		errs:       make(map[string]error),
		calls:      make(map[string]int),
	}
}

func (d *fakeDetector) Detect(_ context.Context, url string) (image.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls[url]++
	if err, ok := d.errs[url]; ok {
		return image.Detection{}, err
	}
	return d.detections[url], nil
}

func (d *fakeDetector) callCount(url string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[url]
}

func (d *fakeDetector) set(url string, det image.Detection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detections[url] = det
}

func (d *fakeDetector) fail(url string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.errs, url)
		return
	}
	d.errs[url] = err
}

// fixture wires the full service graph over an in-memory database with a
// small embedding dimension and a quota of two choices per phase.
type fixture struct {
	cfg          config.AppConfig
	detector     *fakeDetector
	userStore    *persistence.UserStore
	userImgStore *persistence.UserImageStore
	choiceStore  *persistence.ChoiceStore
	poolStore    *persistence.PoolStore
	profileStore *persistence.ProfileStore
	recStore     *persistence.RecommendationStore
	embStore     image.EmbeddingStore

	users      *service.Users
	userImages *service.UserImages
	embeddings *service.Embeddings
	preference *service.Preference
	choices    *service.Choices
	candidates *service.Candidates
	recommend  *service.Recommend
	pool       *service.Pool
}

func newFixture(t *testing.T, opts ...config.AppConfigOption) *fixture {
	t.Helper()
	db := testdb.New(t)
	base := []config.AppConfigOption{
		config.WithEmbeddingDim(4),
		config.WithProfilesPerPhase(2),
		config.WithSimilarityThreshold(0.2),
	}
	cfg := config.NewAppConfigWithOptions(append(base, opts...)...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	detector := newFakeDetector()

	fx := &fixture{
		cfg:          cfg,
		detector:     detector,
		userStore:    persistence.NewUserStore(db),
		userImgStore: persistence.NewUserImageStore(db),
		choiceStore:  persistence.NewChoiceStore(db),
		poolStore:    persistence.NewPoolStore(db),
		profileStore: persistence.NewProfileStore(db),
		recStore:     persistence.NewRecommendationStore(db),
		embStore:     persistence.NewEmbeddingStore(db),
	}
	fx.users = service.NewUsers(fx.userStore, logger)
	fx.embeddings = service.NewEmbeddings(fx.embStore, detector, cfg, logger)
	fx.userImages = service.NewUserImages(fx.userImgStore, fx.embeddings, logger)
	fx.preference = service.NewPreference(fx.choiceStore, fx.profileStore, fx.embeddings, cfg, logger)
	fx.choices = service.NewChoices(fx.users, fx.choiceStore, fx.embeddings, fx.preference, cfg, logger)
	fx.candidates = service.NewCandidates(fx.choiceStore, fx.poolStore, fx.embeddings, fx.preference, cfg, logger)
	fx.recommend = service.NewRecommend(fx.preference, fx.choiceStore, fx.poolStore, fx.embeddings, fx.recStore, cfg, logger)
	fx.pool = service.NewPool(fx.poolStore, fx.embeddings, cfg, logger)
	return fx
}

func (fx *fixture) user(t *testing.T) identity.User {
	t.Helper()
	user, err := fx.users.GetOrCreate(context.Background(), "ext-1")
	require.NoError(t, err)
	return user
}

// seedEmbedded adds an active pool image carrying a stored embedding.
func (fx *fixture) seedEmbedded(t *testing.T, url string, phase int, vector []float64) image.PoolImage {
	t.Helper()
	ctx := context.Background()
	img, err := image.NewPoolImage(url, phase)
	require.NoError(t, err)
	img = img.WithEmbedding()
	require.NoError(t, fx.poolStore.Save(ctx, img))
	require.NoError(t, fx.embStore.Save(ctx, image.NewEmbedding(img.ID(), vector, 0.95)))
	return img
}
