// Package engine learns a user's visual dating preference from pairwise
// binary choices and ranks a shared pool of profile images against it.
//
// Basic usage:
//
//	client, err := engine.New(
//	    engine.WithSQLite("engine.db"),
//	    engine.WithDetectorConfig(config.NewDetectorConfigWithOptions(
//	        config.WithDetectorBaseURL("http://localhost:9090"),
//	    )),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	pairs, err := client.Candidates().Batch(ctx, userID, preference.Phase1)
//	progress, err := client.Choices().RecordBatch(ctx, userID, preference.Phase1, batch)
//	ranked, err := client.Recommend().Rank(ctx, userID, 50)
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/domain/identity"
	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/domain/preference"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api"
	"github.com/Kidkender/dating-ai-engine/infrastructure/persistence"
	"github.com/Kidkender/dating-ai-engine/infrastructure/provider"
	"github.com/Kidkender/dating-ai-engine/internal/config"
	"github.com/Kidkender/dating-ai-engine/internal/database"
	"github.com/Kidkender/dating-ai-engine/internal/log"
)

// ErrNoStorage is returned by New when no database is configured.
var ErrNoStorage = errors.New("no database configured: use WithSQLite, WithPostgres, or a config with DB_URL")

// Client is the main entry point for the preference engine.
type Client struct {
	db  database.Database
	cfg config.AppConfig

	userStore    identity.UserStore
	userImgStore image.UserImageStore
	poolStore    image.PoolStore
	embStore     image.EmbeddingStore
	choiceStore  preference.ChoiceStore
	profileStore preference.ProfileStore
	recStore     preference.RecommendationStore

	users      *service.Users
	userImages *service.UserImages
	embeddings *service.Embeddings
	preference *service.Preference
	choices    *service.Choices
	candidates *service.Candidates
	recommend  *service.Recommend
	pool       *service.Pool

	logger *slog.Logger
	closed atomic.Bool
}

// New creates a Client with the given options and migrates the schema.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dbURL := cfg.dbURL
	if dbURL == "" {
		dbURL = cfg.app.DBURL()
	}
	if dbURL == "" {
		return nil, ErrNoStorage
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.NewLogger(cfg.app).Slog()
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := persistence.AutoMigrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	detector := cfg.detector
	if detector == nil {
		detector = provider.NewFaceDetector(cfg.app.Detector())
	}

	c := &Client{
		db:           db,
		cfg:          cfg.app,
		userStore:    persistence.NewUserStore(db),
		userImgStore: persistence.NewUserImageStore(db),
		poolStore:    persistence.NewPoolStore(db),
		embStore:     persistence.NewEmbeddingStore(db),
		choiceStore:  persistence.NewChoiceStore(db),
		profileStore: persistence.NewProfileStore(db),
		recStore:     persistence.NewRecommendationStore(db),
		logger:       logger,
	}

	c.users = service.NewUsers(c.userStore, logger)
	c.embeddings = service.NewEmbeddings(c.embStore, detector, c.cfg, logger)
	c.userImages = service.NewUserImages(c.userImgStore, c.embeddings, logger)
	c.preference = service.NewPreference(c.choiceStore, c.profileStore, c.embeddings, c.cfg, logger)
	c.choices = service.NewChoices(c.users, c.choiceStore, c.embeddings, c.preference, c.cfg, logger)
	c.candidates = service.NewCandidates(c.choiceStore, c.poolStore, c.embeddings, c.preference, c.cfg, logger)
	c.recommend = service.NewRecommend(c.preference, c.choiceStore, c.poolStore, c.embeddings, c.recStore, c.cfg, logger)
	c.pool = service.NewPool(c.poolStore, c.embeddings, c.cfg, logger)

	return c, nil
}

// Users returns the user lifecycle service.
func (c *Client) Users() *service.Users { return c.users }

// UserImages returns the user image upload service.
func (c *Client) UserImages() *service.UserImages { return c.userImages }

// Choices returns the choice ledger service.
func (c *Client) Choices() *service.Choices { return c.choices }

// Candidates returns the candidate batch service.
func (c *Client) Candidates() *service.Candidates { return c.candidates }

// Recommend returns the ranking service.
func (c *Client) Recommend() *service.Recommend { return c.recommend }

// Preference returns the preference aggregation service.
func (c *Client) Preference() *service.Preference { return c.preference }

// Embeddings returns the embedding cache service.
func (c *Client) Embeddings() *service.Embeddings { return c.embeddings }

// Pool returns the pool ingestion service.
func (c *Client) Pool() *service.Pool { return c.pool }

// Config returns the effective application configuration.
func (c *Client) Config() config.AppConfig { return c.cfg }

// Handler returns the full HTTP API as an http.Handler.
func (c *Client) Handler() http.Handler {
	return c.Server("").Router()
}

// Server builds an API server for the given listen address.
func (c *Client) Server(addr string) *api.Server {
	return api.NewServer(addr, api.Services{
		Users:      c.users,
		UserImages: c.userImages,
		Choices:    c.choices,
		Candidates: c.candidates,
		Recommend:  c.recommend,
		Pool:       c.pool,
	}, c.logger)
}

// Close releases the database connection. Safe to call more than once.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.db.Close()
}
