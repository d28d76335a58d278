package engine

import (
	"log/slog"

	"github.com/Kidkender/dating-ai-engine/domain/image"
	"github.com/Kidkender/dating-ai-engine/internal/config"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	app      config.AppConfig
	dbURL    string
	detector image.Detector
	logger   *slog.Logger
}

func newClientConfig() *clientConfig {
	return &clientConfig{app: config.NewAppConfig()}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite stores all state in a SQLite database at the given path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithPostgres stores all state in PostgreSQL. The pgvector extension is
// used for embedding columns.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.dbURL = dsn
	}
}

// WithConfig replaces the default application configuration.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.app = cfg
	}
}

// WithConfigOptions adjusts the application configuration in place.
func WithConfigOptions(opts ...config.AppConfigOption) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(opts...)
	}
}

// WithDetector sets a custom face detector, replacing the default HTTP
// client built from the detector configuration.
func WithDetector(d image.Detector) Option {
	return func(c *clientConfig) {
		c.detector = d
	}
}

// WithDetectorConfig configures the HTTP face detector client.
func WithDetectorConfig(cfg config.DetectorConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDetectorConfig(cfg))
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
