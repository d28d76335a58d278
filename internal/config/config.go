// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                = "0.0.0.0"
	DefaultPort                = 8080
	DefaultLogLevel            = "INFO"
	DefaultEmbeddingDim        = 512
	DefaultMinFaceConfidence   = 0.8
	DefaultSimilarityThreshold = 0.5
	DefaultProfilesPerPhase    = 20
	DefaultNegativeWeight      = 1.0
	DefaultRecommendLimit      = 50
	DefaultWorkerCount         = 4
	DefaultDetectorTimeout     = 30 * time.Second
	DefaultDetectorMaxRetries  = 3
	DefaultDetectorDelay       = 1 * time.Second
	DefaultDetectorBackoff     = 2.0
)

// PhaseCount is the number of onboarding phases.
const PhaseCount = 3

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// DetectorConfig configures the face detection endpoint.
type DetectorConfig struct {
	baseURL       string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
	cacheDir      string
}

// NewDetectorConfig creates a DetectorConfig with defaults.
func NewDetectorConfig() DetectorConfig {
	return DetectorConfig{
		timeout:       DefaultDetectorTimeout,
		maxRetries:    DefaultDetectorMaxRetries,
		initialDelay:  DefaultDetectorDelay,
		backoffFactor: DefaultDetectorBackoff,
	}
}

// BaseURL returns the detector base URL.
func (d DetectorConfig) BaseURL() string { return d.baseURL }

// Timeout returns the request timeout.
func (d DetectorConfig) Timeout() time.Duration { return d.timeout }

// MaxRetries returns the maximum retry count.
func (d DetectorConfig) MaxRetries() int { return d.maxRetries }

// InitialDelay returns the initial retry delay.
func (d DetectorConfig) InitialDelay() time.Duration { return d.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (d DetectorConfig) BackoffFactor() float64 { return d.backoffFactor }

// CacheDir returns the directory for caching detector responses, if any.
func (d DetectorConfig) CacheDir() string { return d.cacheDir }

// IsConfigured returns true if the detector has a base URL.
func (d DetectorConfig) IsConfigured() bool {
	return d.baseURL != ""
}

// DetectorOption is a functional option for DetectorConfig.
type DetectorOption func(*DetectorConfig)

// WithDetectorBaseURL sets the detector base URL.
func WithDetectorBaseURL(url string) DetectorOption {
	return func(d *DetectorConfig) { d.baseURL = url }
}

// WithDetectorTimeout sets the request timeout.
func WithDetectorTimeout(t time.Duration) DetectorOption {
	return func(d *DetectorConfig) { d.timeout = t }
}

// WithDetectorMaxRetries sets the maximum retry count.
func WithDetectorMaxRetries(n int) DetectorOption {
	return func(d *DetectorConfig) { d.maxRetries = n }
}

// WithDetectorInitialDelay sets the initial retry delay.
func WithDetectorInitialDelay(t time.Duration) DetectorOption {
	return func(d *DetectorConfig) { d.initialDelay = t }
}

// WithDetectorBackoffFactor sets the retry backoff multiplier.
func WithDetectorBackoffFactor(f float64) DetectorOption {
	return func(d *DetectorConfig) { d.backoffFactor = f }
}

// WithDetectorCacheDir sets the response cache directory.
func WithDetectorCacheDir(dir string) DetectorOption {
	return func(d *DetectorConfig) { d.cacheDir = dir }
}

// NewDetectorConfigWithOptions creates a DetectorConfig with functional options.
func NewDetectorConfigWithOptions(opts ...DetectorOption) DetectorConfig {
	d := NewDetectorConfig()
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host                string
	port                int
	dbURL               string
	logLevel            string
	logFormat           LogFormat
	embeddingDim        int
	minFaceConfidence   float64
	similarityThreshold float64
	profilesPerPhase    int
	negativeWeight      float64
	phaseWeights        [PhaseCount]float64
	recommendLimit      int
	workerCount         int
	detector            DetectorConfig
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:                DefaultHost,
		port:                DefaultPort,
		logLevel:            DefaultLogLevel,
		logFormat:           LogFormatPretty,
		embeddingDim:        DefaultEmbeddingDim,
		minFaceConfidence:   DefaultMinFaceConfidence,
		similarityThreshold: DefaultSimilarityThreshold,
		profilesPerPhase:    DefaultProfilesPerPhase,
		negativeWeight:      DefaultNegativeWeight,
		phaseWeights:        [PhaseCount]float64{1, 2, 3},
		recommendLimit:      DefaultRecommendLimit,
		workerCount:         DefaultWorkerCount,
		detector:            NewDetectorConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// EmbeddingDim returns the face embedding dimensionality.
func (c AppConfig) EmbeddingDim() int { return c.embeddingDim }

// MinFaceConfidence returns the detection confidence floor below which an
// image is treated as having no usable embedding.
func (c AppConfig) MinFaceConfidence() float64 { return c.minFaceConfidence }

// SimilarityThreshold returns the minimum cosine similarity for a pool image
// to appear in recommendations.
func (c AppConfig) SimilarityThreshold() float64 { return c.similarityThreshold }

// ProfilesPerPhase returns the exact number of choices per onboarding phase.
func (c AppConfig) ProfilesPerPhase() int { return c.profilesPerPhase }

// NegativeWeight returns the rejected-image signal multiplier.
func (c AppConfig) NegativeWeight() float64 { return c.negativeWeight }

// PhaseWeight returns the aggregation weight for a 1-based phase number.
// Out-of-range phases weigh zero.
func (c AppConfig) PhaseWeight(phase int) float64 {
	if phase < 1 || phase > PhaseCount {
		return 0
	}
	return c.phaseWeights[phase-1]
}

// PhaseWeights returns a copy of the per-phase aggregation weights.
func (c AppConfig) PhaseWeights() [PhaseCount]float64 { return c.phaseWeights }

// RecommendLimit returns the default recommendation result size.
func (c AppConfig) RecommendLimit() int { return c.recommendLimit }

// WorkerCount returns the embedding worker pool size.
func (c AppConfig) WorkerCount() int { return c.workerCount }

// Detector returns the face detector endpoint config.
func (c AppConfig) Detector() DetectorConfig { return c.detector }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithEmbeddingDim sets the embedding dimensionality.
func WithEmbeddingDim(dim int) AppConfigOption {
	return func(c *AppConfig) {
		if dim > 0 {
			c.embeddingDim = dim
		}
	}
}

// WithMinFaceConfidence sets the detection confidence floor.
func WithMinFaceConfidence(f float64) AppConfigOption {
	return func(c *AppConfig) { c.minFaceConfidence = f }
}

// WithSimilarityThreshold sets the recommendation similarity floor.
func WithSimilarityThreshold(f float64) AppConfigOption {
	return func(c *AppConfig) { c.similarityThreshold = f }
}

// WithProfilesPerPhase sets the per-phase choice quota.
func WithProfilesPerPhase(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.profilesPerPhase = n
		}
	}
}

// WithNegativeWeight sets the rejected-image signal multiplier.
func WithNegativeWeight(w float64) AppConfigOption {
	return func(c *AppConfig) {
		if w >= 0 {
			c.negativeWeight = w
		}
	}
}

// WithPhaseWeights sets the per-phase aggregation weights.
func WithPhaseWeights(weights [PhaseCount]float64) AppConfigOption {
	return func(c *AppConfig) { c.phaseWeights = weights }
}

// WithRecommendLimit sets the default recommendation result size.
func WithRecommendLimit(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.recommendLimit = n
		}
	}
}

// WithWorkerCount sets the embedding worker pool size.
func WithWorkerCount(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.workerCount = n
		}
	}
}

// WithDetectorConfig sets the detector endpoint config.
func WithDetectorConfig(d DetectorConfig) AppConfigOption {
	return func(c *AppConfig) { c.detector = d }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.Int("embedding_dim", c.embeddingDim),
		slog.Float64("min_face_confidence", c.minFaceConfidence),
		slog.Float64("similarity_threshold", c.similarityThreshold),
		slog.Int("profiles_per_phase", c.profilesPerPhase),
		slog.String("detector_base_url", c.detector.baseURL),
		slog.Int("worker_count", c.workerCount),
	}
}

func (c AppConfig) maskedDBURL() string {
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

// ParsePhaseWeights parses a comma-separated list of per-phase weights,
// e.g. "1,2,3". Missing entries keep the corresponding default.
func ParsePhaseWeights(s string, defaults [PhaseCount]float64) ([PhaseCount]float64, error) {
	weights := defaults
	if s == "" {
		return weights, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > PhaseCount {
		return weights, fmt.Errorf("expected at most %d phase weights, got %d", PhaseCount, len(parts))
	}
	for i, p := range parts {
		var w float64
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%g", &w); err != nil {
			return defaults, fmt.Errorf("parse phase weight %q: %w", p, err)
		}
		weights[i] = w
	}
	return weights, nil
}
