package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DBURL is the database connection URL.
	// Env: DB_URL (default: sqlite:///dating.db)
	DBURL string `envconfig:"DB_URL" default:"sqlite:///dating.db"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// EmbeddingDim is the face embedding dimensionality.
	// Env: EMBEDDING_DIM (default: 512)
	EmbeddingDim int `envconfig:"EMBEDDING_DIM" default:"512"`

	// MinFaceConfidence is the detection confidence floor.
	// Env: MIN_FACE_CONFIDENCE (default: 0.8)
	MinFaceConfidence float64 `envconfig:"MIN_FACE_CONFIDENCE" default:"0.8"`

	// SimilarityThreshold is the minimum cosine similarity for recommendations.
	// Env: SIMILARITY_THRESHOLD (default: 0.5)
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.5"`

	// ProfilesPerPhase is the exact choice quota per onboarding phase.
	// Env: PROFILES_PER_PHASE (default: 20)
	ProfilesPerPhase int `envconfig:"PROFILES_PER_PHASE" default:"20"`

	// NegativeWeight is the rejected-image signal multiplier.
	// Env: NEGATIVE_WEIGHT (default: 1.0)
	NegativeWeight float64 `envconfig:"NEGATIVE_WEIGHT" default:"1.0"`

	// PhaseWeights is a comma-separated list of per-phase aggregation weights.
	// Env: PHASE_WEIGHTS (default: 1,2,3)
	PhaseWeights string `envconfig:"PHASE_WEIGHTS"`

	// RecommendLimit is the default recommendation result size.
	// Env: RECOMMEND_LIMIT (default: 50)
	RecommendLimit int `envconfig:"RECOMMEND_LIMIT" default:"50"`

	// WorkerCount is the embedding worker pool size.
	// Env: WORKER_COUNT (default: 4)
	WorkerCount int `envconfig:"WORKER_COUNT" default:"4"`

	// Detector configures the face detection endpoint.
	Detector DetectorEnv `envconfig:"DETECTOR"`
}

// DetectorEnv holds environment configuration for the face detector.
type DetectorEnv struct {
	// BaseURL is the detector base URL.
	// Env: DETECTOR_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Timeout is the request timeout in seconds.
	// Env: DETECTOR_TIMEOUT (default: 30)
	Timeout float64 `envconfig:"TIMEOUT" default:"30"`

	// MaxRetries is the maximum retry count for transient failures.
	// Env: DETECTOR_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: DETECTOR_INITIAL_DELAY (default: 1.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"1.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: DETECTOR_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`

	// CacheDir is the directory for caching detector responses to disk.
	// Env: DETECTOR_CACHE_DIR
	CacheDir string `envconfig:"CACHE_DIR"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "DATING" would require DATING_DB_URL instead of DB_URL.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = cfg.Apply(WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = cfg.Apply(WithPort(e.Port))
	}
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(ParseLogFormat(e.LogFormat)))
	}

	cfg = cfg.Apply(
		WithEmbeddingDim(e.EmbeddingDim),
		WithMinFaceConfidence(e.MinFaceConfidence),
		WithSimilarityThreshold(e.SimilarityThreshold),
		WithProfilesPerPhase(e.ProfilesPerPhase),
		WithNegativeWeight(e.NegativeWeight),
		WithRecommendLimit(e.RecommendLimit),
		WithWorkerCount(e.WorkerCount),
	)

	weights, err := ParsePhaseWeights(e.PhaseWeights, cfg.PhaseWeights())
	if err != nil {
		return AppConfig{}, err
	}
	cfg = cfg.Apply(WithPhaseWeights(weights))

	if e.Detector.IsConfigured() {
		cfg = cfg.Apply(WithDetectorConfig(e.Detector.ToDetectorConfig()))
	}

	return cfg, nil
}

// IsConfigured returns true if the detector has a base URL.
func (d DetectorEnv) IsConfigured() bool {
	return d.BaseURL != ""
}

// ToDetectorConfig converts DetectorEnv to DetectorConfig.
func (d DetectorEnv) ToDetectorConfig() DetectorConfig {
	opts := []DetectorOption{
		WithDetectorBaseURL(d.BaseURL),
		WithDetectorTimeout(time.Duration(d.Timeout * float64(time.Second))),
		WithDetectorMaxRetries(d.MaxRetries),
		WithDetectorInitialDelay(time.Duration(d.InitialDelay * float64(time.Second))),
		WithDetectorBackoffFactor(d.BackoffFactor),
	}
	if d.CacheDir != "" {
		opts = append(opts, WithDetectorCacheDir(d.CacheDir))
	}
	return NewDetectorConfigWithOptions(opts...)
}

// ParseLogFormat parses a log format string.
func ParseLogFormat(s string) LogFormat {
	if s == string(LogFormatJSON) {
		return LogFormatJSON
	}
	return LogFormatPretty
}
