package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"sentimental/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Pipeline      PipelineConfig
	Sources       SourcesConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"sentimental"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type HTTPConfig struct {
	Port            int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"30s"`
}

// PipelineConfig holds defaults applied to requests that leave a field unset
type PipelineConfig struct {
	FetchDeadline     time.Duration `envconfig:"PIPELINE_FETCH_DEADLINE" default:"20s"`
	PerSourceLimit    int           `envconfig:"PIPELINE_PER_SOURCE_LIMIT" default:"50"`
	MaxItems          int           `envconfig:"PIPELINE_MAX_ITEMS" default:"100"`
	MinItems          int           `envconfig:"PIPELINE_MIN_ITEMS" default:"0"`
	MaxBuckets        int           `envconfig:"PIPELINE_MAX_BUCKETS" default:"4"`
	MinTextLength     int           `envconfig:"PIPELINE_MIN_TEXT_LENGTH" default:"20"`
	ClassifierWorkers int           `envconfig:"PIPELINE_CLASSIFIER_WORKERS" default:"8"`
	SampleSize        int           `envconfig:"PIPELINE_SAMPLE_SIZE" default:"20"`
	UseRealData       bool          `envconfig:"PIPELINE_USE_REAL_DATA" default:"true"`
}

// SourcesConfig configures every source adapter.
// Feeds and subreddits come from the catalog (see catalog.go).
type SourcesConfig struct {
	CatalogPath string `envconfig:"SOURCES_CATALOG_PATH"`
	UserAgent   string `envconfig:"SOURCES_USER_AGENT" default:"sentimental/1.0"`

	RSS        SourceConfig `envconfig:"SOURCE_RSS"`
	HackerNews SourceConfig `envconfig:"SOURCE_HACKERNEWS"`
	Reddit     SourceConfig `envconfig:"SOURCE_REDDIT"`
	GitHub     SourceConfig `envconfig:"SOURCE_GITHUB"`
	NewsAPI    SourceConfig `envconfig:"SOURCE_NEWSAPI"`

	NewsAPIKey     string `envconfig:"SOURCE_NEWSAPI_KEY"`
	GitHubToken    string `envconfig:"SOURCE_GITHUB_TOKEN"`
	GitHubTechOnly bool   `envconfig:"SOURCE_GITHUB_TECH_ONLY" default:"true"`

	BreakerFailures int           `envconfig:"SOURCE_BREAKER_FAILURES" default:"3"`
	BreakerCooldown time.Duration `envconfig:"SOURCE_BREAKER_COOLDOWN" default:"1m"`
	RetryMax        int           `envconfig:"SOURCE_RETRY_MAX" default:"1"`
	RetryDelay      time.Duration `envconfig:"SOURCE_RETRY_DELAY" default:"200ms"`
}

// SourceConfig is the per-adapter block, e.g. SOURCE_REDDIT_ENABLED, SOURCE_REDDIT_RPM
type SourceConfig struct {
	Enabled  bool          `envconfig:"ENABLED" default:"true"`
	Endpoint string        `envconfig:"ENDPOINT"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"10s"`
	RPM      int           `envconfig:"RPM" default:"60"`
	Burst    int           `envconfig:"BURST" default:"5"`
}

type RedisConfig struct {
	Host      string        `envconfig:"REDIS_HOST"`
	Port      int           `envconfig:"REDIS_PORT" default:"6379"`
	Password  string        `envconfig:"REDIS_PASSWORD"`
	DB        int           `envconfig:"REDIS_DB" default:"0"`
	ReportTTL time.Duration `envconfig:"REDIS_REPORT_TTL" default:"5m"`
}

// Enabled reports whether a Redis host is configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_REPORTS_TOPIC" default:"sentiment.reports"`
}

// Enabled reports whether any broker is configured
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains settings for background workers
type WorkerConfig struct {
	WatchEnabled  bool          `envconfig:"WORKER_WATCH_ENABLED" default:"false"`
	WatchInterval time.Duration `envconfig:"WORKER_WATCH_INTERVAL" default:"15m"`
	WatchQueries  []string      `envconfig:"WORKER_WATCH_QUERIES"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Pipeline.FetchDeadline <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "PIPELINE_FETCH_DEADLINE must be positive")
	}
	if c.Pipeline.MaxBuckets <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "PIPELINE_MAX_BUCKETS must be positive")
	}
	if c.Pipeline.ClassifierWorkers <= 0 {
		return errors.Wrap(errors.ErrInvalidInput, "PIPELINE_CLASSIFIER_WORKERS must be positive")
	}
	if c.Workers.WatchEnabled && len(c.Workers.WatchQueries) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "WORKER_WATCH_QUERIES is required when the watch worker is enabled")
	}
	return nil
}
