// Package config loads engine settings from defaults, an optional YAML
// file and CONCIERGE_ environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/poiesic/concierge/ai"
)

// EnvPrefix marks environment overrides. Nested keys use a double
// underscore: CONCIERGE_CLASSIFIER__SEMANTIC_THRESHOLD.
const EnvPrefix = "CONCIERGE_"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Embedding  EmbeddingConfig  `koanf:"embedding"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Dispatch   DispatchConfig   `koanf:"dispatch"`
	Directory  DirectoryConfig  `koanf:"directory"`
	Editorial  EditorialConfig  `koanf:"editorial"`
	Sync       SyncConfig       `koanf:"sync"`
}

type EmbeddingConfig struct {
	Enabled bool          `koanf:"enabled"`
	Host    string        `koanf:"host"`
	Model   string        `koanf:"model"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

type ClassifierConfig struct {
	SemanticThreshold float64 `koanf:"semantic_threshold"`
	KeywordMultiplier float64 `koanf:"keyword_multiplier"`
	KeywordBase       float64 `koanf:"keyword_base"`
}

type DispatchConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// DirectoryConfig lists the directory backends. They are consulted in
// the order API, Postgres, snapshot, file; empty settings are skipped.
type DirectoryConfig struct {
	APIURL       string        `koanf:"api_url"`
	APIKey       string        `koanf:"api_key"`
	APITimeout   time.Duration `koanf:"api_timeout"`
	APIRetries   int           `koanf:"api_retries"`
	PostgresDSN  string        `koanf:"postgres_dsn"`
	SnapshotPath string        `koanf:"snapshot_path"`
	File         string        `koanf:"file"`
	Redis        RedisConfig   `koanf:"redis"`
}

// RedisConfig enables the read-through cache when Addr is set.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

// EditorialConfig sets the guide directory and the RSS feeds. Synced
// articles are kept in CacheFile so engines started later can search them;
// an empty CacheFile keeps them in memory only.
type EditorialConfig struct {
	GuidesDir   string   `koanf:"guides_dir"`
	Feeds       []string `koanf:"feeds"`
	CacheFile   string   `koanf:"cache_file"`
	MaxPerFeed  int      `koanf:"max_per_feed"`
	MaxArticles int      `koanf:"max_articles"`
	SearchLimit int      `koanf:"search_limit"`
}

type SyncConfig struct {
	MaxRetries int           `koanf:"max_retries"`
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Enabled: true,
			Host:    "http://localhost:11434/v1",
			Model:   "embeddinggemma",
			Timeout: 30 * time.Second,
		},
		Classifier: ClassifierConfig{
			SemanticThreshold: 0.2,
			KeywordMultiplier: 0.15,
			KeywordBase:       0.25,
		},
		Dispatch: DispatchConfig{
			DefaultLimit: 5,
			MaxLimit:     50,
		},
		Directory: DirectoryConfig{
			APIURL:     "https://www.barcelona-metropolitan.com/api",
			APITimeout: 5 * time.Second,
			APIRetries: 2,
			Redis: RedisConfig{
				TTL: 10 * time.Minute,
			},
		},
		Editorial: EditorialConfig{
			Feeds:       []string{"https://www.barcelona-metropolitan.com/directory/index.rss"},
			CacheFile:   defaultCacheFile(),
			MaxPerFeed:  50,
			MaxArticles: 1000,
			SearchLimit: 5,
		},
		Sync: SyncConfig{
			MaxRetries: 3,
			RetryDelay: time.Second,
		},
	}
}

// defaultCacheFile places the article cache in the user cache directory,
// or nowhere when the platform has none.
func defaultCacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "concierge", "articles.json")
}

// Load layers path (when non-empty) and the environment over Default.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// Validate checks ranges and required values.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Classifier.SemanticThreshold >= 0 && c.Classifier.SemanticThreshold <= 1,
		"classifier.semantic_threshold must be in [0,1], got %v", c.Classifier.SemanticThreshold)
	check(c.Classifier.KeywordMultiplier > 0, "classifier.keyword_multiplier must be positive")
	check(c.Classifier.KeywordBase >= 0 && c.Classifier.KeywordBase <= 1,
		"classifier.keyword_base must be in [0,1], got %v", c.Classifier.KeywordBase)
	check(c.Dispatch.MaxLimit > 0, "dispatch.max_limit must be positive")
	check(c.Dispatch.DefaultLimit >= 0 && c.Dispatch.DefaultLimit <= c.Dispatch.MaxLimit,
		"dispatch.default_limit must be in [0,%d], got %d", c.Dispatch.MaxLimit, c.Dispatch.DefaultLimit)
	check(c.Directory.APIRetries >= 0, "directory.api_retries must not be negative")
	check(c.Directory.Redis.Addr == "" || c.Directory.Redis.TTL > 0, "directory.redis.ttl must be positive")
	check(c.Editorial.MaxPerFeed > 0, "editorial.max_per_feed must be positive")
	check(c.Editorial.MaxArticles > 0, "editorial.max_articles must be positive")
	check(c.Editorial.SearchLimit > 0, "editorial.search_limit must be positive")
	check(c.Sync.MaxRetries > 0, "sync.max_retries must be positive")
	if c.Embedding.Enabled {
		if err := c.AIConfig().Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// AIConfig converts the embedding settings for the ai packages.
func (c *Config) AIConfig() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithAPIKey(c.Embedding.APIKey),
		ai.WithTimeout(c.Embedding.Timeout),
	)
	cfg.Normalize()
	return cfg
}
