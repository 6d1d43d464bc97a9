package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete codenav configuration
type Config struct {
	// Corpus roots walked by the indexer
	CodeRoots []string `mapstructure:"code_roots"`
	DocRoots  []string `mapstructure:"doc_roots"`

	// DataDir holds the entry store, weight table, and feedback log as
	// independently recoverable files
	DataDir string `mapstructure:"data_dir"`

	Search   SearchConfig   `mapstructure:"search"`
	Router   RouterConfig   `mapstructure:"router"`
	Learner  LearnerConfig  `mapstructure:"learner"`
	Indexer  IndexerConfig  `mapstructure:"indexer"`
	Advisor  AdvisorConfig  `mapstructure:"advisor"`
	Embedder EmbedderConfig `mapstructure:"embedder"`
}

// SearchConfig controls the semantic search engine
type SearchConfig struct {
	DefaultLimit     int           `mapstructure:"default_limit"`
	StalenessWindow  time.Duration `mapstructure:"staleness_window"`
	MinSimilarity    float64       `mapstructure:"min_similarity"`
	QueryCacheSize   int           `mapstructure:"query_cache_size"`
	QueryCacheTTLSec int           `mapstructure:"query_cache_ttl_sec"`
}

// RouterConfig controls component selection
type RouterConfig struct {
	// Budget is the per-query estimated-cost ceiling for included components
	Budget int `mapstructure:"budget"`

	// Floor is the weight below which a component is considered silenced;
	// a silenced sole capability provider is force-included anyway
	Floor float64 `mapstructure:"floor"`
}

// LearnerConfig controls feedback weight updates
type LearnerConfig struct {
	DeltaGood  float64 `mapstructure:"delta_good"`
	DeltaNoisy float64 `mapstructure:"delta_noisy"`
	WeightCap  float64 `mapstructure:"weight_cap"`
}

// IndexerConfig controls indexing passes
type IndexerConfig struct {
	Workers        int           `mapstructure:"workers"`
	MaxEntryBytes  int           `mapstructure:"max_entry_bytes"`
	RescanInterval time.Duration `mapstructure:"rescan_interval"` // 0 disables background rescan
}

// AdvisorConfig controls the optional free-text LLM advisor
type AdvisorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// EmbedderConfig selects and tunes the embedding provider
type EmbedderConfig struct {
	Provider  string `mapstructure:"provider"` // openai, local
	APIKey    string `mapstructure:"api_key"`
	CacheSize int    `mapstructure:"cache_size"`
}

// Orchestrator limits are fixed relative to the router budget
const (
	DefaultComponentTimeout = 5 * time.Second
	DefaultWorkers          = 4
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		CodeRoots: []string{"."},
		DocRoots:  []string{"docs"},
		DataDir:   defaultDataDir(),
		Search: SearchConfig{
			DefaultLimit:     5,
			StalenessWindow:  24 * time.Hour,
			MinSimilarity:    0,
			QueryCacheSize:   1000,
			QueryCacheTTLSec: 3600,
		},
		Router: RouterConfig{
			Budget: 10,
			Floor:  0.05,
		},
		Learner: LearnerConfig{
			DeltaGood:  0.1,
			DeltaNoisy: 0.2,
			WeightCap:  2.0,
		},
		Indexer: IndexerConfig{
			Workers:        DefaultWorkers,
			MaxEntryBytes:  32 * 1024,
			RescanInterval: 0,
		},
		Advisor: AdvisorConfig{
			Enabled:  false,
			Endpoint: "http://127.0.0.1:11434",
			Model:    "llama3",
			Timeout:  20 * time.Second,
		},
		Embedder: EmbedderConfig{
			Provider:  "",
			CacheSize: 10000,
		},
	}
}

// Load reads configuration with precedence: explicit file > CODENAV_* env >
// config file in the working directory > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CODENAV")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("codenav")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// Missing config file is fine; anything else is not
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Router.Budget <= 0 {
		return fmt.Errorf("router budget must be positive, got %d", c.Router.Budget)
	}
	if c.Learner.WeightCap <= 0 {
		return fmt.Errorf("learner weight cap must be positive, got %f", c.Learner.WeightCap)
	}
	if c.Learner.DeltaGood < 0 || c.Learner.DeltaNoisy < 0 {
		return fmt.Errorf("learner deltas must be non-negative")
	}
	if c.Router.Floor < 0 || c.Router.Floor > c.Learner.WeightCap {
		return fmt.Errorf("router floor must be within [0, weight cap]")
	}
	return nil
}

// StorePath returns the entry store database file
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "entries.db")
}

// WeightsPath returns the weight table database file
func (c *Config) WeightsPath() string {
	return filepath.Join(c.DataDir, "weights.db")
}

// FeedbackLogPath returns the append-only feedback log file
func (c *Config) FeedbackLogPath() string {
	return filepath.Join(c.DataDir, "feedback.log")
}

// SuggestionLogPath returns the MISSING-rating suggestion log file
func (c *Config) SuggestionLogPath() string {
	return filepath.Join(c.DataDir, "suggestions.log")
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("code_roots", d.CodeRoots)
	v.SetDefault("doc_roots", d.DocRoots)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("search.default_limit", d.Search.DefaultLimit)
	v.SetDefault("search.staleness_window", d.Search.StalenessWindow)
	v.SetDefault("search.min_similarity", d.Search.MinSimilarity)
	v.SetDefault("search.query_cache_size", d.Search.QueryCacheSize)
	v.SetDefault("search.query_cache_ttl_sec", d.Search.QueryCacheTTLSec)
	v.SetDefault("router.budget", d.Router.Budget)
	v.SetDefault("router.floor", d.Router.Floor)
	v.SetDefault("learner.delta_good", d.Learner.DeltaGood)
	v.SetDefault("learner.delta_noisy", d.Learner.DeltaNoisy)
	v.SetDefault("learner.weight_cap", d.Learner.WeightCap)
	v.SetDefault("indexer.workers", d.Indexer.Workers)
	v.SetDefault("indexer.max_entry_bytes", d.Indexer.MaxEntryBytes)
	v.SetDefault("indexer.rescan_interval", d.Indexer.RescanInterval)
	v.SetDefault("advisor.enabled", d.Advisor.Enabled)
	v.SetDefault("advisor.endpoint", d.Advisor.Endpoint)
	v.SetDefault("advisor.model", d.Advisor.Model)
	v.SetDefault("advisor.timeout", d.Advisor.Timeout)
	v.SetDefault("embedder.provider", d.Embedder.Provider)
	v.SetDefault("embedder.cache_size", d.Embedder.CacheSize)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codenav"
	}
	return filepath.Join(home, ".codenav")
}
