// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	OpenAlex OpenAlexConfig `yaml:"openalex" mapstructure:"openalex"`
	Scholar  ScholarConfig  `yaml:"scholar" mapstructure:"scholar"`
	SerpAPI  SerpAPIConfig  `yaml:"serpapi" mapstructure:"serpapi"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Ranking  RankingConfig  `yaml:"ranking" mapstructure:"ranking"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the local run log and profile cache.
type StoreConfig struct {
	Path          string `yaml:"path" mapstructure:"path"`
	CacheTTLHours int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// OpenAlexConfig configures the cursor-paginated OpenAlex backend.
type OpenAlexConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Mailto      string `yaml:"mailto" mapstructure:"mailto"`
	PerPage     int    `yaml:"per_page" mapstructure:"per_page"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	// PageDelayMs is the courtesy delay between page requests.
	PageDelayMs int `yaml:"page_delay_ms" mapstructure:"page_delay_ms"`
	// RetryBackoffSecs is the fixed wait before the single per-page retry.
	RetryBackoffSecs int `yaml:"retry_backoff_secs" mapstructure:"retry_backoff_secs"`
}

// ScholarConfig configures the Google Scholar profile backends.
type ScholarConfig struct {
	// Backend selects the profile fetcher: "scrape" or "serpapi".
	Backend      string `yaml:"backend" mapstructure:"backend"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	DelayMinSecs int    `yaml:"delay_min_secs" mapstructure:"delay_min_secs"`
	DelayMaxSecs int    `yaml:"delay_max_secs" mapstructure:"delay_max_secs"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SerpAPIConfig holds the paid search-proxy credential and endpoint.
// The key falls back to the SERPAPI_KEY environment variable when unset.
type SerpAPIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	DelayMs int    `yaml:"delay_ms" mapstructure:"delay_ms"`
}

// RegistryConfig points to the versioned data file consulted read-only
// by the cleaning filter, classifier and reconciler.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RankingConfig configures cleaning thresholds and sort keys.
type RankingConfig struct {
	Country   string `yaml:"country" mapstructure:"country"`
	MinHIndex int    `yaml:"min_h_index" mapstructure:"min_h_index"`
	// SortBy is the headline metric for ordering: "h_index" or "citations".
	SortBy string `yaml:"sort_by" mapstructure:"sort_by"`
}

// OutputConfig configures the export directory and formats.
type OutputConfig struct {
	Dir     string   `yaml:"dir" mapstructure:"dir"`
	Formats []string `yaml:"formats" mapstructure:"formats"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RANKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "ranking.db")
	v.SetDefault("store.cache_ttl_hours", 168)
	v.SetDefault("openalex.base_url", "https://api.openalex.org")
	v.SetDefault("openalex.mailto", "ranking.ciencias.sociales@example.com")
	v.SetDefault("openalex.per_page", 200)
	v.SetDefault("openalex.timeout_secs", 60)
	v.SetDefault("openalex.page_delay_ms", 100)
	v.SetDefault("openalex.retry_backoff_secs", 2)
	v.SetDefault("scholar.backend", "scrape")
	v.SetDefault("scholar.base_url", "https://scholar.google.com")
	v.SetDefault("scholar.delay_min_secs", 3)
	v.SetDefault("scholar.delay_max_secs", 7)
	v.SetDefault("scholar.timeout_secs", 30)
	v.SetDefault("serpapi.base_url", "https://serpapi.com/search")
	v.SetDefault("serpapi.delay_ms", 1000)
	v.SetDefault("registry.path", "data/registry.yaml")
	v.SetDefault("ranking.country", "CL")
	v.SetDefault("ranking.min_h_index", 1)
	v.SetDefault("ranking.sort_by", "h_index")
	v.SetDefault("output.dir", "data/output")
	v.SetDefault("output.formats", []string{"csv", "json"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
