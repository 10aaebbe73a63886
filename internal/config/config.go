package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for namegate.
type Config struct {
	Provider         string           `mapstructure:"provider"`
	FallbackProvider string           `mapstructure:"fallback_provider"`
	LookupLimit      int              `mapstructure:"lookup_limit"`
	LookupTimeout    string           `mapstructure:"lookup_timeout"`
	RateLimit        float64          `mapstructure:"rate_limit"`
	Workers          int              `mapstructure:"workers"`
	TopN             int              `mapstructure:"top_n"`
	Overgenerate     int              `mapstructure:"overgenerate"`
	CacheDir         string           `mapstructure:"cache_dir"`
	CacheTTL         string           `mapstructure:"cache_ttl"`
	NoCache          bool             `mapstructure:"no_cache"`
	RulesFile        string           `mapstructure:"rules_file"`
	LexiconFile      string           `mapstructure:"lexicon_file"`
	HistoryFile      string           `mapstructure:"history_file"`
	LogLevel         string           `mapstructure:"log_level"`
	Similarity       SimilarityConfig `mapstructure:"similarity"`
	Finanvo          FinanvoConfig    `mapstructure:"finanvo"`
	ROC              ROCConfig        `mapstructure:"rocapi"`
}

// SimilarityConfig holds the conflict-tier thresholds.
type SimilarityConfig struct {
	Exact      float64 `mapstructure:"exact"`
	High       float64 `mapstructure:"high"`
	Moderate   float64 `mapstructure:"moderate"`
	MaxMatches int     `mapstructure:"max_matches"`
}

// FinanvoConfig holds Finanvo API settings.
type FinanvoConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

// ROCConfig holds Registrar of Companies API settings.
type ROCConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TokenURL     string `mapstructure:"token_url"`
	BaseURL      string `mapstructure:"base_url"`
}

// Load reads configuration from file, environment, and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("provider", "offline")
	v.SetDefault("fallback_provider", "offline")
	v.SetDefault("lookup_limit", 25)
	v.SetDefault("lookup_timeout", "3s")
	v.SetDefault("rate_limit", 5.0)
	v.SetDefault("workers", 0) // 0 = derive from CPU count
	v.SetDefault("top_n", 20)
	v.SetDefault("overgenerate", 30)
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("cache_ttl", "1h")
	v.SetDefault("no_cache", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("similarity.exact", 0.95)
	v.SetDefault("similarity.high", 0.70)
	v.SetDefault("similarity.moderate", 0.40)
	v.SetDefault("similarity.max_matches", 10)
	v.SetDefault("finanvo.base_url", "https://api.finanvo.in")
	v.SetDefault("rocapi.base_url", "https://data.registrar.example")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/namegate")
	}

	// Environment variables
	v.SetEnvPrefix("NAMEGATE")
	v.AutomaticEnv()

	// Bind specific env vars
	_ = v.BindEnv("finanvo.api_key", "FINANVO_API_KEY")
	_ = v.BindEnv("finanvo.api_secret", "FINANVO_API_SECRET")
	_ = v.BindEnv("rocapi.client_id", "ROC_CLIENT_ID")
	_ = v.BindEnv("rocapi.client_secret", "ROC_CLIENT_SECRET")
	_ = v.BindEnv("rocapi.token_url", "ROC_TOKEN_URL")
	_ = v.BindEnv("provider", "NAMEGATE_PROVIDER")
	_ = v.BindEnv("log_level", "NAMEGATE_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Resolve rule/lexicon paths to absolute so subcommands can chdir freely.
	for _, p := range []*string{&cfg.RulesFile, &cfg.LexiconFile, &cfg.HistoryFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			abs, err := filepath.Abs(*p)
			if err != nil {
				return nil, fmt.Errorf("resolving path %s: %w", *p, err)
			}
			*p = abs
		}
	}

	return &cfg, nil
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/namegate-cache"
	}
	return filepath.Join(home, ".cache", "namegate")
}
