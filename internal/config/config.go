// Package config loads application configuration from file and environment.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic   AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	Marketplace MarketplaceConfig `yaml:"marketplace" mapstructure:"marketplace"`
	Evaluate    EvaluateConfig    `yaml:"evaluate" mapstructure:"evaluate"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings for the relevance classifier.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// MarketplaceConfig holds marketplace search API settings.
type MarketplaceConfig struct {
	Key             string  `yaml:"key" mapstructure:"key"`
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries         int     `yaml:"retries" mapstructure:"retries"`
	RatePerSec      float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	CacheTTLMins    int     `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
	CacheMaxQueries int     `yaml:"cache_max_queries" mapstructure:"cache_max_queries"`
}

// Timeout returns the per-fetch timeout as a duration.
func (c MarketplaceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// CacheTTL returns the comparable cache TTL as a duration.
func (c MarketplaceConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMins) * time.Minute
}

// EvaluateConfig holds evaluation-wide behavior knobs.
type EvaluateConfig struct {
	// ComparableBudgetSecs bounds retrieval + classification for one run.
	// On expiry the engine proceeds with whatever comparables arrived.
	ComparableBudgetSecs int `yaml:"comparable_budget_secs" mapstructure:"comparable_budget_secs"`

	// MinUsableListings is the threshold below which a source retries once
	// with the simplified query.
	MinUsableListings int `yaml:"min_usable_listings" mapstructure:"min_usable_listings"`

	// FxRates maps a currency code to its USD conversion rate. Listings in
	// currencies absent from this map are dropped during classification.
	FxRates map[string]float64 `yaml:"fx_rates" mapstructure:"fx_rates"`
}

// ComparableBudget returns the retrieval/classification budget as a duration.
func (c EvaluateConfig) ComparableBudget() time.Duration {
	return time.Duration(c.ComparableBudgetSecs) * time.Second
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
	v.SetEnvPrefix("ACQUIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("marketplace.base_url", "https://api.marketstall.io/v1")
	v.SetDefault("marketplace.timeout_secs", 15)
	v.SetDefault("marketplace.retries", 3)
	v.SetDefault("marketplace.rate_per_sec", 2.0)
	v.SetDefault("marketplace.cache_ttl_mins", 30)
	v.SetDefault("marketplace.cache_max_queries", 256)
	v.SetDefault("evaluate.comparable_budget_secs", 90)
	v.SetDefault("evaluate.min_usable_listings", 3)
	v.SetDefault("evaluate.fx_rates", map[string]float64{
		"USD": 1.0,
		"GBP": 1.27,
		"EUR": 1.08,
	})

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

	// Viper lowercases map keys; FX rates are keyed by uppercase currency code.
	if len(cfg.Evaluate.FxRates) > 0 {
		rates := make(map[string]float64, len(cfg.Evaluate.FxRates))
		for code, rate := range cfg.Evaluate.FxRates {
			rates[strings.ToUpper(code)] = rate
		}
		cfg.Evaluate.FxRates = rates
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
