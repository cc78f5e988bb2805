// Package config provides configuration management for the analyzer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"optionscope/internal/analysis/scoring"
	"optionscope/internal/analysis/strategy"
	apperrors "optionscope/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Data     DataConfig     `mapstructure:"data"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
}

// AnalysisConfig holds the analysis tuning: reliability weights,
// decision-table thresholds, and the ATM concentration window.
type AnalysisConfig struct {
	Weights        WeightsConfig    `mapstructure:"weights"`
	Thresholds     ThresholdsConfig `mapstructure:"thresholds"`
	ATMWindowSteps float64          `mapstructure:"atm_window_steps"`
}

// WeightsConfig mirrors scoring.Weights for the config file.
type WeightsConfig struct {
	Volume float64 `mapstructure:"volume"`
	OI     float64 `mapstructure:"oi"`
	ATM    float64 `mapstructure:"atm"`
	Time   float64 `mapstructure:"time"`
}

// ThresholdsConfig mirrors strategy.Thresholds for the config file.
type ThresholdsConfig struct {
	RatioBullish   float64 `mapstructure:"ratio_bullish"`
	RatioBearish   float64 `mapstructure:"ratio_bearish"`
	SkewBullish    float64 `mapstructure:"skew_bullish"`
	SkewBearish    float64 `mapstructure:"skew_bearish"`
	HighIV         float64 `mapstructure:"high_iv"`
	MinReliability float64 `mapstructure:"min_reliability"`
}

// DataConfig holds fetch collaborator settings.
type DataConfig struct {
	Provider      string `mapstructure:"provider"` // "yahoo", "csv"
	CSVDir        string `mapstructure:"csv_dir"`
	TimeoutSec    int    `mapstructure:"timeout_sec"`
	RetryAttempts int    `mapstructure:"retry_attempts"`
	RetryDelayMS  int    `mapstructure:"retry_delay_ms"`
	CacheTTLMin   int    `mapstructure:"cache_ttl_min"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// ServerConfig holds the web presentation settings.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optionscope"
	}
	return filepath.Join(home, ".config", "optionscope")
}

// Load loads configuration from the specified directory. If configDir
// is empty, the default config directory is used. A missing config
// file yields the defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfigInvalid, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	w := scoring.DefaultWeights()
	v.SetDefault("analysis.weights.volume", w.Volume)
	v.SetDefault("analysis.weights.oi", w.OI)
	v.SetDefault("analysis.weights.atm", w.ATM)
	v.SetDefault("analysis.weights.time", w.Time)

	t := strategy.DefaultThresholds()
	v.SetDefault("analysis.thresholds.ratio_bullish", t.RatioBullish)
	v.SetDefault("analysis.thresholds.ratio_bearish", t.RatioBearish)
	v.SetDefault("analysis.thresholds.skew_bullish", t.SkewBullish)
	v.SetDefault("analysis.thresholds.skew_bearish", t.SkewBearish)
	v.SetDefault("analysis.thresholds.high_iv", t.HighIV)
	v.SetDefault("analysis.thresholds.min_reliability", t.MinReliability)

	v.SetDefault("analysis.atm_window_steps", 2.0)

	v.SetDefault("data.provider", "yahoo")
	v.SetDefault("data.csv_dir", "")
	v.SetDefault("data.timeout_sec", 15)
	v.SetDefault("data.retry_attempts", 3)
	v.SetDefault("data.retry_delay_ms", 500)
	v.SetDefault("data.cache_ttl_min", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.file_path", filepath.Join(DefaultConfigDir(), "logs", "optionscope.log"))

	v.SetDefault("server.listen", ":8080")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTIONSCOPE_PROVIDER"); v != "" {
		cfg.Data.Provider = v
	}
	if v := os.Getenv("OPTIONSCOPE_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("OPTIONSCOPE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	w := c.Analysis.Weights
	if w.Volume < 0 || w.OI < 0 || w.ATM < 0 || w.Time < 0 {
		return fmt.Errorf("reliability weights must be non-negative")
	}
	if w.Volume+w.OI+w.ATM+w.Time <= 0 {
		return fmt.Errorf("reliability weights must not all be zero")
	}

	t := c.Analysis.Thresholds
	if t.RatioBearish >= t.RatioBullish {
		return fmt.Errorf("ratio_bearish must be below ratio_bullish")
	}
	if t.SkewBullish >= t.SkewBearish {
		return fmt.Errorf("skew_bullish must be below skew_bearish")
	}
	if t.MinReliability < 0 || t.MinReliability > 1 {
		return fmt.Errorf("min_reliability must be between 0 and 1")
	}

	if c.Analysis.ATMWindowSteps < 0 {
		return fmt.Errorf("atm_window_steps must be non-negative")
	}

	switch c.Data.Provider {
	case "yahoo", "csv":
	default:
		return fmt.Errorf("invalid data provider: %s (must be 'yahoo' or 'csv')", c.Data.Provider)
	}
	if c.Data.Provider == "csv" && c.Data.CSVDir == "" {
		return fmt.Errorf("csv provider requires data.csv_dir")
	}
	if c.Data.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be at least 1")
	}
	return nil
}

// ScoringWeights converts the configured weights into scoring.Weights.
func (c *Config) ScoringWeights() scoring.Weights {
	return scoring.Weights{
		Volume: c.Analysis.Weights.Volume,
		OI:     c.Analysis.Weights.OI,
		ATM:    c.Analysis.Weights.ATM,
		Time:   c.Analysis.Weights.Time,
	}
}

// StrategyThresholds converts the configured thresholds into
// strategy.Thresholds.
func (c *Config) StrategyThresholds() strategy.Thresholds {
	return strategy.Thresholds{
		RatioBullish:   c.Analysis.Thresholds.RatioBullish,
		RatioBearish:   c.Analysis.Thresholds.RatioBearish,
		SkewBullish:    c.Analysis.Thresholds.SkewBullish,
		SkewBearish:    c.Analysis.Thresholds.SkewBearish,
		HighIV:         c.Analysis.Thresholds.HighIV,
		MinReliability: c.Analysis.Thresholds.MinReliability,
	}
}

// FetchTimeout returns the configured fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Data.TimeoutSec) * time.Second
}

// RetryDelay returns the configured retry delay.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Data.RetryDelayMS) * time.Millisecond
}

// CacheTTL returns the configured cache TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Data.CacheTTLMin) * time.Minute
}
