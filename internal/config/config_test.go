package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "optionscope/internal/errors"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.Data.Provider)
	assert.Equal(t, 3, cfg.Data.RetryAttempts)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.InDelta(t, 0.30, cfg.Analysis.Weights.Volume, 1e-12)
	assert.InDelta(t, 1.5, cfg.Analysis.Thresholds.RatioBullish, 1e-12)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay())
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL())
}

func TestLoad_ReadsTOMLOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[data]
provider = "csv"
csv_dir = "/tmp/chains"
retry_attempts = 5

[analysis.thresholds]
high_iv = 80.0

[server]
listen = ":9999"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Data.Provider)
	assert.Equal(t, "/tmp/chains", cfg.Data.CSVDir)
	assert.Equal(t, 5, cfg.Data.RetryAttempts)
	assert.InDelta(t, 80.0, cfg.Analysis.Thresholds.HighIV, 1e-12)
	assert.Equal(t, ":9999", cfg.Server.Listen)
	// Untouched sections keep their defaults.
	assert.InDelta(t, 0.7, cfg.Analysis.Thresholds.RatioBearish, 1e-12)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPTIONSCOPE_LISTEN", ":7777")
	t.Setenv("OPTIONSCOPE_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Listen)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *Config {
		t.Helper()
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	t.Run("valid defaults", func(t *testing.T) {
		assert.NoError(t, base(t).Validate())
	})

	t.Run("negative weight", func(t *testing.T) {
		cfg := base(t)
		cfg.Analysis.Weights.Volume = -0.1
		assert.Error(t, cfg.Validate())
	})

	t.Run("all-zero weights", func(t *testing.T) {
		cfg := base(t)
		cfg.Analysis.Weights = WeightsConfig{}
		assert.Error(t, cfg.Validate())
	})

	t.Run("inverted ratio thresholds", func(t *testing.T) {
		cfg := base(t)
		cfg.Analysis.Thresholds.RatioBearish = 2.0
		assert.Error(t, cfg.Validate())
	})

	t.Run("inverted skew thresholds", func(t *testing.T) {
		cfg := base(t)
		cfg.Analysis.Thresholds.SkewBullish = 5.0
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := base(t)
		cfg.Data.Provider = "bloomberg"
		assert.Error(t, cfg.Validate())
	})

	t.Run("csv without directory", func(t *testing.T) {
		cfg := base(t)
		cfg.Data.Provider = "csv"
		cfg.Data.CSVDir = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	content := `
[data]
provider = "bloomberg"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	_, err := Load(dir)
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}
