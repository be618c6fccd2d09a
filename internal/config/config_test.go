package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DP_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/orders.csv", cfg.Dataset.Path)
	assert.Equal(t, 10, cfg.Analytics.TopCategories)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadIgnoresUnprefixedEnv(t *testing.T) {
	t.Setenv("DP_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	// Ambient process variables without the DP_ prefix must never reach
	// the config. $PATH in particular collides with dataset.path.
	t.Setenv("PATH", "/usr/local/bin:/usr/bin")
	t.Setenv("PORT", "1234")
	t.Setenv("LEVEL", "debug")
	t.Setenv("FORMAT", "text")
	t.Setenv("OUTPUT", "file")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/orders.csv", cfg.Dataset.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DP_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DP_SERVER_PORT", "9191")
	t.Setenv("DP_DATASET_PATH", "/srv/orders.csv")
	t.Setenv("DP_ANALYTICS_TOP_CATEGORIES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "/srv/orders.csv", cfg.Dataset.Path)
	assert.Equal(t, 5, cfg.Analytics.TopCategories)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9999
dataset:
  path: /var/data/deliveries.csv
  output_dir: /var/reports
analytics:
  top_categories: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("DP_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "/var/data/deliveries.csv", cfg.Dataset.Path)
	assert.Equal(t, "/var/reports", cfg.Dataset.OutputDir)
	assert.Equal(t, 3, cfg.Analytics.TopCategories)
	// Fields absent from the file keep env/default values.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0o644))
	t.Setenv("DP_CONFIG_FILE", path)
	t.Setenv("DP_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "empty dataset path",
			mutate:  func(c *Config) { c.Dataset.Path = "" },
			wantErr: "dataset path",
		},
		{
			name:    "zero top categories",
			mutate:  func(c *Config) { c.Analytics.TopCategories = 0 },
			wantErr: "top categories",
		},
		{
			name:    "rate limit without rps",
			mutate:  func(c *Config) { c.RateLimit = RateLimitConfig{Enabled: true, Burst: 10} },
			wantErr: "rate limit RPS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func validConfig() *Config {
	return Default()
}
