package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
//
// Environment names derive from the field path (DP_SERVER_PORT,
// DP_DATASET_PATH, ...). The envconfig `alt` tag form is deliberately not
// used: envconfig falls back to the bare alt name when the prefixed key is
// unset, which would let ambient variables like $PATH leak into the config.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	RateLimit RateLimitConfig `yaml:"rate_limit" split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// DatasetConfig locates the delivery dataset and export targets
type DatasetConfig struct {
	Path      string `yaml:"path"`
	OutputDir string `yaml:"output_dir" split_words:"true"`
}

// AnalyticsConfig tunes report computation
type AnalyticsConfig struct {
	TopCategories  int           `yaml:"top_categories" split_words:"true"`
	ComputeTimeout time.Duration `yaml:"compute_timeout" split_words:"true"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// Default returns the baseline configuration before file and env overrides
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Dataset: DatasetConfig{
			Path:      "data/orders.csv",
			OutputDir: "reports",
		},
		Analytics: AnalyticsConfig{
			TopCategories:  10,
			ComputeTimeout: 60 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     100,
			Burst:   50,
		},
	}
}

// Load loads configuration in three layers: built-in defaults, an optional
// YAML file (config.yaml, or the path named by DP_CONFIG_FILE), and finally
// DP_-prefixed environment variables. Later layers win.
func Load() (*Config, error) {
	cfg := Default()

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		if err := applyFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("DP", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyFile overlays YAML file values onto cfg. Keys absent from the file
// leave the existing values untouched.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path must be specified")
	}

	if c.Analytics.TopCategories <= 0 {
		return fmt.Errorf("analytics top categories must be positive, got %d", c.Analytics.TopCategories)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("rate limit RPS must be positive, got %f", c.RateLimit.RPS)
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive, got %d", c.RateLimit.Burst)
		}
	}

	return nil
}

// GetOutputDir returns the resolved report output directory
func (c *Config) GetOutputDir() string {
	if filepath.IsAbs(c.Dataset.OutputDir) {
		return c.Dataset.OutputDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return c.Dataset.OutputDir
	}
	return filepath.Join(wd, c.Dataset.OutputDir)
}

// getConfigFilePath returns the config file path, honoring DP_CONFIG_FILE
func getConfigFilePath() string {
	if path := os.Getenv("DP_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
