package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Values come from an optional
// YAML file; environment variables override the file so container deploys
// can stay file-less.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	HTTP       HTTPConfig       `yaml:"http"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	ML         MLConfig         `yaml:"ml"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type MLConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured client timeout as a duration.
func (m MLConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// ThresholdsConfig carries the RUL cut-offs for health classification.
type ThresholdsConfig struct {
	WarningRUL  float64 `yaml:"warning_rul"`
	CriticalRUL float64 `yaml:"critical_rul"`
}

// Load reads configuration from path. An empty path skips the file and uses
// defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("ML_URL"); v != "" {
		c.ML.BaseURL = v
	}
	if v := os.Getenv("DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Database.MaxOpenConns = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.ML.TimeoutSeconds == 0 {
		c.ML.TimeoutSeconds = 10
	}
	if c.Thresholds.WarningRUL == 0 {
		c.Thresholds.WarningRUL = 50
	}
	if c.Thresholds.CriticalRUL == 0 {
		c.Thresholds.CriticalRUL = 20
	}
}

func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database.dsn is required")
	}
	if c.Thresholds.CriticalRUL >= c.Thresholds.WarningRUL {
		return fmt.Errorf("config: thresholds.critical_rul (%v) must be below thresholds.warning_rul (%v)",
			c.Thresholds.CriticalRUL, c.Thresholds.WarningRUL)
	}
	return nil
}
