// Package config loads application configuration from a YAML file with
// environment-variable overrides. Secrets and deployment knobs can live
// in a .env file locally and in real env vars in production.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Storage   StorageConfig   `yaml:"storage"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	Environment string `yaml:"environment"` // "development" or "production"
	StaticDir   string `yaml:"static_dir"`  // built client bundle, served in production
}

// IsProduction reports whether the server runs in production mode,
// which widens CORS and enables static client serving.
func (c ServerConfig) IsProduction() bool { return c.Environment == "production" }

// ExtractorConfig holds the upstream ML extraction service configuration.
type ExtractorConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured request timeout as a duration.
func (c ExtractorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig selects and parameterizes the persistent store engine.
type StorageConfig struct {
	Engine    string `yaml:"engine"` // "sqlite" (default) or "redis"
	Path      string `yaml:"path"`   // sqlite database file
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
}

// SchedulerConfig holds the campaign scheduler configuration.
type SchedulerConfig struct {
	Enabled             bool `yaml:"enabled"`
	PollIntervalSeconds int  `yaml:"poll_interval_seconds"`
}

// PollInterval returns the scheduler poll interval as a duration.
func (c SchedulerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Load reads and parses the configuration file. A missing file is not an
// error: the relay can run entirely from environment variables, so the
// defaults are applied to an empty config instead.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Environment == "" {
		cfg.Server.Environment = "development"
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "client/build"
	}
	if cfg.Extractor.BaseURL == "" {
		cfg.Extractor.BaseURL = "http://localhost:8000"
	}
	if cfg.Extractor.TimeoutSeconds == 0 {
		cfg.Extractor.TimeoutSeconds = 30
	}
	if cfg.Storage.Engine == "" {
		cfg.Storage.Engine = "sqlite"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "data/juice.db"
	}
	if cfg.Storage.RedisAddr == "" {
		cfg.Storage.RedisAddr = "localhost:6379"
	}
	if cfg.Scheduler.PollIntervalSeconds == 0 {
		cfg.Scheduler.PollIntervalSeconds = 30
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so local development can
// keep its settings out of the shell.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Environment = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("ML_SERVICE_URL"); v != "" {
		cfg.Extractor.BaseURL = v
	}
	if v := os.Getenv("STORAGE_ENGINE"); v != "" {
		cfg.Storage.Engine = v
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
	}

	return cfg, nil
}
