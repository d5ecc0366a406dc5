// Package config provides unified configuration loading for the Pkonnect assistant.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the assistant.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Generator     GeneratorConfig     `yaml:"generator"`
	Dataset       DatasetConfig       `yaml:"dataset"`
	Cache         CacheConfig         `yaml:"cache"`
	History       HistoryConfig       `yaml:"history"`
	Assistant     AssistantConfig     `yaml:"assistant"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
}

// GeneratorConfig holds generative backend settings.
type GeneratorConfig struct {
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// DatasetConfig maps department tags to the files holding their records.
type DatasetConfig struct {
	DataDir     string              `yaml:"data_dir"`
	Departments map[string][]string `yaml:"departments"`
}

// CacheConfig holds answer cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // none, memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// HistoryConfig holds exchange history database settings.
type HistoryConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Driver   string         `yaml:"driver"` // sqlite or postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds Postgres-specific settings.
type PostgresConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// AssistantConfig holds persona and conversational settings.
type AssistantConfig struct {
	CollegeName string   `yaml:"college_name"`
	Greetings   []string `yaml:"greetings"`
	ExitWords   []string `yaml:"exit_words"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		// a departments table in the file replaces the defaults instead of
		// merging into them
		var file struct {
			Dataset struct {
				Departments map[string][]string `yaml:"departments"`
			} `yaml:"dataset"`
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		if file.Dataset.Departments != nil {
			cfg.Dataset.Departments = file.Dataset.Departments
		}

		cfg.Dataset.DataDir = ResolveRelativePath(path, cfg.Dataset.DataDir)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8000,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     90 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins:   []string{"*"},
		},
		Generator: GeneratorConfig{
			BaseURL: "http://localhost:11434",
			Model:   "tinyllama:latest",
			Timeout: 60 * time.Second,
		},
		Dataset: DatasetConfig{
			DataDir: "data",
			Departments: map[string][]string{
				"BSC CSIT": {"bsc_csit_data.csv", "batch2078.xlsx"},
				"BIT":      {"bit_data.csv"},
			},
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        10 * time.Minute,
			MaxEntries: 1000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				DB:       0,
				PoolSize: 10,
			},
		},
		History: HistoryConfig{
			Enabled: true,
			Driver:  "sqlite",
			SQLite: SQLiteConfig{
				Path: "pkonnect-history.db",
			},
			Postgres: PostgresConfig{
				MaxOpenConns: 10,
			},
		},
		Assistant: AssistantConfig{
			CollegeName: "Padma Kanya College",
			Greetings:   []string{"hi", "hello", "hey", "namaste"},
			ExitWords:   []string{"quit", "exit"},
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "pkonnect",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Generator.BaseURL == "" {
		return fmt.Errorf("generator base_url is required")
	}

	if c.Generator.Model == "" {
		return fmt.Errorf("generator model is required")
	}

	if c.Generator.Timeout <= 0 {
		return fmt.Errorf("generator timeout must be positive")
	}

	if len(c.Dataset.Departments) == 0 {
		return fmt.Errorf("at least one department must be configured")
	}

	switch c.Cache.Driver {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.History.Enabled && c.History.Driver != "sqlite" && c.History.Driver != "postgres" {
		return fmt.Errorf("invalid history driver: %s", c.History.Driver)
	}

	return nil
}

// HistoryDSN returns the appropriate database connection string.
func (c *Config) HistoryDSN() string {
	if c.History.Driver == "sqlite" {
		return c.History.SQLite.Path
	}
	return c.History.Postgres.DSN
}

// HistoryDriverName returns the database/sql driver name for the history store.
func (c *Config) HistoryDriverName() string {
	if c.History.Driver == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}

// IsExitWord reports whether input ends an interactive session.
func (c *Config) IsExitWord(input string) bool {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, w := range c.Assistant.ExitWords {
		if input == strings.ToLower(w) {
			return true
		}
	}
	return false
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.Generator.BaseURL = strings.TrimSuffix(v, "/")
	}

	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.Generator.Model = v
	}

	if v := os.Getenv("OLLAMA_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Generator.Timeout = d
		}
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Dataset.DataDir = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.History.Driver = "sqlite"
			cfg.History.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.History.Driver = "postgres"
			cfg.History.Postgres.DSN = v
		}
	}

	if v := os.Getenv("HISTORY_ENABLED"); v == "false" {
		cfg.History.Enabled = false
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if targetPath == "" || filepath.IsAbs(targetPath) {
		return targetPath
	}
	configDir := filepath.Dir(configPath)
	return filepath.Join(configDir, targetPath)
}
