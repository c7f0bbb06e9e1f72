package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration, merged defaults <- file <- env <-
// CLI overrides.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Database DBConfig      `yaml:"database"`
	Model    ModelConfig   `yaml:"model"`
	Cache    CacheConfig   `yaml:"cache"`
	Privacy  PrivacyConfig `yaml:"privacy"`
	Usage    UsageConfig   `yaml:"usage"`
	Logging  LogConfig     `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DBConfig controls durable storage.
type DBConfig struct {
	DSN string `yaml:"dsn"`
}

// ModelConfig controls the external reviewer boundary.
type ModelConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Endpoint  string `yaml:"endpoint"`
	TimeoutMS int    `yaml:"timeout_ms"`
	Bypass    bool   `yaml:"bypass"`
}

// Timeout returns the model call timeout as a duration.
func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutMS) * time.Millisecond
}

// CacheConfig controls model response caching.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// PrivacyConfig controls redaction before content leaves the process.
type PrivacyConfig struct {
	RedactSecrets bool     `yaml:"redact_secrets"`
	RedactPaths   []string `yaml:"redact_paths"`
}

// UsageConfig sizes the in-memory usage ring.
type UsageConfig struct {
	Capacity int `yaml:"capacity"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Format string `yaml:"format"` // "json" | "console"
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Database: DBConfig{DSN: "./reviewhub.db"},
		Model: ModelConfig{
			Provider:  "ollama",
			Model:     "deepseek-coder",
			TimeoutMS: 60000,
		},
		Cache: CacheConfig{Enabled: true, TTLSeconds: 86400},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
		Usage:   UsageConfig{Capacity: 25},
		Logging: LogConfig{Format: "json", Level: "info"},
	}
}

// Load builds the effective config. path may be empty (no file). The
// overrides map comes from CLI flags; only non-empty values apply.
func Load(path string, overrides map[string]string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	mergeEnv(&cfg)
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("REVIEWHUB_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REVIEWHUB_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REVIEWHUB_MODEL_PROVIDER"); v != "" {
		cfg.Model.Provider = v
	}
	if v := os.Getenv("REVIEWHUB_MODEL"); v != "" {
		cfg.Model.Model = v
	}
	if v := os.Getenv("REVIEWHUB_MODEL_ENDPOINT"); v != "" {
		cfg.Model.Endpoint = v
	}
	if v := os.Getenv("REVIEWHUB_MODEL_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Model.TimeoutMS = n
		}
	}
	if v := os.Getenv("REVIEWHUB_BYPASS_MODEL"); v != "" {
		cfg.Model.Bypass = v == "true" || v == "1"
	}
	if v := os.Getenv("REVIEWHUB_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("REVIEWHUB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns an error for
// unknown keys.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "addr":
		cfg.Server.Addr = value
	case "dsn":
		cfg.Database.DSN = value
	case "provider":
		cfg.Model.Provider = value
	case "model":
		cfg.Model.Model = value
	case "endpoint":
		cfg.Model.Endpoint = value
	case "timeoutMs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeoutMs must be an integer: %w", err)
		}
		cfg.Model.TimeoutMS = n
	case "bypass":
		cfg.Model.Bypass = value == "true" || value == "1"
	case "cacheDir":
		cfg.Cache.Dir = value
	case "logLevel":
		cfg.Logging.Level = value
	case "logFormat":
		cfg.Logging.Format = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
