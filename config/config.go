package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBackendURL is used when neither the config file nor BACKEND_URL set one.
const DefaultBackendURL = "http://localhost:8000"

// DefaultMaxBodyBytes fits a 10 MiB upload plus multipart framing.
const DefaultMaxBodyBytes = 16 << 20

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Archive   ArchiveConfig   `yaml:"archive"`
}

type ServerConfig struct {
	Port               int `yaml:"port"`
	ReadTimeoutSeconds int `yaml:"read_timeout_seconds"`
	// WriteTimeoutSeconds of 0 lets a slow backend call finish and be relayed.
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	// MaxBodyBytes caps every request body; larger bodies get 413.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

type BackendConfig struct {
	URL string `yaml:"url"`
	// TimeoutSeconds of 0 leaves outbound calls without a client-side deadline.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RateLimitConfig struct {
	Requests      int `yaml:"requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// ArchiveConfig controls the optional MinIO copy of citizen uploads.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
}

// Load reads the YAML file at path (a missing file is not an error), applies
// .env and environment overrides, then fills defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("config file not found, using environment and defaults", "path", path)
	default:
		return nil, err
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		c.CORS.AllowOrigins = v
	}
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 60
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Backend.URL == "" {
		c.Backend.URL = DefaultBackendURL
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.CORS.AllowOrigins == "" {
		c.CORS.AllowOrigins = "*"
	}
	if c.Archive.Bucket == "" {
		c.Archive.Bucket = "citizen-uploads"
	}
	if c.Archive.Region == "" {
		c.Archive.Region = "us-east-1"
	}
}

// Validate reports configuration that cannot be served.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend url must start with http:// or https://, got %q", c.Backend.URL)
	}
	if c.Archive.Enabled && c.Archive.Endpoint == "" {
		return errors.New("archive is enabled but archive.endpoint is empty")
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must not be negative, got %d", c.Server.MaxBodyBytes)
	}
	for _, origin := range strings.Split(c.CORS.AllowOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" || origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("cors origin %q must be \"*\" or start with http:// or https://", origin)
		}
	}
	return nil
}

// BackendTimeout returns the outbound timeout; zero means none.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// RateLimitWindow returns the rate limiter window.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}
