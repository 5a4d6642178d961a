// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Report defaults
	DefaultTimezone float64 // UTC offset in hours when a request omits one
	ScanRefine      bool    // bisect transition boundaries to one second
	MaxRangeDays    int     // upper bound for range requests
	RangeWorkers    int     // parallel report workers for range requests
	PlacesFile      string  // optional TOML place catalogue

	// Report cache
	CacheBackend string        // none, sqlite, redis
	CachePath    string        // SQLite file for the sqlite backend
	RedisURL     string        // Redis URL for the redis backend
	CacheTTL     time.Duration // zero keeps entries forever

	// Authentication for cache administration
	AdminAPIKey string

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Cache backend names.
const (
	CacheNone   = "none"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

// Load reads configuration from environment variables.
// A .env file is loaded first if present.
func Load() (*Config, error) {
	// No-op in production where env vars are set directly.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	cfg.DefaultTimezone = getEnvFloat("DEFAULT_TIMEZONE", 5.5)
	cfg.ScanRefine = getEnvBool("SCAN_REFINE", false)
	cfg.MaxRangeDays = getEnvInt("MAX_RANGE_DAYS", 31)
	cfg.RangeWorkers = getEnvInt("RANGE_WORKERS", 4)
	cfg.PlacesFile = getEnv("PLACES_FILE", "")

	cfg.CacheBackend = getEnv("CACHE_BACKEND", CacheNone)
	cfg.CachePath = getEnv("CACHE_PATH", "./data/panchang.db")
	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", 720*time.Hour)

	cfg.AdminAPIKey = getEnv("ADMIN_API_KEY", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DefaultTimezone < -12 || c.DefaultTimezone > 14 {
		errs = append(errs, fmt.Errorf("DEFAULT_TIMEZONE must be between -12 and 14, got %v", c.DefaultTimezone))
	}
	if c.MaxRangeDays < 1 || c.MaxRangeDays > 366 {
		errs = append(errs, fmt.Errorf("MAX_RANGE_DAYS must be between 1 and 366, got %d", c.MaxRangeDays))
	}
	if c.RangeWorkers < 1 {
		errs = append(errs, fmt.Errorf("RANGE_WORKERS must be positive, got %d", c.RangeWorkers))
	}

	switch c.CacheBackend {
	case CacheNone:
	case CacheSQLite:
		if c.CachePath == "" {
			errs = append(errs, errors.New("CACHE_PATH is required for the sqlite cache"))
		}
	case CacheRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be one of: none, sqlite, redis; got %q", c.CacheBackend))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL must not be negative, got %v", c.CacheTTL))
	}

	// Cache administration is open in development.
	if c.Env == EnvProduction && c.CacheBackend != CacheNone && c.AdminAPIKey == "" {
		errs = append(errs, errors.New("ADMIN_API_KEY is required in production when a cache is enabled"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
