// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL, used for CORS.
	BaseURL string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Calendar holds calendar defaults and view-session settings.
	Calendar CalendarConfig

	// RateLimit throttles state-changing API calls per client IP.
	RateLimit RateLimitConfig

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	// Empty keeps view sessions in process memory.
	URL string
}

// Enabled reports whether a Redis URL was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

// CalendarConfig holds defaults applied to new view sessions.
type CalendarConfig struct {
	// DefaultMode is "gregorian", "hijri" or "both" (default: "gregorian").
	DefaultMode string

	// DefaultLang is the month-name language, "en" or "ar" (default: "en").
	DefaultLang string

	// SessionTTL is how long an idle view session is kept (default: 24h).
	SessionTTL time.Duration
}

// RateLimitConfig holds the token bucket settings for write routes.
type RateLimitConfig struct {
	// RPS is the sustained requests per second per IP. Zero disables limiting.
	RPS float64

	// Burst is the bucket size.
	Burst int
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if a value is present but unusable.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},

		Calendar: CalendarConfig{
			DefaultMode: strings.ToLower(getEnv("CALENDAR_DEFAULT_MODE", "gregorian")),
			DefaultLang: strings.ToLower(getEnv("CALENDAR_DEFAULT_LANG", "en")),
			SessionTTL:  getEnvDuration("SESSION_TTL", 24*time.Hour),
		},

		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
			Burst: getEnvInt("RATE_LIMIT_BURST", 20),
		},

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}

	switch cfg.Calendar.DefaultMode {
	case "gregorian", "hijri", "both":
	default:
		return nil, fmt.Errorf("CALENDAR_DEFAULT_MODE must be gregorian, hijri or both, got %q", cfg.Calendar.DefaultMode)
	}
	if cfg.Calendar.DefaultLang != "en" && cfg.Calendar.DefaultLang != "ar" {
		return nil, fmt.Errorf("CALENDAR_DEFAULT_LANG must be en or ar, got %q", cfg.Calendar.DefaultLang)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RateLimit.RPS < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}

	// View sessions must expire in production.
	envLower := strings.ToLower(cfg.Env)
	if (envLower == "production" || envLower == "prod") && cfg.Calendar.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive in production")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvFloat reads a float env var or returns the default.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// getEnvBool reads a boolean env var ("true", "1", "false", ...) or returns
// the default.
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "720h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
