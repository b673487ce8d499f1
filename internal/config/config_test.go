package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("ENV", "development")
	t.Setenv("PORT", "8080")
	t.Setenv("CALENDAR_DEFAULT_MODE", "gregorian")
	t.Setenv("CALENDAR_DEFAULT_LANG", "en")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("RATE_LIMIT_RPS", "10")
	t.Setenv("RATE_LIMIT_BURST", "20")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.Enabled() {
		t.Error("expected Redis to be disabled with an empty URL")
	}
	if cfg.Calendar.SessionTTL != 24*time.Hour {
		t.Errorf("expected 24h session TTL, got %v", cfg.Calendar.SessionTTL)
	}
	if !cfg.IsDevelopment() || !cfg.MetricsEnabled {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("CALENDAR_DEFAULT_MODE", "Both")
	t.Setenv("CALENDAR_DEFAULT_LANG", "AR")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Redis.Enabled() {
		t.Error("expected Redis to be enabled")
	}
	if cfg.Calendar.DefaultMode != "both" || cfg.Calendar.DefaultLang != "ar" {
		t.Errorf("expected lowercased defaults, got %s/%s", cfg.Calendar.DefaultMode, cfg.Calendar.DefaultLang)
	}
	if cfg.RateLimit.RPS != 2.5 || cfg.MetricsEnabled {
		t.Errorf("unexpected rate/metrics: %v %v", cfg.RateLimit.RPS, cfg.MetricsEnabled)
	}
	if cfg.Calendar.SessionTTL != 90*time.Minute {
		t.Errorf("expected 90m, got %v", cfg.Calendar.SessionTTL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, val string
	}{
		{"mode", "CALENDAR_DEFAULT_MODE", "lunar"},
		{"lang", "CALENDAR_DEFAULT_LANG", "fr"},
		{"port", "PORT", "70000"},
		{"rate", "RATE_LIMIT_RPS", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_ProductionRequiresSessionTTL(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_TTL", "0s")
	if _, err := Load(); err == nil {
		t.Error("expected error for a zero session TTL in production")
	}
}
