package config

import (
	"testing"
	"time"

	"github.com/teamsched/schedule-manager/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.CacheTTL != 300*time.Second {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}
	if cfg.ColorCodingEnabled {
		t.Fatalf("expected color coding disabled by default")
	}
	if cfg.MaxWeeksPerTeam != 4 {
		t.Fatalf("unexpected MaxWeeksPerTeam: %d", cfg.MaxWeeksPerTeam)
	}
	if cfg.Timezone != "Europe/Paris" {
		t.Fatalf("unexpected Timezone: %q", cfg.Timezone)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("COLOR_CODING_ENABLED", "true")
	t.Setenv("MAX_WEEKS_PER_TEAM", "6")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("unexpected CacheTTL: %s", cfg.CacheTTL)
	}
	if !cfg.ColorCodingEnabled {
		t.Fatalf("expected color coding enabled")
	}
	if cfg.MaxWeeksPerTeam != 6 {
		t.Fatalf("unexpected MaxWeeksPerTeam: %d", cfg.MaxWeeksPerTeam)
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_TTL", "-1s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative CACHE_TTL")
	}

	t.Setenv("CACHE_TTL", "300s")
	t.Setenv("MAX_WEEKS_PER_TEAM", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for MAX_WEEKS_PER_TEAM=0")
	}
}
