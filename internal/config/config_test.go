package config

import (
	"errors"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "hydroguide")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load()
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected errMissingRequiredEnv, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("REDIS_TTL", "")
	t.Setenv("MARKETPLACE_HOST", "")
	t.Setenv("DB_AUTO_MIGRATE", "")
	t.Setenv("DB_SEED_DEMO", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.App.Timezone != "UTC" {
		t.Fatalf("expected UTC timezone, got %q", cfg.App.Timezone)
	}
	if cfg.Redis.TTL != 600*time.Second {
		t.Fatalf("expected default redis ttl, got %s", cfg.Redis.TTL)
	}
	if cfg.Recommendation.MarketplaceHost != "www.amazon.com" {
		t.Fatalf("unexpected marketplace host %q", cfg.Recommendation.MarketplaceHost)
	}
	if !cfg.Database.AutoMigrate {
		t.Fatalf("expected auto migrate on by default")
	}
	if cfg.Database.SeedDemo {
		t.Fatalf("expected demo seeding off by default")
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequired(t)
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid timezone")
	}
}
