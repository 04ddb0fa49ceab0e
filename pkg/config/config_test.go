package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadBuildsDSNFromParts(t *testing.T) {
	t.Setenv("TAXREPORTER_APP_ENV", "development")
	t.Setenv("TAXREPORTER_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TAXREPORTER_OPERATOR_TOKEN", "secret-token")
	t.Setenv("TAXREPORTER_DB_DSN", "")
	t.Setenv("TAXREPORTER_DB_HOST", "localhost")
	t.Setenv("TAXREPORTER_DB_USER", "reports")
	t.Setenv("TAXREPORTER_DB_PASSWORD", "p@ss word")
	t.Setenv("TAXREPORTER_DB_NAME", "taxreporter")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(cfg.DB.DSN, "postgres://reports:") {
		t.Fatalf("unexpected DSN %q", cfg.DB.DSN)
	}
	if !strings.Contains(cfg.DB.DSN, "localhost:5432/taxreporter") {
		t.Fatalf("unexpected DSN %q", cfg.DB.DSN)
	}
	if !strings.Contains(cfg.DB.DSN, "sslmode=disable") {
		t.Fatalf("expected sslmode in DSN %q", cfg.DB.DSN)
	}
}

func TestLoadPrefersExplicitDSN(t *testing.T) {
	t.Setenv("TAXREPORTER_APP_ENV", "production")
	t.Setenv("TAXREPORTER_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TAXREPORTER_OPERATOR_TOKEN", "secret-token")
	t.Setenv("TAXREPORTER_DB_DSN", "postgres://u:p@db:5432/reports?sslmode=require")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB.DSN != "postgres://u:p@db:5432/reports?sslmode=require" {
		t.Fatalf("explicit DSN was rewritten: %q", cfg.DB.DSN)
	}
	if !cfg.App.IsProd() {
		t.Fatal("expected production environment")
	}
}

func TestLoadMissingDBConfigFails(t *testing.T) {
	t.Setenv("TAXREPORTER_APP_ENV", "development")
	t.Setenv("TAXREPORTER_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TAXREPORTER_OPERATOR_TOKEN", "secret-token")
	t.Setenv("TAXREPORTER_DB_DSN", "")
	t.Setenv("TAXREPORTER_DB_HOST", "")
	t.Setenv("TAXREPORTER_DB_USER", "")
	t.Setenv("TAXREPORTER_DB_NAME", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing db configuration")
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("TAXREPORTER_APP_ENV", "development")
	t.Setenv("TAXREPORTER_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TAXREPORTER_OPERATOR_TOKEN", "secret-token")
	t.Setenv("TAXREPORTER_DB_DSN", "postgres://u:p@db:5432/reports")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.App.Port)
	}
	if cfg.Reports.CronInterval != 24*time.Hour {
		t.Fatalf("unexpected cron interval %s", cfg.Reports.CronInterval)
	}
	if cfg.Service.Kind != "api" {
		t.Fatalf("unexpected service kind %q", cfg.Service.Kind)
	}
}
