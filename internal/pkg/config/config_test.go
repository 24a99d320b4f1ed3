package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}), "")
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Fatalf("expected default port 8090, got %s", cfg.Port)
	}
	if !cfg.APIURLDefaulted() || cfg.APIURL() != DefaultAPIURL {
		t.Fatalf("expected fallback api url, got %q", cfg.APIURL())
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %s", cfg.API.Timeout)
	}
	if cfg.Credentials.Store != StoreFile || cfg.Credentials.Profile != "default" {
		t.Fatalf("unexpected credential defaults: %+v", cfg.Credentials)
	}
	if cfg.Redis.KeyPrefix != "crm-console" || cfg.WriteWorkers != 8 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"CRM_API_URL":      "https://crm.example.com/api",
		"CRM_API_TIMEOUT":  "3s",
		"CREDENTIAL_STORE": "redis",
		"REDIS_DB":         "2",
		"ENV":              "production",
	}), "")
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.APIURLDefaulted() || cfg.APIURL() != "https://crm.example.com/api" {
		t.Fatalf("unexpected api url %q", cfg.APIURL())
	}
	if cfg.API.Timeout != 3*time.Second || cfg.Credentials.Store != StoreRedis || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("expected production")
	}
}

func TestLoadFrom_RejectsUnknownStore(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"CREDENTIAL_STORE": "keychain",
	}), "")
	if err == nil {
		t.Fatalf("expected error for unknown store")
	}
}

func TestLoadFrom_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CRM_CONSOLE_TEST_PORT=9999\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("CRM_CONSOLE_TEST_PORT", "")
	os.Unsetenv("CRM_CONSOLE_TEST_PORT")

	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}), path); err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if got := os.Getenv("CRM_CONSOLE_TEST_PORT"); got != "9999" {
		t.Fatalf("expected .env to be applied, got %q", got)
	}

	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}), filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing .env must be ignored, got %v", err)
	}
}
