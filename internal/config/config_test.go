package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
storage:
  type: minio
`)
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port: want 9090, got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != "memory" {
		t.Fatalf("driver: want memory, got %s", cfg.Database.Driver)
	}
	if cfg.Mock.FetchLatency() != time.Second {
		t.Fatalf("fetch latency: want 1s, got %v", cfg.Mock.FetchLatency())
	}
	if cfg.Mock.MutateLatency() != 2*time.Second {
		t.Fatalf("mutate latency: want 2s, got %v", cfg.Mock.MutateLatency())
	}
	if cfg.Mock.TemplateLatency() != 500*time.Millisecond {
		t.Fatalf("template latency: want 500ms, got %v", cfg.Mock.TemplateLatency())
	}
	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Fatalf("jwt expire: want 24h, got %v", cfg.JWT.ExpireTime)
	}
	if cfg.Survey.OverdueDays != 7 {
		t.Fatalf("overdue days: want 7, got %d", cfg.Survey.OverdueDays)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, "storage:\n  type: minio\n")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "from-env")
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("driver: want postgres, got %s", cfg.Database.Driver)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Fatalf("secret: want from-env, got %s", cfg.JWT.Secret)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	dir := writeConfig(t, "database:\n  driver: oracle\nstorage:\n  type: minio\n")
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadConfigReleaseNeedsStrongSecret(t *testing.T) {
	dir := writeConfig(t, "server:\n  mode: release\njwt:\n  secret: short\nstorage:\n  type: minio\n")
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected error for short secret in release mode")
	}
}
