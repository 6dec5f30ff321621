package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Session.Backend != BackendFile {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.API.Timeout != 15*time.Second || cfg.API.VerifyTimeout != 10*time.Second {
		t.Fatalf("unexpected timeouts: %+v", cfg.API)
	}
	if cfg.API.Prefix != "/api/v1" {
		t.Fatalf("unexpected prefix %q", cfg.API.Prefix)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development by default")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":             "production",
		"SESSION_BACKEND": "redis",
		"REDIS_ADDR":      "cache:6380",
		"REDIS_DB":        "2",
		"REDIS_PASSWORD":  "s3cret",
		"TOKEN_TTL":       "1h",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Session.Backend != BackendRedis || cfg.Redis.Addr != "cache:6380" || cfg.Redis.DB != 2 || cfg.Redis.Password != "s3cret" {
		t.Fatalf("unexpected redis config: %+v %+v", cfg.Session, cfg.Redis)
	}
	if cfg.Dev.TokenTTL != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", cfg.Dev.TokenTTL)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("production reported as development")
	}
}

func TestLoadWith_UnknownBackend(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_BACKEND": "sqlite",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
