package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_CONN", "host=localhost dbname=ledger sslmode=disable")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestNewConfig_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected cache ttl 5m, got %s", cfg.CacheTTL)
	}
	if cfg.AlertSchedule != "0 8 * * *" {
		t.Errorf("unexpected alert schedule %q", cfg.AlertSchedule)
	}
}

func TestNewConfig_FromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("ALERT_SCHEDULE", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.RedisAddr != "redis:6379" || cfg.CacheTTL != 30*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.AlertSchedule != "" {
		t.Errorf("expected alert schedule disabled, got %q", cfg.AlertSchedule)
	}
}

func TestNewConfig_Required(t *testing.T) {
	for _, name := range []string{"DB_CONN", "JWT_SECRET"} {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(name, "")
			if _, err := NewConfig(); err == nil {
				t.Errorf("expected error without %s", name)
			}
		})
	}
}

func TestNewConfig_InvalidDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("CACHE_TTL", "soon")
	if _, err := NewConfig(); err == nil {
		t.Error("expected error for malformed CACHE_TTL")
	}
}
