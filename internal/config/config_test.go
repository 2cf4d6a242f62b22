package config

import (
	"testing"
	"time"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load must fail without token secrets")
	}

	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	if _, err := Load(); err == nil {
		t.Fatal("Load must fail without the refresh secret")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("REFRESH_TOKEN_SECRET", "r")
	for _, key := range []string{"PORT", "ACCESS_TOKEN_EXPIRY", "REFRESH_TOKEN_EXPIRY", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "SWEEP_SCHEDULE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("access expiry = %v, want 15m", cfg.AccessTokenExpiry)
	}
	if cfg.RefreshTokenExpiry != 7*24*time.Hour {
		t.Errorf("refresh expiry = %v, want 168h", cfg.RefreshTokenExpiry)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Errorf("rate limit = %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.SweepSchedule != "5 0 * * *" {
		t.Errorf("sweep schedule = %q", cfg.SweepSchedule)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("REFRESH_TOKEN_SECRET", "r")
	t.Setenv("PORT", "9999")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "5m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.AccessTokenExpiry != 5*time.Minute {
		t.Errorf("access expiry = %v", cfg.AccessTokenExpiry)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 3 {
		t.Errorf("rate limit = %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("REFRESH_TOKEN_SECRET", "r")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "not-a-duration")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("access expiry = %v, want default", cfg.AccessTokenExpiry)
	}
	if cfg.RateLimitBurst != 10 {
		t.Errorf("burst = %d, want default", cfg.RateLimitBurst)
	}
}
