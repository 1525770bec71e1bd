package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.RateLimitBackend != "memory" {
		t.Errorf("expected default rate limit backend memory, got %s", cfg.RateLimitBackend)
	}
	if cfg.LeadRateMax != 5 {
		t.Errorf("expected default lead rate max 5, got %d", cfg.LeadRateMax)
	}
	if cfg.LeadRateWindow != time.Hour {
		t.Errorf("expected default lead rate window 1h, got %s", cfg.LeadRateWindow)
	}
	if cfg.GateRateWindow != 15*time.Minute {
		t.Errorf("expected default gate rate window 15m, got %s", cfg.GateRateWindow)
	}
	if cfg.RecaptchaMinScore != 0.3 {
		t.Errorf("expected default captcha min score 0.3, got %f", cfg.RecaptchaMinScore)
	}
	if cfg.UploadMaxBytes != 10*1024*1024 {
		t.Errorf("expected default upload cap 10MB, got %d", cfg.UploadMaxBytes)
	}
	if cfg.EmailProvider != "stub" {
		t.Errorf("expected default email provider stub, got %s", cfg.EmailProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("RATE_LIMIT_BACKEND", "Redis")
	t.Setenv("LEAD_RATE_MAX", "10")
	t.Setenv("LEAD_RATE_WINDOW", "30m")
	t.Setenv("RECAPTCHA_MIN_SCORE", "0.5")
	t.Setenv("NOTIFY_EMAILS", "a@example.com, b@example.com,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://editmelo.com")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Port)
	}
	if cfg.RateLimitBackend != "redis" {
		t.Errorf("expected normalized backend redis, got %s", cfg.RateLimitBackend)
	}
	if cfg.LeadRateMax != 10 {
		t.Errorf("expected lead rate max 10, got %d", cfg.LeadRateMax)
	}
	if cfg.LeadRateWindow != 30*time.Minute {
		t.Errorf("expected lead rate window 30m, got %s", cfg.LeadRateWindow)
	}
	if cfg.RecaptchaMinScore != 0.5 {
		t.Errorf("expected captcha min score 0.5, got %f", cfg.RecaptchaMinScore)
	}
	if len(cfg.NotifyEmails) != 2 || cfg.NotifyEmails[0] != "a@example.com" || cfg.NotifyEmails[1] != "b@example.com" {
		t.Errorf("unexpected notify emails: %v", cfg.NotifyEmails)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://editmelo.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestAdminDatabaseURLFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app")

	cfg := Load()
	if cfg.AdminDatabaseURL != "postgres://app" {
		t.Errorf("expected admin DB URL to fall back to DATABASE_URL, got %s", cfg.AdminDatabaseURL)
	}

	t.Setenv("ADMIN_DATABASE_URL", "postgres://admin")
	cfg = Load()
	if cfg.AdminDatabaseURL != "postgres://admin" {
		t.Errorf("expected admin DB URL override, got %s", cfg.AdminDatabaseURL)
	}
}
