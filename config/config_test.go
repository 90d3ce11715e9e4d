package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_SECRET", "RATE_LIMIT", "CORS_ORIGINS", "MAIL_PROVIDER", "EMAIL", "EMAIL_FROM", "WEATHER_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.Port != ":8080" {
		t.Fatalf("expected default port :8080, got %q", cfg.Port)
	}
	if cfg.RateLimit != 100 {
		t.Fatalf("expected default rate limit 100, got %d", cfg.RateLimit)
	}
	if cfg.MailProvider != "log" {
		t.Fatalf("expected log mail provider, got %q", cfg.MailProvider)
	}
	if cfg.WeatherTimeout != 5*time.Second {
		t.Fatalf("expected 5s weather timeout, got %s", cfg.WeatherTimeout)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RATE_LIMIT", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("MAIL_PROVIDER", "SES")
	t.Setenv("EMAIL", "bot@example.com")
	t.Setenv("EMAIL_FROM", "")
	t.Setenv("WEATHER_TIMEOUT", "250ms")

	cfg := FromEnv()
	if cfg.Port != ":9000" {
		t.Fatalf("expected port to gain a colon, got %q", cfg.Port)
	}
	if cfg.RateLimit != 100 {
		t.Fatalf("expected invalid rate limit to fall back, got %d", cfg.RateLimit)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.MailProvider != "ses" {
		t.Fatalf("expected lowercased provider, got %q", cfg.MailProvider)
	}
	if cfg.EmailFrom != "bot@example.com" {
		t.Fatalf("expected EMAIL_FROM to default to EMAIL, got %q", cfg.EmailFrom)
	}
	if cfg.WeatherTimeout != 250*time.Millisecond {
		t.Fatalf("expected 250ms timeout, got %s", cfg.WeatherTimeout)
	}
}
