package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	RateLimit   uint
	CORSOrigins []string
	Debug       bool

	WeatherAPIKey  string
	WeatherBaseURL string
	WeatherTimeout time.Duration

	MailProvider  string
	SMTPHost      string
	SMTPPort      string
	EmailUser     string
	EmailPassword string
	EmailFrom     string
	AWSRegion     string
	SESFromEmail  string
	SESFromName   string
}

const devJWTSecret = "flockr-dev-secret"

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}
	return FromEnv()
}

func FromEnv() *Config {
	cfg := &Config{
		Port:           envOrDefault("PORT", ":8080"),
		JWTSecret:      envOrDefault("JWT_SECRET", devJWTSecret),
		RateLimit:      uint(envInt("RATE_LIMIT", 100)),
		CORSOrigins:    splitList(os.Getenv("CORS_ORIGINS")),
		Debug:          envBool("DEBUG"),
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherBaseURL: envOrDefault("WEATHER_BASE_URL", "http://api.weatherstack.com"),
		WeatherTimeout: envDuration("WEATHER_TIMEOUT", 5*time.Second),
		MailProvider:   strings.ToLower(envOrDefault("MAIL_PROVIDER", "log")),
		SMTPHost:       envOrDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       envOrDefault("SMTP_PORT", "587"),
		EmailUser:      os.Getenv("EMAIL"),
		EmailPassword:  os.Getenv("EMAIL_PASSWORD"),
		AWSRegion:      envOrDefault("AWS_REGION", "us-east-1"),
		SESFromEmail:   os.Getenv("SES_FROM_EMAIL"),
		SESFromName:    envOrDefault("SES_FROM_NAME", "Flockr"),
	}
	cfg.EmailFrom = envOrDefault("EMAIL_FROM", cfg.EmailUser)

	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}
	if cfg.JWTSecret == devJWTSecret {
		log.Println("JWT_SECRET not set, using development signing key")
	}
	return cfg
}

func envOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Ignoring invalid %s=%q", key, raw)
		return fallback
	}
	return v
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Ignoring invalid %s=%q", key, raw)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
