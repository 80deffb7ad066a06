package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// SMTPConfig carries the outbound mail settings for the contact form.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL       string
	Port              string
	IdentityURL       string
	IdentityAnonKey   string
	IdentityJWTSecret string
	StorageURL        string
	StorageServiceKey string
	StorageBucket     string
	SMTP              SMTPConfig
	RateLimitContact  RateLimitConfig
	UploadTTL         time.Duration
	SweepInterval     time.Duration
	IdempotencyTTL    time.Duration
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              getEnv("PORT", "8080"),
		IdentityURL:       os.Getenv("SUPABASE_URL"),
		IdentityAnonKey:   os.Getenv("SUPABASE_ANON_KEY"),
		IdentityJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		StorageURL:        os.Getenv("SUPABASE_STORAGE_URL"),
		StorageServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "profile-images"),
		SMTP: SMTPConfig{
			Host:     getEnv("MAILHOST", "sv12070.xserver.jp"),
			Port:     parseInt(getEnv("MAILPORT", "465"), 465),
			User:     os.Getenv("MAILUSER"),
			Password: os.Getenv("MAILPASSWORD"),
			To:       getEnv("MAILTO", "info@localabilities.com"),
		},
		UploadTTL:      parseDuration(getEnv("UPLOAD_TTL", "24h"), 24*time.Hour),
		SweepInterval:  parseDuration(getEnv("SWEEP_INTERVAL", "1h"), time.Hour),
		IdempotencyTTL: parseDuration(getEnv("IDEMPOTENCY_TTL", "15m"), 15*time.Minute),
	}

	// Storage shares the identity provider's project URL unless overridden.
	if cfg.StorageURL == "" && cfg.IdentityURL != "" {
		cfg.StorageURL = strings.TrimRight(cfg.IdentityURL, "/") + "/storage/v1"
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_CONTACT", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_CONTACT value: %w", err)
	}
	cfg.RateLimitContact = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseInt(input string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return value
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}
