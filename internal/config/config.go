// Package config reads server configuration from the environment.
//
// A .env file in the working directory is loaded first when present; real
// environment variables always win over it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Atharva7126/community-dashboard/internal/auth"
	"github.com/Atharva7126/community-dashboard/internal/service"
)

// Config holds every setting of the dashboard server.
type Config struct {
	Port     int
	DBPath   string
	LogLevel slog.Level

	// RedisURL enables the summary cache, e.g. redis://localhost:6379/0.
	RedisURL   string
	SummaryTTL time.Duration

	// JWTSecret enables maintainer login. Without it the dashboard is read-only.
	JWTSecret string
	TokenTTL  time.Duration

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
	MaintainerLogins   []string

	AdminUsername     string
	AdminPasswordHash string
}

// AuthEnabled reports whether maintainer routes should be registered.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// GitHubEnabled reports whether the GitHub OAuth routes should be registered.
func (c *Config) GitHubEnabled() bool {
	return c.AuthEnabled() && c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Load reads .env (if any) and then the environment.
func Load() (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var err error
	cfg := &Config{
		DBPath:             getEnv("DB_PATH", "data/dashboard.db"),
		RedisURL:           os.Getenv("REDIS_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		MaintainerLogins:   splitList(os.Getenv("MAINTAINER_LOGINS")),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash:  os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	if cfg.Port, err = strconv.Atoi(getEnv("PORT", "8080")); err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}

	if cfg.LogLevel, err = ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}

	if cfg.SummaryTTL, err = parseDuration("SUMMARY_CACHE_TTL", service.DefaultSummaryTTL.String()); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = parseDuration("TOKEN_TTL", auth.DefaultTokenTTL.String()); err != nil {
		return nil, err
	}

	cfg.GitHubCallbackURL = getEnv("GITHUB_CALLBACK_URL",
		fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port))

	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < auth.MinSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", auth.MinSecretLength)
	}

	return cfg, nil
}

// ParseLevel maps debug/info/warn/error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, os.Getenv(key))
	}
	return d, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
