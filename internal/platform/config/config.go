// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding variable is unset or malformed.
const (
	DefaultAddr                = ":8080"
	DefaultUrgentThresholdDays = 7
	DefaultRefreshInterval     = time.Hour
	DefaultPageSize            = 10
)

// Config captures everything the enforcement service reads from the
// environment.
type Config struct {
	Addr                string
	DatabaseURL         string
	RedisURL            string
	AdminToken          string
	UrgentThresholdDays int
	RefreshInterval     time.Duration
	PageSize            int
}

// FromEnv reads configuration, falling back to defaults for anything unset.
// Malformed numeric values fall back too rather than aborting startup.
func FromEnv() Config {
	return Config{
		Addr:                envOr("ENFORCEMENT_ADDR", DefaultAddr),
		DatabaseURL:         os.Getenv("ENFORCEMENT_DATABASE_URL"),
		RedisURL:            os.Getenv("ENFORCEMENT_REDIS_URL"),
		AdminToken:          os.Getenv("ENFORCEMENT_ADMIN_TOKEN"),
		UrgentThresholdDays: envInt("ENFORCEMENT_URGENT_THRESHOLD_DAYS", DefaultUrgentThresholdDays),
		RefreshInterval:     envDuration("ENFORCEMENT_REFRESH_INTERVAL", DefaultRefreshInterval),
		PageSize:            envInt("ENFORCEMENT_PAGE_SIZE", DefaultPageSize),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
