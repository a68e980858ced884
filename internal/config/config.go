package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	DatabasePath    string
	BcryptCost      int
	SessionTTL      time.Duration // 0 disables session expiry
	SecureCookies   bool
	LogLevel        string
	CleanupSchedule string // cron spec for the maintenance sweeper
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, err
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, err
	}

	secure, err := strconv.ParseBool(getEnv("SECURE_COOKIES", "false"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:      port,
		DatabasePath:    getEnv("DATABASE_PATH", "./quill.db"),
		BcryptCost:      cost,
		SessionTTL:      ttl,
		SecureCookies:   secure,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "@every 15m"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
