package config

import (
	"os"
	"time"

	"parkdesk-service/internal/pkg/token"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// Access tokens
	Token token.Config
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		Token: token.Config{
			Secret:   getEnv("TOKEN_SECRET", ""),
			Issuer:   "parkdesk",
			Audience: "parkdesk-operators",
			TTL:      12 * time.Hour,
		},
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
