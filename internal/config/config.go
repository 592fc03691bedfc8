// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs session tokens. Must be set outside development.
	JWTSecret string

	// TokenTTL is how long session tokens stay valid.
	TokenTTL time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present (ignored if missing).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:      getEnv("ADDR", ":8080"),
		DBPath:    getEnv("DB_PATH", "./data/confdesk.db"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  24 * time.Hour,
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOKEN_TTL %q: %w", ttl, err)
		}
		cfg.TokenTTL = d
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
