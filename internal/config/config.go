package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	DatabasePath string
	JWTSecret    string
}

// Load reads configuration from the environment, after loading .env when
// one is present. Real environment variables are never overridden by .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return &Config{
		Addr:         getenv("ADDR", ":3001"),
		DatabasePath: getenv("DATABASE_PATH", "calctree.db"),
		JWTSecret:    getenv("JWT_SECRET", "your-secret-key-change-in-production"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
