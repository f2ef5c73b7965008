package testutils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"aghast/config"
	"aghast/core"
)

// LoadTestConfig loads configuration for DB-backed tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test") // From package directories
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// UniqueChannelID generates a snowflake-shaped channel ID unique per test run
// so concurrent test packages cannot collide on the unique constraints.
func UniqueChannelID() string {
	return "chan-" + core.NewID("t")
}

// UniqueMessageID generates a snowflake-shaped message ID unique per test run
func UniqueMessageID() string {
	return "msg-" + core.NewID("t")
}
