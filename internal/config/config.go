// Package config loads run defaults from the environment and an optional
// .env file, mirroring the teacher's environment-first, .env-as-supplement
// load order. Explicit CLI flags always override these defaults.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the defaults a CLI invocation falls back to when a flag is
// not explicitly set.
type Config struct {
	ReferenceCurrency string // default reference currency (ISO 4217)
	NumSimulations    int    // default Monte-Carlo path count
	LogLevel          string // zerolog level name
	NumWorkers        int    // 0 selects runtime.GOMAXPROCS(0)
}

// Load reads a .env file if present, then environment variables, applying
// a fixed default for anything left unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ReferenceCurrency: getEnv("IRC_REFERENCE_CURRENCY", "USD"),
		NumSimulations:    getEnvAsInt("IRC_NUM_SIMULATIONS", 100_000),
		LogLevel:          getEnv("IRC_LOG_LEVEL", "info"),
		NumWorkers:        getEnvAsInt("IRC_NUM_WORKERS", 0),
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
