// ABOUTME: Configuration loader for the capacity planner service
// ABOUTME: Reads settings from environment variables (and .env) with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, TTL for cached plan responses
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)

	// Engine defaults (overridable per request)
	BottleneckThreshold float64 // utilization ratio above which a resource is a bottleneck

	// Persistence (optional)
	HistoryDBPath string // path to the sqlite history database; empty disables history
	HistoryLimit  int    // max runs returned by the history endpoint
}

// HistoryConfigured returns true when run history persistence is enabled.
func (c *Config) HistoryConfigured() bool {
	return c.HistoryDBPath != ""
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		BottleneckThreshold: getEnvFloat("BOTTLENECK_THRESHOLD", 0.9),

		HistoryDBPath: os.Getenv("HISTORY_DB_PATH"),
		HistoryLimit:  getEnvInt("HISTORY_LIMIT", 50),
	}

	if cfg.BottleneckThreshold <= 0 || cfg.BottleneckThreshold > 1 {
		return nil, fmt.Errorf("BOTTLENECK_THRESHOLD must be in (0, 1], got %g", cfg.BottleneckThreshold)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}
	if cfg.HistoryLimit < 1 || cfg.HistoryLimit > 1000 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be between 1 and 1000, got %d", cfg.HistoryLimit)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
