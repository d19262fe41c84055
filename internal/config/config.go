package config

import (
	"os"
	"strconv"

	"goanova/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds database connection settings. Persistence is
// optional: with no URL configured, runs are not stored.
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AnalysisConfig holds defaults applied when a request does not specify them
type AnalysisConfig struct {
	Alpha float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:    envOr("PORT", "8080"),
			GinMode: envOr("GIN_MODE", "release"),
		},
		Analysis: AnalysisConfig{
			Alpha: 0.05,
		},
	}
	cfg.Database.Enabled = cfg.Database.URL != ""

	if raw := os.Getenv("ANALYSIS_ALPHA"); raw != "" {
		alpha, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("ANALYSIS_ALPHA must be a float")
		}
		if alpha <= 0 || alpha >= 1 {
			return nil, errors.ConfigInvalid("ANALYSIS_ALPHA must be in (0, 1)")
		}
		cfg.Analysis.Alpha = alpha
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
