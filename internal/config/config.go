// Package config loads service configuration from the environment
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Persistence backend names accepted by STRINGSTORE_PERSIST
const (
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
	BackendJournal = "journal"
	BackendNone    = "none"
)

// Config holds all service configuration
type Config struct {
	Addr     string // API listen address
	ObsAddr  string // observability (metrics/pprof) listen address
	Persist  string // persistence backend
	DataPath string // snapshot/database/journal path
	Compress bool   // zstd-compress file snapshots

	LogLevel  string
	LogPretty bool

	RateLimit float64 // requests per second, 0 disables limiting
	RateBurst int
}

// Load builds configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:      envOr("STRINGSTORE_ADDR", ":8080"),
		ObsAddr:   envOr("STRINGSTORE_OBS_ADDR", ":9090"),
		Persist:   envOr("STRINGSTORE_PERSIST", BackendFile),
		DataPath:  envOr("STRINGSTORE_DATA", "strings_store.json"),
		LogLevel:  envOr("STRINGSTORE_LOG_LEVEL", "info"),
		LogPretty: os.Getenv("STRINGSTORE_LOG_PRETTY") == "true",
		Compress:  os.Getenv("STRINGSTORE_COMPRESS") == "true",
	}

	switch cfg.Persist {
	case BackendFile, BackendSQLite, BackendJournal, BackendNone:
	default:
		return nil, fmt.Errorf("config: unknown persistence backend %q", cfg.Persist)
	}

	if v := os.Getenv("STRINGSTORE_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("config: invalid STRINGSTORE_RATE_LIMIT %q", v)
		}
		cfg.RateLimit = limit
	}

	cfg.RateBurst = int(cfg.RateLimit)
	if v := os.Getenv("STRINGSTORE_RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 0 {
			return nil, fmt.Errorf("config: invalid STRINGSTORE_RATE_BURST %q", v)
		}
		cfg.RateBurst = burst
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
