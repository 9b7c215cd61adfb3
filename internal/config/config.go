package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection: json (default), sqlite, memory
	DataBackend string

	// JSON document store
	DataDir string

	// SQLite store
	SQLiteDBPath string

	// Debounced persistence
	DebounceQuiet time.Duration

	// Narration marker identifying fee remittances among generic
	// bank transactions; reconciliation requests may override it.
	NarrationMarker string

	// Derived-view cache
	SummaryCacheTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string // text | tint
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8082"),
		DataBackend:     getEnv("DATA_BACKEND", "json"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/billtracker.db"),
		DebounceQuiet:   getEnvDuration("DEBOUNCE_QUIET", 450*time.Millisecond),
		NarrationMarker: getEnv("NARRATION_MARKER", ""),
		SummaryCacheTTL: getEnvDuration("SUMMARY_CACHE_TTL", 5*time.Minute),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "json", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [json sqlite memory]", c.DataBackend))
	}

	if c.DataBackend == "json" && c.DataDir == "" {
		errs = append(errs, "data directory cannot be empty when using json backend")
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.DebounceQuiet <= 0 {
		errs = append(errs, "debounce quiet interval must be positive")
	}

	switch c.LogFormat {
	case "text", "tint":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text or tint", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
