// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings for the estatecore server.
type Config struct {
	// StorageDriver selects the persistence backend: memory, sqlite, or
	// postgres. Defaults to sqlite.
	StorageDriver string
	// SQLitePath is the sqlite database file when StorageDriver is sqlite.
	SQLitePath string
	// PostgresDSN is the connection string when StorageDriver is postgres.
	PostgresDSN string
	// ListenAddr is the HTTP bind address.
	ListenAddr string
	// QueueSize bounds the notification dispatch queue.
	QueueSize int
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
//
//	ESTATECORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	ESTATECORE_SQLITE_PATH: sqlite file path (default ./estatecore.db)
//	ESTATECORE_POSTGRES_DSN: postgres DSN when driver=postgres
//	ESTATECORE_LISTEN_ADDR: HTTP bind address (default :8080)
//	ESTATECORE_QUEUE_SIZE: notification queue depth (default 64)
//	ESTATECORE_LOG_LEVEL: debug|info|warn|error (default info)
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		StorageDriver: envOr("ESTATECORE_STORAGE_DRIVER", "sqlite"),
		SQLitePath:    envOr("ESTATECORE_SQLITE_PATH", "estatecore.db"),
		PostgresDSN:   os.Getenv("ESTATECORE_POSTGRES_DSN"),
		ListenAddr:    envOr("ESTATECORE_LISTEN_ADDR", ":8080"),
		QueueSize:     64,
		LogLevel:      envOr("ESTATECORE_LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("ESTATECORE_QUEUE_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return Config{}, fmt.Errorf("invalid ESTATECORE_QUEUE_SIZE %q", raw)
		}
		cfg.QueueSize = size
	}

	switch cfg.StorageDriver {
	case "memory", "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid ESTATECORE_STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
