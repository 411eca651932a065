package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// Storage backend: "json" (document files) or "sqlite"
	Backend string

	// JSON backend
	DataDir    string
	UsersFile  string
	LedgerFile string

	// SQLite backend
	SQLiteDBPath string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		Backend: getEnv("FINTRACK_BACKEND", "json"),

		DataDir:    getEnv("FINTRACK_DATA_DIR", "./data"),
		UsersFile:  getEnv("FINTRACK_USERS_FILE", "users.json"),
		LedgerFile: getEnv("FINTRACK_LEDGER_FILE", "finances.json"),

		SQLiteDBPath: getEnv("FINTRACK_SQLITE_DB_PATH", "./data/fintrack.db"),

		LogLevel: getEnv("FINTRACK_LOG_LEVEL", "info"),
	}
}

// UsersPath returns the full path of the credential document.
func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}

// LedgerPath returns the full path of the ledger document.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, c.LedgerFile)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	switch c.Backend {
	case "json":
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using json backend")
		}
		if c.UsersFile == "" {
			errors = append(errors, "users file name cannot be empty when using json backend")
		}
		if c.LedgerFile == "" {
			errors = append(errors, "ledger file name cannot be empty when using json backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of [json sqlite]", c.Backend))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
