// Package backend selects and wires a storage implementation.
package backend

import (
	"fintrack/internal/config"
	"fintrack/internal/storage"
)

// Type represents the storage backend type
type Type string

const (
	JSONBackend   Type = "json"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case JSONBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources; may be nil.
type CleanupFunc func() error

// Result bundles the stores a backend provides with its cleanup.
type Result struct {
	Credentials storage.CredentialStore
	Ledgers     storage.LedgerStore
	Cleanup     CleanupFunc
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// JSON backend
	UsersPath  string
	LedgerPath string

	// SQLite backend
	SQLiteDBPath string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) Config {
	return Config{
		Type:         Type(appConfig.Backend),
		UsersPath:    appConfig.UsersPath(),
		LedgerPath:   appConfig.LedgerPath(),
		SQLiteDBPath: appConfig.SQLiteDBPath,
	}
}
