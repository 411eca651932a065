package backend

import (
	"fmt"

	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// Factory creates storage backends based on configuration
type Factory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Open creates the stores for the configured backend type.
func (f *Factory) Open(cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case JSONBackend:
		return f.openJSON(cfg)
	case SQLiteBackend:
		return f.openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) openJSON(cfg Config) (*Result, error) {
	creds, err := storage.NewCredentialDocument(cfg.UsersPath)
	if err != nil {
		return nil, fmt.Errorf("initialize credential document: %w", err)
	}
	ledgers, err := storage.NewLedgerDocument(cfg.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("initialize ledger document: %w", err)
	}

	f.logger.Info("Initialized JSON document backend",
		log.FieldPath, cfg.LedgerPath)

	return &Result{Credentials: creds, Ledgers: ledgers}, nil
}

func (f *Factory) openSQLite(cfg Config) (*Result, error) {
	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		log.FieldPath, cfg.SQLiteDBPath)

	return &Result{Credentials: store, Ledgers: store, Cleanup: store.Close}, nil
}
