package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
)

// schema is created idempotently at open. Record position within a
// user's ledger is insertion order (rowid order), which keeps the
// positional addressing of the document store.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	username    TEXT NOT NULL,
	description TEXT NOT NULL,
	amount      TEXT NOT NULL,
	category    TEXT NOT NULL,
	date        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_username ON records(username, id);
`

// SQLiteStore implements both CredentialStore and LedgerStore on a
// single local SQLite database. Amounts are stored as decimal strings
// to avoid float drift.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Register implements CredentialStore.
func (s *SQLiteStore) Register(ctx context.Context, username, password string) (core.Credential, error) {
	cred := core.Credential{Username: username, Password: password}
	if err := cred.Validate(); err != nil {
		return core.Credential{}, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username).Scan(&exists)
	if err != nil {
		return core.Credential{}, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return core.Credential{}, ErrUserExists
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`, username, password); err != nil {
		return core.Credential{}, fmt.Errorf("insert user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "username", username)
	return cred, nil
}

// Authenticate implements CredentialStore.
func (s *SQLiteStore) Authenticate(ctx context.Context, username, password string) (core.Credential, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return core.Credential{}, fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		return core.Credential{}, ErrNoUsers
	}

	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT password FROM users WHERE username = ?`, username).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Credential{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.Credential{}, fmt.Errorf("find user: %w", err)
	}
	if stored != password {
		return core.Credential{}, ErrInvalidCredentials
	}
	return core.Credential{Username: username, Password: password}, nil
}

// Load implements LedgerStore.
func (s *SQLiteStore) Load(ctx context.Context, username string) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT description, amount, category, date FROM records WHERE username = ? ORDER BY id`,
		username)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var rec core.Record
		var amount string
		if err := rows.Scan(&rec.Description, &amount, &rec.Category, &rec.Date); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			// Same policy as the document store: bad stored data reads
			// as an empty ledger, with a warning.
			slog.WarnContext(ctx, "Ledger data corrupt, treating as empty",
				"username", username, "error", err)
			return nil, nil
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Append implements LedgerStore.
func (s *SQLiteStore) Append(ctx context.Context, username string, rec core.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (username, description, amount, category, date) VALUES (?, ?, ?, ?, ?)`,
		username, rec.Description, rec.Amount.String(), string(rec.Category), rec.Date)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// ReplaceAt implements LedgerStore.
func (s *SQLiteStore) ReplaceAt(ctx context.Context, username string, index int, rec core.Record) error {
	id, err := s.idAt(ctx, username, index)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE records SET description = ?, amount = ?, category = ?, date = ? WHERE id = ?`,
		rec.Description, rec.Amount.String(), string(rec.Category), rec.Date, id)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// DeleteAt implements LedgerStore.
func (s *SQLiteStore) DeleteAt(ctx context.Context, username string, index int) error {
	id, err := s.idAt(ctx, username, index)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// idAt resolves a ledger position to a row id.
func (s *SQLiteStore) idAt(ctx context.Context, username string, index int) (int64, error) {
	if index < 0 {
		return 0, ErrIndexOutOfRange
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM records WHERE username = ? ORDER BY id LIMIT 1 OFFSET ?`,
		username, index).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrIndexOutOfRange
	}
	if err != nil {
		return 0, fmt.Errorf("resolve record position: %w", err)
	}
	return id, nil
}
