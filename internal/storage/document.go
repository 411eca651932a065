package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// wireRecord is the on-disk shape of a ledger entry. Decoding is
// strict: all four fields must be present with the right types, so a
// hand-edited document either round-trips cleanly or reads as corrupt.
type wireRecord struct {
	Des      string      `json:"des"`
	Amt      json.Number `json:"amt"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

func (w *wireRecord) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	fields := map[string]any{
		"des":      &w.Des,
		"amt":      &w.Amt,
		"category": &w.Category,
		"date":     &w.Date,
	}
	for name, dst := range fields {
		v, ok := raw[name]
		if !ok {
			return fmt.Errorf("record missing field %q", name)
		}
		// encoding/json leaves the target untouched on a null literal
		// and accepts a quoted string into json.Number; both are
		// mismatched types here and must read as corrupt.
		if string(v) == "null" {
			return fmt.Errorf("record field %q: null", name)
		}
		if name == "amt" && v[0] == '"' {
			return fmt.Errorf("record field %q: string is not a number", name)
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("record field %q: %w", name, err)
		}
	}
	return nil
}

func (w wireRecord) toRecord() (core.Record, error) {
	amt, err := decimal.NewFromString(w.Amt.String())
	if err != nil {
		return core.Record{}, fmt.Errorf("record amount %q: %w", w.Amt, err)
	}
	return core.Record{
		Description: w.Des,
		Amount:      amt,
		Category:    core.Category(w.Category),
		Date:        w.Date,
	}, nil
}

func fromRecord(r core.Record) wireRecord {
	return wireRecord{
		Des:      r.Description,
		Amt:      json.Number(r.Amount.String()),
		Category: string(r.Category),
		Date:     r.Date,
	}
}

// CredentialDocument persists the username to password mapping as a
// single JSON object, rewritten wholesale on every registration.
// Passwords are stored in plaintext; hardening the credential file is
// out of scope for a single-user local tool.
type CredentialDocument struct {
	mu   sync.Mutex
	path string
}

func NewCredentialDocument(path string) (*CredentialDocument, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &CredentialDocument{path: path}, nil
}

// Register implements CredentialStore.
func (s *CredentialDocument) Register(ctx context.Context, username, password string) (core.Credential, error) {
	cred := core.Credential{Username: username, Password: password}
	if err := cred.Validate(); err != nil {
		return core.Credential{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.readUsers(ctx)
	if _, ok := users[username]; ok {
		return core.Credential{}, ErrUserExists
	}
	users[username] = password
	if err := writeJSON(s.path, users); err != nil {
		return core.Credential{}, fmt.Errorf("write credential document: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "username", username, "path", s.path)
	return cred, nil
}

// Authenticate implements CredentialStore.
func (s *CredentialDocument) Authenticate(ctx context.Context, username, password string) (core.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.readUsers(ctx)
	if len(users) == 0 {
		return core.Credential{}, ErrNoUsers
	}
	stored, ok := users[username]
	if !ok || stored != password {
		return core.Credential{}, ErrInvalidCredentials
	}
	return core.Credential{Username: username, Password: password}, nil
}

// readUsers reads the credential document, treating a missing or
// corrupt file as an empty mapping.
func (s *CredentialDocument) readUsers(ctx context.Context) map[string]string {
	users := map[string]string{}
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return users
	}
	if err != nil {
		slog.WarnContext(ctx, "Credential document unreadable, treating as empty", "path", s.path, "error", err)
		return users
	}
	if err := json.Unmarshal(b, &users); err != nil {
		slog.WarnContext(ctx, "Credential document corrupt, treating as empty", "path", s.path, "error", err)
		return map[string]string{}
	}
	return users
}

// LedgerDocument persists every user's ledger in one JSON object
// mapping username to an array of records. Each mutation re-reads the
// whole document, swaps the target user's array and rewrites the file:
// O(total records) per call, which is fine at single-user scale, and
// there is never a partially written record. The mutex closes the
// in-process race window only; concurrent processes are unsupported.
type LedgerDocument struct {
	mu   sync.Mutex
	path string
}

func NewLedgerDocument(path string) (*LedgerDocument, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &LedgerDocument{path: path}, nil
}

// Load implements LedgerStore.
func (s *LedgerDocument) Load(ctx context.Context, username string) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.readDocument(ctx)
	return s.decodeUser(ctx, doc, username), nil
}

// Append implements LedgerStore.
func (s *LedgerDocument) Append(ctx context.Context, username string, rec core.Record) error {
	return s.mutate(ctx, username, func(records []wireRecord) ([]wireRecord, error) {
		return append(records, fromRecord(rec)), nil
	})
}

// ReplaceAt implements LedgerStore.
func (s *LedgerDocument) ReplaceAt(ctx context.Context, username string, index int, rec core.Record) error {
	return s.mutate(ctx, username, func(records []wireRecord) ([]wireRecord, error) {
		if index < 0 || index >= len(records) {
			return nil, ErrIndexOutOfRange
		}
		records[index] = fromRecord(rec)
		return records, nil
	})
}

// DeleteAt implements LedgerStore.
func (s *LedgerDocument) DeleteAt(ctx context.Context, username string, index int) error {
	return s.mutate(ctx, username, func(records []wireRecord) ([]wireRecord, error) {
		if index < 0 || index >= len(records) {
			return nil, ErrIndexOutOfRange
		}
		return append(records[:index], records[index+1:]...), nil
	})
}

// mutate runs the whole-document read-modify-write cycle: only the
// target user's array is replaced, every other user's is copied
// through unchanged.
func (s *LedgerDocument) mutate(ctx context.Context, username string, apply func([]wireRecord) ([]wireRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.readDocument(ctx)
	updated, err := apply(doc[username])
	if err != nil {
		return err
	}
	if updated == nil {
		updated = []wireRecord{}
	}
	doc[username] = updated
	if err := writeJSON(s.path, doc); err != nil {
		return fmt.Errorf("write ledger document: %w", err)
	}
	return nil
}

// readDocument reads the full multi-user document. Missing file reads
// as empty; any decode failure (including one malformed record) marks
// the document corrupt, which also reads as empty with a warning.
func (s *LedgerDocument) readDocument(ctx context.Context) map[string][]wireRecord {
	doc := map[string][]wireRecord{}
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc
	}
	if err != nil {
		slog.WarnContext(ctx, "Ledger document unreadable, treating as empty", "path", s.path, "error", err)
		return doc
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		slog.WarnContext(ctx, "Ledger document corrupt, treating as empty", "path", s.path, "error", err)
		return map[string][]wireRecord{}
	}
	return doc
}

func (s *LedgerDocument) decodeUser(ctx context.Context, doc map[string][]wireRecord, username string) []core.Record {
	wires := doc[username]
	records := make([]core.Record, 0, len(wires))
	for i, w := range wires {
		rec, err := w.toRecord()
		if err != nil {
			slog.WarnContext(ctx, "Ledger document corrupt, treating as empty",
				"path", s.path, "username", username, "record_index", i, "error", err)
			return nil
		}
		records = append(records, rec)
	}
	return records
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
