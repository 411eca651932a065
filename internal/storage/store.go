// Package storage persists credentials and per-user ledgers.
//
// Two implementations exist: the default JSON document stores (one file
// for all credentials, one for all ledgers) and a SQLite store. Both
// keep the same contract: ledgers are ordered, records are addressed by
// position, and a missing or unreadable store reads as empty rather
// than failing.
package storage

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrNoUsers            = errors.New("no users registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrIndexOutOfRange    = errors.New("record index out of range")
)

// CredentialStore holds the username to password mapping.
type CredentialStore interface {
	// Register inserts a new credential and persists the full mapping.
	// Returns ErrUserExists when the username is taken.
	Register(ctx context.Context, username, password string) (core.Credential, error)

	// Authenticate succeeds only on an exact match of both fields.
	// Returns ErrNoUsers when no users are registered at all and
	// ErrInvalidCredentials on any mismatch.
	Authenticate(ctx context.Context, username, password string) (core.Credential, error)
}

// LedgerStore holds each user's ordered record list. Records have no
// ids: mutations address positions, and insert/delete shift later
// positions, so callers must reload before using an index.
type LedgerStore interface {
	// Load returns the user's records in order. A missing store, a
	// missing user or a corrupt document all read as an empty ledger;
	// corruption is logged, never returned.
	Load(ctx context.Context, username string) ([]core.Record, error)

	// Append adds the record at the end and persists immediately.
	Append(ctx context.Context, username string, rec core.Record) error

	// ReplaceAt overwrites the record at index.
	// Returns ErrIndexOutOfRange when index is not in [0, len).
	ReplaceAt(ctx context.Context, username string, index int, rec core.Record) error

	// DeleteAt removes the record at index, shifting later records
	// down. Returns ErrIndexOutOfRange when index is not in [0, len).
	DeleteAt(ctx context.Context, username string, index int) error
}
