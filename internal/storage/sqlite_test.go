package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteCredentials(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	_, err := s.Authenticate(ctx, "alice", "pw1")
	assert.ErrorIs(t, err, ErrNoUsers)

	_, err = s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrUserExists)

	cred, err := s.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", cred.Username)

	_, err = s.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "bob", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSQLiteLedgerPositionalOps(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	for _, r := range []core.Record{
		rec("salary", "1000", core.Income, "2025-01-02"),
		rec("rent", "-400", core.Expense, "2025-01-03"),
		rec("books", "-25.5", core.Expense, "2025-01-10"),
	} {
		require.NoError(t, s.Append(ctx, "alice", r))
	}
	require.NoError(t, s.Append(ctx, "bob", rec("coffee", "-3", core.Expense, "2025-01-04")))

	got, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "salary", got[0].Description)
	assert.True(t, got[2].Amount.Equal(decimal.RequireFromString("-25.5")))

	require.NoError(t, s.ReplaceAt(ctx, "alice", 1, rec("rent", "-450", core.Expense, "2025-01-03")))
	require.NoError(t, s.DeleteAt(ctx, "alice", 0))

	got, err = s.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "rent", got[0].Description)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("-450")))
	assert.Equal(t, "books", got[1].Description)

	assert.ErrorIs(t, s.DeleteAt(ctx, "alice", 2), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.ReplaceAt(ctx, "alice", -1, got[0]), ErrIndexOutOfRange)

	// Bob's ledger is untouched by alice's mutations.
	other, err := s.Load(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "coffee", other[0].Description)
}

func TestSQLiteLoadUnknownUser(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	got, err := s.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}
