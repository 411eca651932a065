package session

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func newStores(t *testing.T) (*storage.CredentialDocument, *storage.LedgerDocument) {
	t.Helper()
	dir := t.TempDir()
	creds, err := storage.NewCredentialDocument(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	ledgers, err := storage.NewLedgerDocument(filepath.Join(dir, "finances.json"))
	require.NoError(t, err)
	return creds, ledgers
}

func run(t *testing.T, creds *storage.CredentialDocument, ledgers *storage.LedgerDocument, lines ...string) string {
	t.Helper()
	input := strings.Join(lines, "\n") + "\n"
	var out bytes.Buffer
	c := New(strings.NewReader(input), &out, creds, ledgers, nil)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestFullScenario(t *testing.T) {
	creds, ledgers := newStores(t)

	out := run(t, creds, ledgers,
		"1", "alice", "pw1", // register, session established
		"1", "salary", "1000", "1", // add income
		"1", "rent", "400", "2", // add expense, sign flipped
		"5",      // totals
		"6",      // distribution
		"2",      // view report
		"3", "1", // delete record 1 (salary)
		"8",                 // logout
		"2", "alice", "pw1", // login again
		"8", // logout
		"3", // exit
	)

	assert.Contains(t, out, "User 'alice' registered successfully!")
	assert.Contains(t, out, "Finance record added successfully.")
	assert.Contains(t, out, "Total Income: 1000")
	assert.Contains(t, out, "Total Expenses: -400")
	assert.Contains(t, out, "Remaining Balance: 600")
	assert.Contains(t, out, "Spending Distribution by Category")
	assert.Contains(t, out, "Finance Report")
	assert.Contains(t, out, "Record deleted successfully!")
	assert.Contains(t, out, "Login successful! Welcome, alice.")
	assert.Contains(t, out, "See you next time.")

	// Deleting record 1 removed salary; rent (stored negative) remains.
	recs, err := ledgers.Load(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "rent", recs[0].Description)
	assert.True(t, recs[0].Amount.Equal(decimal.NewFromInt(-400)))
	assert.Equal(t, core.Expense, recs[0].Category)
}

func TestUnknownCategoryNeverPersisted(t *testing.T) {
	creds, ledgers := newStores(t)

	out := run(t, creds, ledgers,
		"1", "alice", "pw1",
		"1", "mystery", "50", "9", // bad category selector
		"8",
		"3",
	)

	assert.Contains(t, out, "Invalid category selected.")
	recs, err := ledgers.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLoginFailures(t *testing.T) {
	creds, ledgers := newStores(t)

	out := run(t, creds, ledgers,
		"2", "alice", "pw1", // nobody registered yet
		"1", "alice", "pw1",
		"8",
		"2", "alice", "wrong",
		"3",
	)

	assert.Contains(t, out, "No users found. Please register first.")
	assert.Contains(t, out, "Invalid username or password. Please try again.")
}

func TestDeleteBadIndex(t *testing.T) {
	creds, ledgers := newStores(t)

	out := run(t, creds, ledgers,
		"1", "alice", "pw1",
		"1", "salary", "1000", "1",
		"3", "5", // index out of range
		"3", "x", // not a number
		"8",
		"3",
	)

	assert.Contains(t, out, "Invalid record number.")
	recs, err := ledgers.Load(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestUpdateRecord(t *testing.T) {
	creds, ledgers := newStores(t)

	run(t, creds, ledgers,
		"1", "alice", "pw1",
		"1", "salary", "1000", "1",
		"4", "1", "bonus", "250", "1",
		"8",
		"3",
	)

	recs, err := ledgers.Load(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "bonus", recs[0].Description)
	assert.True(t, recs[0].Amount.Equal(decimal.NewFromInt(250)))
}

func TestEmptyLedgerReports(t *testing.T) {
	creds, ledgers := newStores(t)

	out := run(t, creds, ledgers,
		"1", "alice", "pw1",
		"2", "5", "6", "7", "3",
		"8",
		"3",
	)

	assert.Contains(t, out, "No records available to generate a report.")
	assert.Contains(t, out, "No records available to calculate totals.")
	assert.Contains(t, out, "No records available to display distribution.")
	assert.Contains(t, out, "No records available to display trends.")
	assert.Contains(t, out, "No records available.")
}

func TestEndOfInputExitsCleanly(t *testing.T) {
	creds, ledgers := newStores(t)

	// Input ends mid-prompt: Run returns nil, no panic.
	out := run(t, creds, ledgers, "1", "alice")
	assert.Contains(t, out, "Enter a new password: ")
}
