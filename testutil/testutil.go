// Package testutil provides test utilities for addinterwiki tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/danielledeleo/addinterwiki/internal/storage"
	"github.com/danielledeleo/addinterwiki/interwiki"
	"github.com/jmoiron/sqlx"
)

// SetupTestDB creates an in-memory SQLite database with the schema loaded
// and returns the store built on it.
func SetupTestDB(t *testing.T) (*storage.Store, *sqlx.DB) {
	t.Helper()

	conn, err := storage.Open(storage.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	// Every new connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := storage.RunMigrations(conn, storage.DialectSQLite); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	store, err := storage.Init(conn, storage.DialectSQLite)
	if err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store, conn
}

// GetEntry reads the full interwiki row for prefix, failing the test if it
// does not exist.
func GetEntry(t *testing.T, conn *sqlx.DB, prefix string) *interwiki.Entry {
	t.Helper()

	entry := &interwiki.Entry{}
	err := conn.Get(entry, `SELECT iw_prefix, iw_url, iw_api, iw_wikiid, iw_local, iw_trans
		FROM interwiki WHERE iw_prefix = ?`, prefix)
	if err != nil {
		t.Fatalf("failed to read interwiki row %q: %v", prefix, err)
	}
	return entry
}

// CountEntries returns the number of rows in the interwiki table.
func CountEntries(t *testing.T, conn *sqlx.DB) int {
	t.Helper()

	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM interwiki`); err != nil {
		t.Fatalf("failed to count interwiki rows: %v", err)
	}
	return n
}

// FakeRepository is an in-memory interwiki.Repository that counts calls and
// can be told to fail.
type FakeRepository struct {
	mu      sync.Mutex
	Entries map[string]interwiki.Entry

	Reads  int
	Writes int

	// Err, when set, is returned by every call.
	Err error

	// HidePriorState makes ReplaceInterwiki answer PriorUnknown, the way
	// SQLite's INSERT OR REPLACE does.
	HidePriorState bool
}

// NewFakeRepository returns a FakeRepository holding the given entries.
func NewFakeRepository(entries ...interwiki.Entry) *FakeRepository {
	f := &FakeRepository{Entries: make(map[string]interwiki.Entry)}
	for _, e := range entries {
		f.Entries[e.Prefix] = e
	}
	return f
}

func (f *FakeRepository) SelectInterwikiURL(ctx context.Context, prefix string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Reads++
	if f.Err != nil {
		return "", f.Err
	}
	e, ok := f.Entries[prefix]
	if !ok {
		return "", interwiki.ErrPrefixNotFound
	}
	return e.URL, nil
}

func (f *FakeRepository) InsertInterwiki(ctx context.Context, entry *interwiki.Entry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Writes++
	if f.Err != nil {
		return false, f.Err
	}
	if _, ok := f.Entries[entry.Prefix]; ok {
		return false, nil
	}
	f.Entries[entry.Prefix] = *entry
	return true, nil
}

func (f *FakeRepository) ReplaceInterwiki(ctx context.Context, entry *interwiki.Entry) (interwiki.PriorState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Writes++
	if f.Err != nil {
		return interwiki.PriorUnknown, f.Err
	}
	_, existed := f.Entries[entry.Prefix]
	f.Entries[entry.Prefix] = *entry

	switch {
	case f.HidePriorState:
		return interwiki.PriorUnknown, nil
	case existed:
		return interwiki.PriorExisted, nil
	}
	return interwiki.PriorAbsent, nil
}
