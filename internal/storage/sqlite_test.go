package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danielledeleo/addinterwiki/interwiki"
)

// setupTestDB creates a migrated in-memory SQLite store for testing.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	conn := openMemDB(t)
	if err := RunMigrations(conn, DialectSQLite); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	store, err := Init(conn, DialectSQLite)
	if err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store
}

func TestSelectInterwikiURLNotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.SelectInterwikiURL(context.Background(), "missing")
	if !errors.Is(err, interwiki.ErrPrefixNotFound) {
		t.Fatalf("expected ErrPrefixNotFound, got %v", err)
	}
}

func TestInsertInterwiki(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	inserted, err := store.InsertInterwiki(ctx, interwiki.NewEntry("rfc", "https://rfc.example/$1"))
	if err != nil {
		t.Fatalf("InsertInterwiki failed: %v", err)
	}
	if !inserted {
		t.Error("expected first insert to report a new row")
	}

	inserted, err = store.InsertInterwiki(ctx, interwiki.NewEntry("rfc", "https://other.example/$1"))
	if err != nil {
		t.Fatalf("duplicate InsertInterwiki failed: %v", err)
	}
	if inserted {
		t.Error("expected duplicate insert to be ignored")
	}

	url, err := store.SelectInterwikiURL(ctx, "rfc")
	if err != nil {
		t.Fatalf("SelectInterwikiURL failed: %v", err)
	}
	if url != "https://rfc.example/$1" {
		t.Errorf("expected original URL to survive, got %q", url)
	}
}

func TestReplaceInterwiki(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	if _, err := store.conn.Exec(`INSERT INTO interwiki (iw_prefix, iw_url, iw_api, iw_wikiid, iw_local, iw_trans)
		VALUES ('pmid', 'https://old.example/$1', 'https://old.example/api.php', 'oldwiki', 1, 1)`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	prior, err := store.ReplaceInterwiki(ctx, interwiki.NewEntry("pmid", "https://new.example/$1"))
	if err != nil {
		t.Fatalf("ReplaceInterwiki failed: %v", err)
	}
	if prior != interwiki.PriorUnknown {
		t.Errorf("SQLite cannot tell a replace from an insert, got prior state %v", prior)
	}

	got := &interwiki.Entry{}
	if err := store.conn.Get(got, `SELECT iw_prefix, iw_url, iw_api, iw_wikiid, iw_local, iw_trans FROM interwiki WHERE iw_prefix = 'pmid'`); err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := interwiki.Entry{Prefix: "pmid", URL: "https://new.example/$1"}
	if *got != want {
		t.Errorf("row = %+v, want %+v", *got, want)
	}

	// Replacing twice leaves a single identical row.
	if _, err := store.ReplaceInterwiki(ctx, interwiki.NewEntry("pmid", "https://new.example/$1")); err != nil {
		t.Fatalf("second ReplaceInterwiki failed: %v", err)
	}
	var n int
	if err := store.conn.Get(&n, `SELECT COUNT(*) FROM interwiki`); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
}

func TestPrefixIsCaseSensitive(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	if _, err := store.InsertInterwiki(ctx, interwiki.NewEntry("RFC", "https://upper.example/$1")); err != nil {
		t.Fatalf("InsertInterwiki failed: %v", err)
	}
	inserted, err := store.InsertInterwiki(ctx, interwiki.NewEntry("rfc", "https://lower.example/$1"))
	if err != nil {
		t.Fatalf("InsertInterwiki failed: %v", err)
	}
	if !inserted {
		t.Error("expected lower-case prefix to be a separate row")
	}
}

func TestUpdateLog(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	applied, err := store.UpdateApplied(ctx, "AddInterwiki:rfc")
	if err != nil {
		t.Fatalf("UpdateApplied failed: %v", err)
	}
	if applied {
		t.Error("expected update not to be applied yet")
	}

	for i := 0; i < 2; i++ {
		if err := store.MarkUpdateApplied(ctx, "AddInterwiki:rfc", "https://rfc.example/$1"); err != nil {
			t.Fatalf("MarkUpdateApplied failed: %v", err)
		}
	}

	applied, err = store.UpdateApplied(ctx, "AddInterwiki:rfc")
	if err != nil {
		t.Fatalf("UpdateApplied failed: %v", err)
	}
	if !applied {
		t.Error("expected update to be applied")
	}
}

func TestStoreErrorsAfterClose(t *testing.T) {
	store := setupTestDB(t)
	store.Close()

	_, err := store.SelectInterwikiURL(context.Background(), "rfc")
	if err == nil || errors.Is(err, interwiki.ErrPrefixNotFound) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !strings.Contains(err.Error(), `"rfc"`) {
		t.Errorf("expected error to name the prefix, got %v", err)
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"sqlite", DialectSQLite, false},
		{"sqlite3", DialectSQLite, false},
		{"mysql", DialectMySQL, false},
		{"mariadb", DialectMySQL, false},
		{"postgres", DialectPostgres, false},
		{"pgx", DialectPostgres, false},
		{"oracle", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDialect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDialect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildStatements(t *testing.T) {
	tests := []struct {
		dialect     Dialect
		insert      string
		replace     string
		placeholder string
	}{
		{DialectSQLite, "INSERT OR IGNORE INTO interwiki", "INSERT OR REPLACE INTO interwiki", "?"},
		{DialectMySQL, "INSERT IGNORE INTO interwiki", "REPLACE INTO interwiki", "?"},
		{DialectPostgres, "ON CONFLICT (iw_prefix) DO NOTHING", "ON CONFLICT (iw_prefix) DO UPDATE SET", "$6"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			stmts := BuildStatements(tt.dialect)
			if !strings.Contains(stmts.InsertInterwiki, tt.insert) {
				t.Errorf("insert statement %q does not contain %q", stmts.InsertInterwiki, tt.insert)
			}
			if !strings.Contains(stmts.ReplaceInterwiki, tt.replace) {
				t.Errorf("replace statement %q does not contain %q", stmts.ReplaceInterwiki, tt.replace)
			}
			if !strings.Contains(stmts.ReplaceInterwiki, tt.placeholder) {
				t.Errorf("replace statement %q missing placeholder %q", stmts.ReplaceInterwiki, tt.placeholder)
			}
			if tt.dialect == DialectPostgres && strings.Contains(stmts.SelectInterwikiURL, "?") {
				t.Errorf("select statement not rebound: %q", stmts.SelectInterwikiURL)
			}
			returning := strings.Contains(stmts.ReplaceInterwiki, "RETURNING (xmax = 0)")
			if returning != (tt.dialect == DialectPostgres) {
				t.Errorf("replace statement %q: RETURNING present = %v", stmts.ReplaceInterwiki, returning)
			}
		})
	}
}

func TestPriorFromReplaceCount(t *testing.T) {
	tests := []struct {
		n    int64
		want interwiki.PriorState
	}{
		{0, interwiki.PriorUnknown},
		{1, interwiki.PriorAbsent},
		{2, interwiki.PriorExisted},
	}

	for _, tt := range tests {
		if got := priorFromReplaceCount(tt.n); got != tt.want {
			t.Errorf("priorFromReplaceCount(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
