package database

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLiteAppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finzo.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	v, err := schemaVersion(db)
	if err != nil {
		t.Fatalf("schemaVersion: %v", err)
	}
	if v != len(migrations) {
		t.Fatalf("expected version %d got %d", len(migrations), v)
	}
	db.Close()

	// Reopening must not re-run migrations.
	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var rows int
	if err := db.Get(&rows, "SELECT COUNT(*) FROM schema_version"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != len(migrations) {
		t.Fatalf("expected %d schema_version rows got %d", len(migrations), rows)
	}
}
