package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"perfectapi/internal/repository/sqlite"
	"perfectapi/internal/store"
)

// newTestDeps builds an empty store and a migrated SQLite audit repository in
// a temp directory.
func newTestDeps(t *testing.T) (*store.Store, *sqlite.AuditRepository) {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(), db.AuditLogs()
}
