package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"perfectapi/internal/domain"
	"perfectapi/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestAuditRepository_RecordAndList(t *testing.T) {
	repo := newTestDB(t).AuditLogs()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	entries := []domain.AuditEntry{
		{Action: "user.created", EntityKind: "user", EntityID: "u-1", Actor: "admin", Summary: "created", PerformedAt: base},
		{Action: "user.updated", EntityKind: "user", EntityID: "u-1", Actor: "admin", Summary: "updated", PerformedAt: base.Add(time.Minute)},
		{Action: "product.created", EntityKind: "product", EntityID: "1", Actor: "admin", Summary: "created", PerformedAt: base},
	}
	for i := range entries {
		if err := repo.Record(ctx, &entries[i]); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if entries[i].ID == 0 {
			t.Fatal("expected assigned id")
		}
	}

	trail, err := repo.ListByEntity(ctx, "user", "u-1")
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("expected 2 entries for u-1, got %d", len(trail))
	}
	// Most recent first.
	if trail[0].Action != "user.updated" || trail[1].Action != "user.created" {
		t.Fatalf("unexpected order: %q, %q", trail[0].Action, trail[1].Action)
	}

	empty, err := repo.ListByEntity(ctx, "user", "missing")
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no entries, got %d", len(empty))
	}
}

func TestAuditRepository_ListRecent(t *testing.T) {
	repo := newTestDB(t).AuditLogs()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		entry := domain.AuditEntry{
			Action:      "order.created",
			EntityKind:  "order",
			EntityID:    "o-1",
			Actor:       "admin",
			Summary:     "created",
			PerformedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Record(ctx, &entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := repo.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(recent))
	}
	if !recent[0].PerformedAt.After(recent[2].PerformedAt) {
		t.Fatal("expected most recent entry first")
	}
}
