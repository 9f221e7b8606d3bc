package domain

import (
	"context"
	"time"
)

// AuditEntry records one write operation against the API.
type AuditEntry struct {
	ID          int64
	Action      string // e.g. "user.created", "order.status_changed"
	EntityKind  string // "user", "product", "order"
	EntityID    string
	Actor       string // principal subject that performed the write
	Summary     string
	PerformedAt time.Time
}

// AuditRepository persists the audit trail.
type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListByEntity(ctx context.Context, kind, id string) ([]AuditEntry, error)
	ListRecent(ctx context.Context, limit int) ([]AuditEntry, error)
}
