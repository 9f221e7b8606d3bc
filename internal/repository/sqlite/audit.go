package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"perfectapi/internal/domain"
)

// AuditRepository implements domain.AuditRepository using SQLite.
type AuditRepository struct {
	db *sql.DB
}

var _ domain.AuditRepository = (*AuditRepository)(nil)

func (r *AuditRepository) Record(ctx context.Context, entry *domain.AuditEntry) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (action, entity_kind, entity_id, actor, summary, performed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Action, entry.EntityKind, entry.EntityID, entry.Actor, entry.Summary, entry.PerformedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *AuditRepository) ListByEntity(ctx context.Context, kind, id string) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, entity_kind, entity_id, actor, summary, performed_at
		 FROM audit_log WHERE entity_kind = ? AND entity_id = ?
		 ORDER BY performed_at DESC, id DESC`, kind, id,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, entity_kind, entity_id, actor, summary, performed_at
		 FROM audit_log ORDER BY performed_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityKind, &e.EntityID, &e.Actor, &e.Summary, &e.PerformedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
