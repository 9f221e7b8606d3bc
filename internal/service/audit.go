package service

import (
	"context"

	"perfectapi/internal/domain"
)

// AuditService exposes read access to the recorded audit trail.
type AuditService struct {
	audit domain.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(audit domain.AuditRepository) *AuditService {
	return &AuditService{audit: audit}
}

// Recent returns the latest recorded write operations across all entities,
// most recent first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return s.audit.ListRecent(ctx, limit)
}
