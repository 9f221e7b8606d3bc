package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"perfectapi/internal/domain"
	"perfectapi/internal/store"
)

// userSortKeys maps the permitted sort parameters to comparators. Any other
// input is rejected at the boundary. Ties are broken by ascending id so the
// ordering is deterministic.
var userSortKeys = map[string]func(a, b domain.User) int{
	"created_at":  func(a, b domain.User) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"-created_at": func(a, b domain.User) int { return b.CreatedAt.Compare(a.CreatedAt) },
	"email":       func(a, b domain.User) int { return cmp.Compare(a.Email, b.Email) },
}

// UserService implements the user collection operations.
type UserService struct {
	store *store.Store
	audit domain.AuditRepository
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store, audit domain.AuditRepository) *UserService {
	return &UserService{store: st, audit: audit}
}

// List returns a snapshot of all users ordered by the given sort key.
func (s *UserService) List(sort string) ([]domain.User, error) {
	compare, ok := userSortKeys[sort]
	if !ok {
		return nil, fmt.Errorf("%w: sort: unsupported sort key %q", domain.ErrInvalidInput, sort)
	}
	users := s.store.Users.Snapshot()
	slices.SortStableFunc(users, func(a, b domain.User) int {
		if c := compare(a, b); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return users, nil
}

// Get returns a single user by id.
func (s *UserService) Get(id uuid.UUID) (domain.User, error) {
	user, ok := s.store.Users.Get(id)
	if !ok {
		return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	return user, nil
}

// Create stores a new user after checking that no other user holds the same
// email, compared case-insensitively. On conflict nothing is written.
func (s *UserService) Create(ctx context.Context, user domain.User, actor string) (domain.User, error) {
	now := time.Now().UTC().Truncate(time.Second)
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.putUnique(user); err != nil {
		return domain.User{}, fmt.Errorf("%w: email already in use", err)
	}
	s.record(ctx, "user.created", user.ID.String(), actor, "User "+user.Email+" created")
	return user, nil
}

// Patch applies a partial update. An email change is checked for uniqueness
// against every other user before the write lands.
type UserPatch struct {
	Email      *string
	Name       *string
	Role       *domain.Role
	Active     *bool
	Profile    *domain.Profile
	SetProfile bool
}

// Patch updates mutable fields of a user.
func (s *UserService) Patch(ctx context.Context, id uuid.UUID, patch UserPatch, actor string) (domain.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return domain.User{}, err
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}
	if patch.SetProfile {
		user.Profile = patch.Profile
	}
	user.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := s.putUnique(user); err != nil {
		return domain.User{}, fmt.Errorf("%w: email already in use", err)
	}
	s.record(ctx, "user.updated", user.ID.String(), actor, "User "+user.Email+" updated")
	return user, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	if !s.store.Users.Delete(id) {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	s.record(ctx, "user.deleted", id.String(), actor, "User deleted")
	return nil
}

func (s *UserService) putUnique(user domain.User) error {
	return s.store.Users.PutChecked(user.ID, user, func(_ uuid.UUID, other domain.User) bool {
		return strings.EqualFold(other.Email, user.Email)
	})
}

// record writes an audit entry. The entity mutation already stands, so an
// audit failure is logged rather than surfaced.
func (s *UserService) record(ctx context.Context, action, entityID, actor, summary string) {
	err := s.audit.Record(ctx, &domain.AuditEntry{
		Action:      action,
		EntityKind:  "user",
		EntityID:    entityID,
		Actor:       actor,
		Summary:     summary,
		PerformedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("record audit entry", "action", action, "error", err)
	}
}

// AuditTrail returns the audit entries recorded for a user, most recent
// first.
func (s *UserService) AuditTrail(ctx context.Context, id uuid.UUID) ([]domain.AuditEntry, error) {
	return s.audit.ListByEntity(ctx, "user", id.String())
}
