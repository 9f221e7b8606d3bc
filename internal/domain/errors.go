package domain

import "errors"

var (
	// ErrNotFound indicates a referenced entity id does not resolve in its
	// collection.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation (email or SKU). The write
	// is never applied.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates malformed or out-of-range input, including a
	// client-supplied order total that disagrees with the recomputed one.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates valid credentials with insufficient scope.
	ErrForbidden = errors.New("forbidden")

	// ErrIntegrity indicates an order references a user or product that no
	// longer exists at read time. Stale data is a server-attributable fault,
	// not a malformed request.
	ErrIntegrity = errors.New("integrity violation")
)
