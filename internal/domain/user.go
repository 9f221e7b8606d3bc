package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// ValidRole reports whether r is one of the defined roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// Profile holds optional user profile details.
type Profile struct {
	Bio       string
	Website   string
	Interests []string
}

// User is a registered user. Email is unique case-insensitively across the
// collection.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      Role
	Active    bool
	Profile   *Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}
