// Package entity defines the domain entities for the auth feature.
package entity

import (
	"fmt"
	"strings"
	"time"

	"tender_backend/internal/platform/apperr"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleBidder    Role = "BIDDER"
	RolePublisher Role = "PUBLISHER"
	RoleAdmin     Role = "ADMIN"
)

// ErrInvalidRole is returned when parsing a string that names no role.
var ErrInvalidRole = apperr.New(apperr.KindValidation, "invalid role")

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBidder, RolePublisher, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// User represents a registered account.
type User struct {
	ID uint `gorm:"primaryKey"`

	Name string `gorm:"size:255;not null"`

	// Email is stored lower-cased and is unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash. Plaintext is never stored.
	Password string `gorm:"size:255;not null"`

	Role   Role   `gorm:"size:20;not null;index"`
	Status Status `gorm:"size:40;not null;index"`

	CompanyName string `gorm:"size:255"`
	Position    string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAccess returns nil when the account may use authenticated endpoints,
// otherwise the forbidden error describing its state.
func (u *User) CanAccess() error {
	return u.Status.AccessError()
}

// UserFilter narrows an account listing. Empty fields match everything.
type UserFilter struct {
	Role   Role
	Status Status
}
