package entity

import "time"

// TokenKind distinguishes email confirmation links from team invitations.
type TokenKind string

const (
	TokenConfirmation TokenKind = "CONFIRMATION"
	TokenInvitation   TokenKind = "INVITATION"
)

// EmailToken is a single-use credential delivered by email.
// Only the SHA-256 hash of the raw token is stored.
type EmailToken struct {
	ID        uint      `gorm:"primaryKey"`
	Kind      TokenKind `gorm:"size:20;not null;index"`
	Email     string    `gorm:"size:255;not null;index"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex"`

	// Invitation fields.
	Role        Role   `gorm:"size:20"`
	CompanyName string `gorm:"size:255"`
	InvitedBy   *uint

	ExpiresAt time.Time `gorm:"not null"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token is past its expiry at now.
func (t *EmailToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsUsed reports whether the token has already been consumed.
func (t *EmailToken) IsUsed() bool {
	return t.UsedAt != nil
}
