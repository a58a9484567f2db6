// Package entity defines the domain entities for the admin feature.
package entity

import "time"

// Audit actions.
const (
	ActionApprove    = "user.approve"
	ActionReject     = "user.reject"
	ActionSuspend    = "user.suspend"
	ActionReactivate = "user.reactivate"
	ActionDelete     = "user.delete"
)

// TargetUser is the target type of every account action.
const TargetUser = "user"

// AuditLog records one administrative action. Rows are append-only.
type AuditLog struct {
	ID uint `gorm:"primaryKey"`

	ActorID      uint   `gorm:"not null;index"`
	Action       string `gorm:"size:40;not null"`
	TargetType   string `gorm:"size:20;not null;default:user"`
	TargetUserID uint   `gorm:"not null;index"`
	// Detail is a human-readable note such as "PENDING_ADMIN_APPROVAL -> ACTIVE".
	Detail string `gorm:"size:500"`

	CreatedAt time.Time `gorm:"index"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	UsersByRole       map[string]int64
	UsersByStatus     map[string]int64
	PendingPublishers int64
	TotalTenders      int64
	OpenTenders       int64
}
