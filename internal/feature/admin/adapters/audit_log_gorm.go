// Package adapters provides the repository implementations for the admin feature.
package adapters

import (
	"context"

	"gorm.io/gorm"

	"tender_backend/internal/feature/admin/domain/entity"
	"tender_backend/internal/feature/admin/usecase"
	"tender_backend/internal/platform/db"
)

// auditLogRepository is append-only: it has no update or delete.
type auditLogRepository struct {
	db *gorm.DB
}

var _ usecase.AuditLogRepository = (*auditLogRepository)(nil)

// NewAuditLogRepository creates an auditLogRepository over db.
func NewAuditLogRepository(db *gorm.DB) *auditLogRepository {
	return &auditLogRepository{db: db}
}

// Append inserts log, joining a transaction carried by ctx.
func (r *auditLogRepository) Append(ctx context.Context, log *entity.AuditLog) error {
	if log.TargetType == "" {
		log.TargetType = entity.TargetUser
	}
	return db.Conn(ctx, r.db).Create(log).Error
}

func (r *auditLogRepository) List(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	err := db.Conn(ctx, r.db).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
