package di

import (
	adminentity "tender_backend/internal/feature/admin/domain/entity"
	authentity "tender_backend/internal/feature/auth/domain/entity"
	tenderadapters "tender_backend/internal/feature/tender/adapters"
)

// Models lists the gorm models migrated at startup and by the migrate command.
func Models() []any {
	return []any{
		&authentity.User{},
		&authentity.EmailToken{},
		&tenderadapters.TenderModel{},
		&adminentity.AuditLog{},
	}
}
