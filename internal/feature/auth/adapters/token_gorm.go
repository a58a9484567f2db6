package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tender_backend/internal/feature/auth/domain/entity"
	"tender_backend/internal/feature/auth/usecase"
	"tender_backend/internal/platform/db"
)

type tokenRepository struct {
	db *gorm.DB
}

var _ usecase.TokenRepository = (*tokenRepository)(nil)

func NewTokenRepository(db *gorm.DB) *tokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, t *entity.EmailToken) error {
	return db.Conn(ctx, r.db).Create(t).Error
}

func (r *tokenRepository) FindByHash(ctx context.Context, kind entity.TokenKind, hash string) (*entity.EmailToken, error) {
	var t entity.EmailToken
	err := db.Conn(ctx, r.db).
		Where("kind = ? AND token_hash = ?", kind, hash).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

// MarkUsed only touches rows whose used_at is still NULL, so of two concurrent
// consumers exactly one sees RowsAffected == 1.
func (r *tokenRepository) MarkUsed(ctx context.Context, id uint, at time.Time) error {
	res := db.Conn(ctx, r.db).Model(&entity.EmailToken{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTokenUsed
	}
	return nil
}
