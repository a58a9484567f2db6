// Package adapters provides the repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tender_backend/internal/feature/auth/domain/entity"
	"tender_backend/internal/feature/auth/usecase"
	"tender_backend/internal/platform/db"
)

// userRepository is the gorm implementation of usecase.UserRepository.
// It joins a transaction carried by ctx.
type userRepository struct {
	db *gorm.DB
}

var _ usecase.UserRepository = (*userRepository)(nil)

// NewUserRepository creates a userRepository over db.
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// Create inserts u. A unique violation on email yields usecase.ErrEmailAlreadyExists.
func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	if err := db.Conn(ctx, r.db).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail returns usecase.ErrUserNotFound when no row matches.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := db.Conn(ctx, r.db).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID returns usecase.ErrUserNotFound when no row matches.
func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := db.Conn(ctx, r.db).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateStatus is a compare-and-set on the status column.
func (r *userRepository) UpdateStatus(ctx context.Context, id uint, from, to entity.Status) error {
	res := db.Conn(ctx, r.db).Model(&entity.User{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrStatusChanged
	}
	return nil
}

// List returns users matching f, newest first.
func (r *userRepository) List(ctx context.Context, f entity.UserFilter) ([]entity.User, error) {
	q := db.Conn(ctx, r.db).Model(&entity.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var users []entity.User
	if err := q.Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes the user. It returns usecase.ErrUserNotFound when no row matches.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := db.Conn(ctx, r.db).Delete(&entity.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

type groupCount struct {
	GroupKey string
	Total    int64
}

// CountByRole returns the number of users per role. Roles without users are absent.
func (r *userRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, "role")
}

// CountByStatus returns the number of users per status. Statuses without users are absent.
func (r *userRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countBy(ctx, "status")
}

func (r *userRepository) countBy(ctx context.Context, column string) (map[string]int64, error) {
	var rows []groupCount
	err := db.Conn(ctx, r.db).Model(&entity.User{}).
		Select(column + " AS group_key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.GroupKey] = row.Total
	}
	return out, nil
}
