package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tender_backend/internal/feature/auth/domain/entity"
	"tender_backend/internal/feature/auth/usecase"
	"tender_backend/internal/platform/db/dbtest"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Open(t, &entity.User{}, &entity.EmailToken{})
}

func newUser(email string, status entity.Status) *entity.User {
	return &entity.User{
		Name:     "Test User",
		Email:    email,
		Password: "hashed_password",
		Role:     entity.RolePublisher,
		Status:   status,
	}
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		user := newUser("test@example.com", entity.StatusPendingEmailConfirmation)
		err := repo.Create(context.Background(), user)

		require.NoError(t, err)
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
	})

	t.Run("duplicate email error", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))

		require.NoError(t, repo.Create(context.Background(), newUser("duplicate@example.com", entity.StatusActive)))
		err := repo.Create(context.Background(), newUser("duplicate@example.com", entity.StatusActive))

		assert.Error(t, err, "should return duplicate error")
	})
}

func TestUserRepository_Find(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	created := newUser("find@example.com", entity.StatusActive)
	require.NoError(t, repo.Create(ctx, created))

	byEmail, err := repo.FindByEmail(ctx, "find@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, entity.RolePublisher, byEmail.Role)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "find@example.com", byID.Email)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}

func TestUserRepository_UpdateStatus(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := newUser("status@example.com", entity.StatusPendingEmailConfirmation)
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.UpdateStatus(ctx, u.ID, entity.StatusPendingEmailConfirmation, entity.StatusPendingAdminApproval))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingAdminApproval, got.Status)

	// stale "from" is rejected
	err = repo.UpdateStatus(ctx, u.ID, entity.StatusPendingEmailConfirmation, entity.StatusPendingAdminApproval)
	assert.ErrorIs(t, err, usecase.ErrStatusChanged)
}

func TestUserRepository_ListAndCounts(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	seed := []*entity.User{
		newUser("p1@example.com", entity.StatusPendingAdminApproval),
		newUser("p2@example.com", entity.StatusActive),
		{Name: "B", Email: "b@example.com", Password: "x", Role: entity.RoleBidder, Status: entity.StatusActive},
	}
	for _, u := range seed {
		require.NoError(t, repo.Create(ctx, u))
	}

	all, err := repo.List(ctx, entity.UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b@example.com", all[0].Email, "newest first")

	pending, err := repo.List(ctx, entity.UserFilter{Role: entity.RolePublisher, Status: entity.StatusPendingAdminApproval})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "p1@example.com", pending[0].Email)

	byRole, err := repo.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"PUBLISHER": 2, "BIDDER": 1}, byRole)

	byStatus, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"PENDING_ADMIN_APPROVAL": 1, "ACTIVE": 2}, byStatus)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := newUser("gone@example.com", entity.StatusActive)
	require.NoError(t, repo.Create(ctx, u))

	require.NoError(t, repo.Delete(ctx, u.ID))

	_, err := repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), usecase.ErrUserNotFound)
}
