// Package usecase implements account moderation and the admin dashboard.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tender_backend/internal/feature/admin/domain/entity"
	authentity "tender_backend/internal/feature/auth/domain/entity"
	"tender_backend/internal/platform/apperr"
)

const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 200
)

var (
	ErrSelfDelete      = apperr.New(apperr.KindForbidden, "admins cannot delete their own account")
	ErrSelfSuspend     = apperr.New(apperr.KindForbidden, "admins cannot suspend their own account")
	ErrInvalidLimit    = apperr.New(apperr.KindValidation, "limit must not be negative")
	ErrInvalidUserList = apperr.New(apperr.KindValidation, "role or status filter is invalid")
)

// UserStore is the account persistence used by the admin.
// Following Go convention, the interface is defined by the consumer (usecase).
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
	List(ctx context.Context, f authentity.UserFilter) ([]authentity.User, error)
	// UpdateStatus is a compare-and-set from -> to.
	UpdateStatus(ctx context.Context, id uint, from, to authentity.Status) error
	Delete(ctx context.Context, id uint) error
	CountByRole(ctx context.Context) (map[string]int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// TenderCounter reports tender totals. A tender is open when its deadline is on or after today.
type TenderCounter interface {
	Counts(ctx context.Context, today time.Time) (total, open int64, err error)
}

// AuditLogRepository appends and reads audit rows.
type AuditLogRepository interface {
	Append(ctx context.Context, log *entity.AuditLog) error
	// List returns at most limit rows, newest first.
	List(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

// Transactor runs fn inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type adminUsecase struct {
	users   UserStore
	tenders TenderCounter
	audit   AuditLogRepository
	tx      Transactor
	now     func() time.Time
}

// NewAdminUsecase creates a new adminUsecase.
func NewAdminUsecase(users UserStore, tenders TenderCounter, audit AuditLogRepository, tx Transactor) *adminUsecase {
	return &adminUsecase{users: users, tenders: tenders, audit: audit, tx: tx, now: time.Now}
}

// Stats returns user counts by role and status, pending publishers and tender totals.
// Every role and status appears in the maps, zero when there are no such users.
func (u *adminUsecase) Stats(ctx context.Context) (*entity.Stats, error) {
	byRole, err := u.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	byStatus, err := u.users.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by status: %w", err)
	}
	pending, err := u.users.List(ctx, pendingPublishers)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending publishers: %w", err)
	}
	total, open, err := u.tenders.Counts(ctx, u.now())
	if err != nil {
		return nil, fmt.Errorf("failed to count tenders: %w", err)
	}

	stats := &entity.Stats{
		UsersByRole:       map[string]int64{},
		UsersByStatus:     map[string]int64{},
		PendingPublishers: int64(len(pending)),
		TotalTenders:      total,
		OpenTenders:       open,
	}
	for _, r := range []authentity.Role{authentity.RoleBidder, authentity.RolePublisher, authentity.RoleAdmin} {
		stats.UsersByRole[string(r)] = byRole[string(r)]
	}
	for _, s := range []authentity.Status{
		authentity.StatusPendingEmailConfirmation, authentity.StatusPendingAdminApproval,
		authentity.StatusActive, authentity.StatusSuspended, authentity.StatusRejected,
	} {
		stats.UsersByStatus[string(s)] = byStatus[string(s)]
	}
	return stats, nil
}

var pendingPublishers = authentity.UserFilter{Role: authentity.RolePublisher, Status: authentity.StatusPendingAdminApproval}

// ListUsers lists accounts. role and status are optional exact names.
func (u *adminUsecase) ListUsers(ctx context.Context, role, status string) ([]authentity.User, error) {
	var f authentity.UserFilter
	if role != "" {
		r, err := authentity.ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidUserList, err)
		}
		f.Role = r
	}
	if status != "" {
		s, err := authentity.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidUserList, err)
		}
		f.Status = s
	}
	return u.users.List(ctx, f)
}

// PendingPublishers lists publishers awaiting approval.
func (u *adminUsecase) PendingPublishers(ctx context.Context) ([]authentity.User, error) {
	return u.users.List(ctx, pendingPublishers)
}

// Approve activates a publisher awaiting approval.
func (u *adminUsecase) Approve(ctx context.Context, actorID, userID uint) (*authentity.User, error) {
	return u.transition(ctx, actorID, userID, authentity.EventApprove, entity.ActionApprove)
}

// Reject rejects a publisher awaiting approval.
func (u *adminUsecase) Reject(ctx context.Context, actorID, userID uint) (*authentity.User, error) {
	return u.transition(ctx, actorID, userID, authentity.EventReject, entity.ActionReject)
}

// Suspend blocks an active account.
func (u *adminUsecase) Suspend(ctx context.Context, actorID, userID uint) (*authentity.User, error) {
	if actorID == userID {
		return nil, ErrSelfSuspend
	}
	return u.transition(ctx, actorID, userID, authentity.EventSuspend, entity.ActionSuspend)
}

// Reactivate unblocks a suspended account.
func (u *adminUsecase) Reactivate(ctx context.Context, actorID, userID uint) (*authentity.User, error) {
	return u.transition(ctx, actorID, userID, authentity.EventReactivate, entity.ActionReactivate)
}

// transition applies e to the user and appends an audit row in the same transaction.
// Transitions the state machine does not allow return ErrInvalidTransition (409).
func (u *adminUsecase) transition(ctx context.Context, actorID, userID uint, e authentity.Event, action string) (*authentity.User, error) {
	var user *authentity.User
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := u.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		from := found.Status
		to, err := from.Next(e)
		if err != nil {
			return err
		}
		if err := u.users.UpdateStatus(ctx, userID, from, to); err != nil {
			return err
		}
		if err := u.audit.Append(ctx, &entity.AuditLog{
			ActorID:      actorID,
			Action:       action,
			TargetType:   entity.TargetUser,
			TargetUserID: userID,
			Detail:       fmt.Sprintf("%s: %s -> %s", found.Email, from, to),
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		found.Status = to
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("account status changed", "actor_id", actorID, "user_id", userID, "action", action, "status", user.Status)
	return user, nil
}

// DeleteUser removes an account. Tenders the user published are kept.
func (u *adminUsecase) DeleteUser(ctx context.Context, actorID, userID uint) error {
	if actorID == userID {
		return ErrSelfDelete
	}
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := u.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := u.users.Delete(ctx, userID); err != nil {
			return err
		}
		if err := u.audit.Append(ctx, &entity.AuditLog{
			ActorID:      actorID,
			Action:       entity.ActionDelete,
			TargetType:   entity.TargetUser,
			TargetUserID: userID,
			Detail:       fmt.Sprintf("%s (%s)", found.Email, found.Role),
		}); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("account deleted", "actor_id", actorID, "user_id", userID)
	return nil
}

// AuditLogs returns the newest audit rows. limit 0 means DefaultAuditLimit; larger values are capped.
func (u *adminUsecase) AuditLogs(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	switch {
	case limit < 0:
		return nil, ErrInvalidLimit
	case limit == 0:
		limit = DefaultAuditLimit
	case limit > MaxAuditLimit:
		limit = MaxAuditLimit
	}
	return u.audit.List(ctx, limit)
}
