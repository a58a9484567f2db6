// Package handler provides the HTTP handlers for the admin endpoints.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tender_backend/internal/api"
	"tender_backend/internal/feature/admin/domain/entity"
	"tender_backend/internal/feature/admin/transport/http/dto"
	authentity "tender_backend/internal/feature/auth/domain/entity"
	authdto "tender_backend/internal/feature/auth/transport/http/dto"
	authmw "tender_backend/internal/feature/auth/transport/middleware"
)

// AdminUsecase defines the moderation operations.
type AdminUsecase interface {
	Stats(ctx context.Context) (*entity.Stats, error)
	ListUsers(ctx context.Context, role, status string) ([]authentity.User, error)
	PendingPublishers(ctx context.Context) ([]authentity.User, error)
	Approve(ctx context.Context, actorID, userID uint) (*authentity.User, error)
	Reject(ctx context.Context, actorID, userID uint) (*authentity.User, error)
	Suspend(ctx context.Context, actorID, userID uint) (*authentity.User, error)
	Reactivate(ctx context.Context, actorID, userID uint) (*authentity.User, error)
	DeleteUser(ctx context.Context, actorID, userID uint) error
	AuditLogs(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

// AdminHandler handles the /api/admin endpoints. Every route runs behind the ADMIN guard.
type AdminHandler struct {
	uc AdminUsecase
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(uc AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.uc.Stats(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStatsRes(stats))
}

// ListUsers handles GET /api/admin/users?role=&status=.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context(), c.Query("role"), c.Query("status"))
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserList(users))
}

// PendingPublishers handles GET /api/admin/publishers/pending.
func (h *AdminHandler) PendingPublishers(c *gin.Context) {
	users, err := h.uc.PendingPublishers(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserList(users))
}

// Approve handles POST /api/admin/users/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) { h.transition(c, h.uc.Approve) }

// Reject handles POST /api/admin/users/:id/reject.
func (h *AdminHandler) Reject(c *gin.Context) { h.transition(c, h.uc.Reject) }

// Suspend handles POST /api/admin/users/:id/suspend.
func (h *AdminHandler) Suspend(c *gin.Context) { h.transition(c, h.uc.Suspend) }

// Reactivate handles POST /api/admin/users/:id/reactivate.
func (h *AdminHandler) Reactivate(c *gin.Context) { h.transition(c, h.uc.Reactivate) }

func (h *AdminHandler) transition(c *gin.Context, fn func(ctx context.Context, actorID, userID uint) (*authentity.User, error)) {
	actorID, userID, ok := ids(c)
	if !ok {
		return
	}
	user, err := fn(c.Request.Context(), actorID, userID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, authdto.NewUserResponse(user))
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actorID, userID, ok := ids(c)
	if !ok {
		return
	}
	if err := h.uc.DeleteUser(c.Request.Context(), actorID, userID); err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "user deleted"})
}

// AuditLogs handles GET /api/admin/audit-logs?limit=.
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	limit, err := api.QueryInt(c, "limit", 0)
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	logs, err := h.uc.AuditLogs(c.Request.Context(), limit)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAuditLogList(logs))
}

// ids resolves the acting admin and the :id path parameter, rendering the error itself.
func ids(c *gin.Context) (actorID, userID uint, ok bool) {
	actor, found := authmw.CurrentUser(c)
	if !found {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return 0, 0, false
	}
	id, err := api.PathID(c, "id")
	if err != nil {
		api.BadRequest(c, err.Error())
		return 0, 0, false
	}
	return actor.ID, id, true
}
