// Package middleware holds the role and status guard that runs after jwtmw.AuthRequired.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"tender_backend/internal/api"
	"tender_backend/internal/feature/auth/domain/entity"
	"tender_backend/internal/feature/auth/usecase"
	jwtmw "tender_backend/internal/platform/jwt"
)

// ContextUser is the gin context key under which the loaded *entity.User is stored.
const ContextUser = "currentUser"

// UserFinder loads the caller's account.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// RequireRoles loads the authenticated user and admits it only if its role is one of
// roles (any role when roles is empty) and its account is ACTIVE.
// Role is checked before status.
func RequireRoles(users UserFinder, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := jwtmw.UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing bearer token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, usecase.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "account no longer exists"})
				return
			}
			api.Fail(c, err)
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			slog.Debug("role rejected", "user_id", user.ID, "role", user.Role, "route", c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Error: "insufficient permissions"})
			return
		}

		if err := user.CanAccess(); err != nil {
			api.Fail(c, err)
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireRoles.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
