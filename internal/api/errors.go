package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tender_backend/internal/platform/apperr"
)

// Fail renders err as {"error": message} with the status of its apperr.Kind.
// Internal errors are logged with their cause and rendered generically.
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()

	if status >= 500 {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"route", c.FullPath(), "kind", kind.String(), "error", err)
	} else {
		slog.DebugContext(c.Request.Context(), "request rejected",
			"route", c.FullPath(), "kind", kind.String(), "error", err)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: apperr.Message(err)})
}

// BadRequest renders a 400 with msg.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
