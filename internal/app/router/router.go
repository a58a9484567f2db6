// Package router assembles the gin engine: global middleware, platform endpoints and
// the feature routes with their guards.
package router

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	adminhandler "tender_backend/internal/feature/admin/transport/handler"
	assistanthandler "tender_backend/internal/feature/assistant/transport/handler"
	"tender_backend/internal/feature/auth/domain/entity"
	authhandler "tender_backend/internal/feature/auth/transport/handler"
	authmw "tender_backend/internal/feature/auth/transport/middleware"
	tenderhandler "tender_backend/internal/feature/tender/transport/handler"
	"tender_backend/internal/platform/http/handler"
	jwtmw "tender_backend/internal/platform/jwt"
	"tender_backend/internal/platform/logger"
	"tender_backend/internal/platform/metrics"
	"tender_backend/internal/shared/ratelimiter"
)

// Handlers groups the HTTP handlers of every feature.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *authhandler.AuthHandler
	Tenders   *tenderhandler.TenderHandler
	Assistant *assistanthandler.AssistantHandler
	Admin     *adminhandler.AdminHandler
}

// Options configures the engine.
type Options struct {
	Logger *slog.Logger
	// CORSOrigins lists the allowed origins. Empty allows any origin.
	CORSOrigins []string
	JWTSecret   string
	// Users backs the role/status guard.
	Users authmw.UserFinder
	// AILimiter throttles /api/ai per user. Nil disables it.
	AILimiter *ratelimiter.RateLimiter
	// UploadDir is served under UploadPrefix when files are stored on local disk.
	UploadPrefix string
	UploadDir    string
}

// NewRouter returns the gin engine serving the whole API.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger(log), metrics.Middleware(), corsMiddleware(opts.CORSOrigins))

	// Not authenticated
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.GET("/metrics", metrics.Handler())
	if opts.UploadDir != "" && opts.UploadPrefix != "" {
		r.Static(opts.UploadPrefix, opts.UploadDir)
	}

	api := r.Group("/api")
	api.POST("/publisher/register", h.Auth.RegisterPublisher)
	api.POST("/bidder/register", h.Auth.RegisterBidder)
	api.GET("/confirm-email", h.Auth.ConfirmEmail)
	api.POST("/login", h.Auth.Login)
	api.POST("/team-member-register", h.Auth.RegisterTeamMember)
	api.GET("/tenders", h.Tenders.List)
	api.GET("/tenders/:id", h.Tenders.Get)

	// Authenticated: the token is checked first, then the account is loaded and guarded.
	authed := api.Group("", jwtmw.AuthRequired(opts.JWTSecret))
	authed.GET("/me", authmw.RequireRoles(opts.Users), h.Auth.Me)
	authed.POST("/invitations", authmw.RequireRoles(opts.Users, entity.RoleAdmin, entity.RolePublisher), h.Auth.Invite)
	authed.POST("/tenders", authmw.RequireRoles(opts.Users, entity.RolePublisher), h.Tenders.Create)

	ai := authed.Group("/ai", authmw.RequireRoles(opts.Users), ratelimiter.Middleware(opts.AILimiter, "ai", userKey))
	ai.POST("/summary", h.Assistant.Summary)
	ai.POST("/cover-letter", h.Assistant.CoverLetter)
	ai.POST("/release-letter", h.Assistant.ReleaseLetter)
	ai.POST("/chat", h.Assistant.Chat)

	admin := authed.Group("/admin", authmw.RequireRoles(opts.Users, entity.RoleAdmin))
	admin.GET("/stats", h.Admin.Stats)
	admin.GET("/users", h.Admin.ListUsers)
	admin.GET("/publishers/pending", h.Admin.PendingPublishers)
	admin.POST("/users/:id/approve", h.Admin.Approve)
	admin.POST("/users/:id/reject", h.Admin.Reject)
	admin.POST("/users/:id/suspend", h.Admin.Suspend)
	admin.POST("/users/:id/reactivate", h.Admin.Reactivate)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.GET("/audit-logs", h.Admin.AuditLogs)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// userKey buckets rate limiting by the authenticated user id.
func userKey(c *gin.Context) string {
	id, ok := jwtmw.UserID(c)
	if !ok {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}
