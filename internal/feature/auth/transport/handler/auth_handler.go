// Package handler provides the HTTP handlers for the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tender_backend/internal/api"
	"tender_backend/internal/feature/auth/domain/entity"
	"tender_backend/internal/feature/auth/transport/http/dto"
	"tender_backend/internal/feature/auth/usecase"
	jwtmw "tender_backend/internal/platform/jwt"
)

// AuthUsecase defines the registration and login operations.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	RegisterPublisher(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	RegisterBidder(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	ConfirmEmail(ctx context.Context, email, rawToken string) error
	// Login authenticates the user and returns a JWT on success.
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
	Invite(ctx context.Context, in usecase.InviteInput) (*entity.EmailToken, error)
	RegisterTeamMember(ctx context.Context, in usecase.TeamMemberInput) (*entity.User, error)
	Me(ctx context.Context, id uint) (*entity.User, error)
}

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterPublisher handles POST /api/publisher/register.
// The account starts in PENDING_EMAIL_CONFIRMATION and a confirmation link is mailed.
func (h *AuthHandler) RegisterPublisher(c *gin.Context) {
	var req dto.RegisterPublisherReq
	if !api.BindJSON(c, &req) {
		return
	}
	user, err := h.auth.RegisterPublisher(c.Request.Context(), usecase.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		CompanyName: req.CompanyName,
		Position:    req.Position,
	})
	if err != nil {
		slog.Warn("publisher registration failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, err)
		return
	}
	slog.Info("publisher registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.RegisterRes{
		Message: "registration received, check your email to confirm your address",
		User:    dto.NewUserResponse(user),
	})
}

// RegisterBidder handles POST /api/bidder/register.
func (h *AuthHandler) RegisterBidder(c *gin.Context) {
	var req dto.RegisterBidderReq
	if !api.BindJSON(c, &req) {
		return
	}
	user, err := h.auth.RegisterBidder(c.Request.Context(), usecase.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		CompanyName: req.CompanyName,
		Position:    req.Position,
	})
	if err != nil {
		slog.Warn("bidder registration failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, err)
		return
	}
	slog.Info("bidder registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.RegisterRes{
		Message: "registration successful",
		User:    dto.NewUserResponse(user),
	})
}

// ConfirmEmail handles GET /api/confirm-email?token=&email=.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	email := c.Query("email")
	if err := h.auth.ConfirmEmail(c.Request.Context(), email, c.Query("token")); err != nil {
		slog.Warn("email confirmation failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, err)
		return
	}
	slog.Info("email confirmed", "email", email)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "email confirmed, your account is awaiting admin approval"})
}

// Login handles POST /api/login and returns the token together with the user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if !api.BindJSON(c, &req) {
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, err)
		return
	}
	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{Token: token, User: dto.NewUserResponse(user)})
}

// Invite handles POST /api/invitations.
func (h *AuthHandler) Invite(c *gin.Context) {
	inviterID, ok := jwtmw.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.InviteReq
	if !api.BindJSON(c, &req) {
		return
	}
	tok, err := h.auth.Invite(c.Request.Context(), usecase.InviteInput{
		InviterID:   inviterID,
		Email:       req.Email,
		Role:        req.Role,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		slog.Warn("invitation failed", "error", err, "inviter_id", inviterID)
		api.Fail(c, err)
		return
	}
	slog.Info("invitation sent", "inviter_id", inviterID, "role", tok.Role)
	c.JSON(http.StatusCreated, dto.InviteRes{
		Message:     "invitation sent",
		Email:       tok.Email,
		Role:        string(tok.Role),
		CompanyName: tok.CompanyName,
		ExpiresAt:   tok.ExpiresAt,
	})
}

// RegisterTeamMember handles POST /api/team-member-register.
func (h *AuthHandler) RegisterTeamMember(c *gin.Context) {
	var req dto.TeamMemberReq
	if !api.BindJSON(c, &req) {
		return
	}
	user, err := h.auth.RegisterTeamMember(c.Request.Context(), usecase.TeamMemberInput{
		Name:        req.Name,
		Password:    req.Password,
		Position:    req.Position,
		Token:       req.Token,
		InviteEmail: req.InviteEmail,
	})
	if err != nil {
		slog.Warn("team member registration failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, err)
		return
	}
	slog.Info("team member registered", "user_id", user.ID, "role", user.Role)
	c.JSON(http.StatusCreated, dto.RegisterRes{
		Message: "registration successful",
		User:    dto.NewUserResponse(user),
	})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := jwtmw.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	user, err := h.auth.Me(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
