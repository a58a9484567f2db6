// Package handler provides the HTTP handlers for the AI assistant.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"tender_backend/internal/api"
	"tender_backend/internal/feature/assistant/domain/entity"
	"tender_backend/internal/feature/assistant/transport/http/dto"
	"tender_backend/internal/feature/assistant/usecase"
	authmw "tender_backend/internal/feature/auth/transport/middleware"
)

// AssistantUsecase defines the AI operations.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type AssistantUsecase interface {
	Summarize(ctx context.Context, tenderText string) (*entity.SummaryResult, error)
	CoverLetter(ctx context.Context, in usecase.CoverLetterInput) (string, error)
	ReleaseLetter(ctx context.Context, in usecase.ReleaseLetterInput) (string, error)
	Chat(ctx context.Context, tenderID uint, question string) (string, error)
}

// AssistantHandler handles the /api/ai endpoints.
type AssistantHandler struct {
	uc AssistantUsecase
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(uc AssistantUsecase) *AssistantHandler {
	return &AssistantHandler{uc: uc}
}

// Summary handles POST /api/ai/summary.
// A model reply that cannot be structured is still a 200 with structured=false.
func (h *AssistantHandler) Summary(c *gin.Context) {
	var req dto.SummaryReq
	if !api.BindJSON(c, &req) {
		return
	}
	res, err := h.uc.Summarize(c.Request.Context(), req.TenderText)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SummaryRes{Structured: res.Structured, Summary: res.Summary, Text: res.Text})
}

// CoverLetter handles POST /api/ai/cover-letter.
func (h *AssistantHandler) CoverLetter(c *gin.Context) {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.CoverLetterReq
	if !api.BindJSON(c, &req) {
		return
	}
	letter, err := h.uc.CoverLetter(c.Request.Context(), usecase.CoverLetterInput{
		UserID:         user.ID,
		TenderText:     req.TenderText,
		TenderID:       req.TenderID,
		CompanyProfile: dto.Profile(req.CompanyProfile),
	})
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LetterRes{Letter: letter})
}

// ReleaseLetter handles POST /api/ai/release-letter.
func (h *AssistantHandler) ReleaseLetter(c *gin.Context) {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.ReleaseLetterReq
	if !api.BindJSON(c, &req) {
		return
	}
	letter, err := h.uc.ReleaseLetter(c.Request.Context(), usecase.ReleaseLetterInput{
		UserID:           user.ID,
		TenderTitle:      req.TenderTitle,
		AuthorizedPerson: req.AuthorizedPerson,
		CompanyProfile:   dto.Profile(req.CompanyProfile),
	})
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.LetterRes{Letter: letter})
}

// Chat handles POST /api/ai/chat. Each call is independent.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req dto.ChatReq
	if !api.BindJSON(c, &req) {
		return
	}
	answer, err := h.uc.Chat(c.Request.Context(), req.TenderID, req.Question)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ChatRes{Answer: answer})
}
