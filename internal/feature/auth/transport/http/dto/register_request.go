package dto

import (
	"tender_backend/internal/api"
	"tender_backend/internal/feature/auth/domain/entity"
)

// RegisterPublisherReq is the body of POST /api/publisher/register.
// Email format and password length are checked by the usecase so every client gets the same messages.
type RegisterPublisherReq struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CompanyName string `json:"companyName" binding:"required"`
	Position    string `json:"position"`
}

// RegisterBidderReq is the body of POST /api/bidder/register.
type RegisterBidderReq struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CompanyName string `json:"companyName"`
	Position    string `json:"position"`
}

// RegisterRes acknowledges a new account.
type RegisterRes struct {
	Message string           `json:"message"`
	User    api.UserResponse `json:"user"`
}

// NewUserResponse renders u without its password hash.
func NewUserResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Status:      string(u.Status),
		CompanyName: u.CompanyName,
		Position:    u.Position,
		CreatedAt:   u.CreatedAt,
	}
}
