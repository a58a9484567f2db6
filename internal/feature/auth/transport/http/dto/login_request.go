// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

import "tender_backend/internal/api"

// LoginReq represents the request body for the /api/login endpoint.
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRes carries everything a client needs to build its session.
type LoginRes struct {
	Token string           `json:"token"`
	User  api.UserResponse `json:"user"`
}
