package dto

import "time"

// InviteReq is the body of POST /api/invitations. Role defaults to PUBLISHER.
type InviteReq struct {
	Email       string `json:"email" binding:"required"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName"`
}

// InviteRes describes an issued invitation. The token itself is only sent by email.
type InviteRes struct {
	Message     string    `json:"message"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CompanyName string    `json:"companyName,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// TeamMemberReq is the body of POST /api/team-member-register.
type TeamMemberReq struct {
	Name        string `json:"name" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Position    string `json:"position"`
	Token       string `json:"token" binding:"required"`
	InviteEmail string `json:"inviteEmail" binding:"required"`
}
