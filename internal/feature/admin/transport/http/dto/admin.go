// Package dto defines the JSON shapes of the admin endpoints.
package dto

import (
	"time"

	"tender_backend/internal/api"
	"tender_backend/internal/feature/admin/domain/entity"
	authentity "tender_backend/internal/feature/auth/domain/entity"
	authdto "tender_backend/internal/feature/auth/transport/http/dto"
)

type StatsRes struct {
	UsersByRole       map[string]int64 `json:"usersByRole"`
	UsersByStatus     map[string]int64 `json:"usersByStatus"`
	PendingPublishers int64            `json:"pendingPublishers"`
	TotalTenders      int64            `json:"totalTenders"`
	OpenTenders       int64            `json:"openTenders"`
}

func NewStatsRes(s *entity.Stats) StatsRes {
	return StatsRes{
		UsersByRole:       s.UsersByRole,
		UsersByStatus:     s.UsersByStatus,
		PendingPublishers: s.PendingPublishers,
		TotalTenders:      s.TotalTenders,
		OpenTenders:       s.OpenTenders,
	}
}

type AuditLogRes struct {
	ID           uint      `json:"id"`
	ActorID      uint      `json:"actorId"`
	Action       string    `json:"action"`
	TargetType   string    `json:"targetType"`
	TargetUserID uint      `json:"targetUserId"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewAuditLogList(logs []entity.AuditLog) []AuditLogRes {
	out := make([]AuditLogRes, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditLogRes{
			ID:           l.ID,
			ActorID:      l.ActorID,
			Action:       l.Action,
			TargetType:   l.TargetType,
			TargetUserID: l.TargetUserID,
			Detail:       l.Detail,
			CreatedAt:    l.CreatedAt,
		})
	}
	return out
}

func NewUserList(users []authentity.User) []api.UserResponse {
	out := make([]api.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, authdto.NewUserResponse(&users[i]))
	}
	return out
}
