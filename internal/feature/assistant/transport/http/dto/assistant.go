// Package dto defines the JSON shapes of the AI assistant endpoints.
package dto

import "tender_backend/internal/feature/assistant/domain/entity"

type SummaryReq struct {
	TenderText string `json:"tenderText" binding:"required"`
}

// SummaryRes carries Summary when Structured is true and Text otherwise.
type SummaryRes struct {
	Structured bool            `json:"structured"`
	Summary    *entity.Summary `json:"summary,omitempty"`
	Text       string          `json:"text,omitempty"`
}

// CoverLetterReq may omit tenderText when tenderId is given.
type CoverLetterReq struct {
	TenderText     string                 `json:"tenderText"`
	TenderID       *uint                  `json:"tenderId"`
	CompanyProfile *entity.CompanyProfile `json:"companyProfile"`
}

type ReleaseLetterReq struct {
	TenderTitle      string                 `json:"tenderTitle" binding:"required"`
	AuthorizedPerson string                 `json:"authorizedPerson" binding:"required"`
	CompanyProfile   *entity.CompanyProfile `json:"companyProfile"`
}

type LetterRes struct {
	Letter string `json:"letter"`
}

type ChatReq struct {
	TenderID uint   `json:"tenderId" binding:"required"`
	Question string `json:"question" binding:"required"`
}

type ChatRes struct {
	Answer string `json:"answer"`
}

// Profile dereferences an optional profile.
func Profile(p *entity.CompanyProfile) entity.CompanyProfile {
	if p == nil {
		return entity.CompanyProfile{}
	}
	return *p
}
