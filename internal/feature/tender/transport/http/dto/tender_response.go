// Package dto defines the JSON shapes of the tender endpoints.
package dto

import (
	"time"

	"tender_backend/internal/feature/tender/domain/entity"
)

// TenderRes is the public view of a tender. Deadline is rendered as YYYY-MM-DD.
type TenderRes struct {
	ID                     uint      `json:"id"`
	PublisherID            uint      `json:"publisherId"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	Deadline               string    `json:"deadline"`
	Value                  string    `json:"value"`
	Category               string    `json:"category"`
	Region                 string    `json:"region"`
	ContactPersonName      string    `json:"contactPersonName"`
	ContactPersonNumber    string    `json:"contactPersonNumber"`
	ContactPersonEmail     string    `json:"contactPersonEmail"`
	CompanyWebsite         string    `json:"companyWebsite"`
	Requirements           []string  `json:"requirements"`
	FilePath               string    `json:"filePath"`
	AdvertisementImagePath string    `json:"advertisementImagePath"`
	TenderText             string    `json:"tenderText,omitempty"`
	ViewCount              int       `json:"viewCount"`
	BidCount               int       `json:"bidCount"`
	Closed                 bool      `json:"closed"`
	CreatedAt              time.Time `json:"createdAt"`
}

// CreateTenderRes is the 201 body of POST /api/tenders.
type CreateTenderRes struct {
	TenderRes
	ExtractionWarning string `json:"extractionWarning,omitempty"`
}

// NewTenderRes converts an entity using now to derive Closed.
func NewTenderRes(t *entity.Tender, now time.Time) TenderRes {
	reqs := t.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return TenderRes{
		ID:                     t.ID,
		PublisherID:            t.PublisherID,
		Title:                  t.Title,
		Description:            t.Description,
		Deadline:               t.Deadline.Format(entity.DateLayout),
		Value:                  t.Value,
		Category:               t.Category,
		Region:                 t.Region,
		ContactPersonName:      t.ContactPersonName,
		ContactPersonNumber:    t.ContactPersonNumber,
		ContactPersonEmail:     t.ContactPersonEmail,
		CompanyWebsite:         t.CompanyWebsite,
		Requirements:           reqs,
		FilePath:               t.FilePath,
		AdvertisementImagePath: t.AdvertisementImagePath,
		TenderText:             t.TenderText,
		ViewCount:              t.ViewCount,
		BidCount:               t.BidCount,
		Closed:                 t.Closed(now),
		CreatedAt:              t.CreatedAt,
	}
}

// NewTenderList converts a listing.
func NewTenderList(ts []entity.Tender, now time.Time) []TenderRes {
	out := make([]TenderRes, 0, len(ts))
	for i := range ts {
		out = append(out, NewTenderRes(&ts[i], now))
	}
	return out
}
