// Package adapters implements tender persistence with gorm.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tender_backend/internal/feature/tender/domain/entity"
	"tender_backend/internal/feature/tender/usecase"
	"tender_backend/internal/platform/db"
)

// TenderModel is the gorm row for a tender. Requirements are stored as a JSON array.
type TenderModel struct {
	ID          uint `gorm:"primaryKey"`
	PublisherID uint `gorm:"not null;index"`

	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	Deadline    time.Time `gorm:"type:date;not null;index"`
	Value       string    `gorm:"size:255"`
	Category    string    `gorm:"size:100;not null;index"`
	Region      string    `gorm:"size:100;not null;index"`

	ContactPersonName   string `gorm:"size:255;not null"`
	ContactPersonNumber string `gorm:"size:50;not null"`
	ContactPersonEmail  string `gorm:"size:255;not null"`
	CompanyWebsite      string `gorm:"size:255"`

	Requirements string `gorm:"type:text"`

	FilePath               string `gorm:"size:512"`
	AdvertisementImagePath string `gorm:"size:512"`
	TenderText             string `gorm:"type:text"`

	ViewCount int `gorm:"not null;default:0"`
	BidCount  int `gorm:"not null;default:0"`
	CreatedAt time.Time
}

// TableName pins the table name.
func (TenderModel) TableName() string { return "tenders" }

func toModel(t *entity.Tender) (*TenderModel, error) {
	reqs := t.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	b, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode requirements: %w", err)
	}
	return &TenderModel{
		ID:                     t.ID,
		PublisherID:            t.PublisherID,
		Title:                  t.Title,
		Description:            t.Description,
		Deadline:               t.Deadline,
		Value:                  t.Value,
		Category:               t.Category,
		Region:                 t.Region,
		ContactPersonName:      t.ContactPersonName,
		ContactPersonNumber:    t.ContactPersonNumber,
		ContactPersonEmail:     t.ContactPersonEmail,
		CompanyWebsite:         t.CompanyWebsite,
		Requirements:           string(b),
		FilePath:               t.FilePath,
		AdvertisementImagePath: t.AdvertisementImagePath,
		TenderText:             t.TenderText,
		ViewCount:              t.ViewCount,
		BidCount:               t.BidCount,
		CreatedAt:              t.CreatedAt,
	}, nil
}

// ToEntity converts the row into the domain entity.
func (m *TenderModel) ToEntity() entity.Tender {
	var reqs []string
	if m.Requirements != "" {
		if err := json.Unmarshal([]byte(m.Requirements), &reqs); err != nil {
			reqs = nil
		}
	}
	if reqs == nil {
		reqs = []string{}
	}
	y, mo, d := m.Deadline.Date()
	return entity.Tender{
		ID:                     m.ID,
		PublisherID:            m.PublisherID,
		Title:                  m.Title,
		Description:            m.Description,
		Deadline:               time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
		Value:                  m.Value,
		Category:               m.Category,
		Region:                 m.Region,
		ContactPersonName:      m.ContactPersonName,
		ContactPersonNumber:    m.ContactPersonNumber,
		ContactPersonEmail:     m.ContactPersonEmail,
		CompanyWebsite:         m.CompanyWebsite,
		Requirements:           reqs,
		FilePath:               m.FilePath,
		AdvertisementImagePath: m.AdvertisementImagePath,
		TenderText:             m.TenderText,
		ViewCount:              m.ViewCount,
		BidCount:               m.BidCount,
		CreatedAt:              m.CreatedAt,
	}
}

type tenderRepository struct {
	db *gorm.DB
}

var _ usecase.TenderRepository = (*tenderRepository)(nil)

// NewTenderRepository creates a new tenderRepository.
func NewTenderRepository(db *gorm.DB) *tenderRepository {
	return &tenderRepository{db: db}
}

func (r *tenderRepository) Create(ctx context.Context, t *entity.Tender) error {
	m, err := toModel(t)
	if err != nil {
		return err
	}
	if err := db.Conn(ctx, r.db).Create(m).Error; err != nil {
		return fmt.Errorf("failed to insert tender: %w", err)
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	return nil
}

// List returns tenders newest first without their extracted text.
func (r *tenderRepository) List(ctx context.Context, f entity.ListFilter) ([]entity.Tender, error) {
	q := db.Conn(ctx, r.db).Model(&TenderModel{}).Omit("tender_text")
	if f.PublisherID != nil {
		q = q.Where("publisher_id = ?", *f.PublisherID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Region != "" {
		q = q.Where("region = ?", f.Region)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var rows []TenderModel
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenders: %w", err)
	}
	out := make([]entity.Tender, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}

func (r *tenderRepository) FindByID(ctx context.Context, id uint) (*entity.Tender, error) {
	var m TenderModel
	if err := db.Conn(ctx, r.db).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTenderNotFound
		}
		return nil, err
	}
	t := m.ToEntity()
	return &t, nil
}

func (r *tenderRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.increment(ctx, id, "view_count")
}

func (r *tenderRepository) IncrementBidCount(ctx context.Context, id uint) error {
	return r.increment(ctx, id, "bid_count")
}

func (r *tenderRepository) increment(ctx context.Context, id uint, column string) error {
	res := db.Conn(ctx, r.db).Model(&TenderModel{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTenderNotFound
	}
	return nil
}

// Counts returns the number of tenders and of tenders whose deadline is not before today.
func (r *tenderRepository) Counts(ctx context.Context, today time.Time) (total, open int64, err error) {
	conn := db.Conn(ctx, r.db).Model(&TenderModel{})
	if err = conn.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = db.Conn(ctx, r.db).Model(&TenderModel{}).
		Where("deadline >= ?", today.UTC().Format(entity.DateLayout)).
		Count(&open).Error
	if err != nil {
		return 0, 0, err
	}
	return total, open, nil
}
