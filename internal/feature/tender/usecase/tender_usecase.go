package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tender_backend/internal/feature/tender/domain/entity"
)

const (
	MaxDocumentSize = 20 << 20
	MaxImageSize    = 5 << 20

	DefaultListLimit = 20
	MaxListLimit     = 100
)

var (
	documentExts = map[string]string{".pdf": "application/pdf", ".txt": "text/plain; charset=utf-8"}
	imageExts    = map[string]string{".png": "image/png", ".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".webp": "image/webp"}
)

// TenderRepository abstracts tender persistence.
type TenderRepository interface {
	Create(ctx context.Context, t *entity.Tender) error
	List(ctx context.Context, f entity.ListFilter) ([]entity.Tender, error)
	// FindByID returns ErrTenderNotFound when no tender matches.
	FindByID(ctx context.Context, id uint) (*entity.Tender, error)
	// IncrementViewCount returns ErrTenderNotFound when no tender matches.
	IncrementViewCount(ctx context.Context, id uint) error
	// IncrementBidCount returns ErrTenderNotFound when no tender matches.
	IncrementBidCount(ctx context.Context, id uint) error
}

// FileStorage persists uploads and returns the stored path.
type FileStorage interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, storedPath string) error
}

// TextExtractor turns a document into plain text. filename selects the format.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// Upload is a file received with a submission.
type Upload struct {
	Filename string
	Data     []byte
}

// CreateInput is a tender submission.
type CreateInput struct {
	PublisherID uint

	Title               string
	Description         string
	Deadline            string
	Value               string
	Category            string
	Region              string
	ContactPersonName   string
	ContactPersonNumber string
	ContactPersonEmail  string
	CompanyWebsite      string
	Requirements        []string

	Document *Upload
	Image    *Upload
}

// CreateResult carries the stored tender and a warning when extraction failed.
type CreateResult struct {
	Tender            *entity.Tender
	ExtractionWarning string
}

type tenderUsecase struct {
	repo      TenderRepository
	files     FileStorage
	extractor TextExtractor
	newID     func() string
}

// NewTenderUsecase creates a new tenderUsecase.
func NewTenderUsecase(repo TenderRepository, files FileStorage, extractor TextExtractor) *tenderUsecase {
	return &tenderUsecase{
		repo:      repo,
		files:     files,
		extractor: extractor,
		newID:     uuid.NewString,
	}
}

// Create validates the submission, stores the files, extracts the document text and
// inserts the tender. An extraction failure never fails the request.
func (u *tenderUsecase) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	t, err := buildTender(in)
	if err != nil {
		return nil, err
	}
	docExt, err := checkUpload(in.Document, documentExts, MaxDocumentSize, ErrUnsupportedDocument, ErrDocumentTooLarge)
	if err != nil {
		return nil, err
	}
	imgExt, err := checkUpload(in.Image, imageExts, MaxImageSize, ErrUnsupportedImage, ErrImageTooLarge)
	if err != nil {
		return nil, err
	}

	var stored []string
	cleanup := func() {
		for _, p := range stored {
			if err := u.files.Delete(context.WithoutCancel(ctx), p); err != nil {
				slog.Warn("failed to remove orphaned upload", "path", p, "error", err)
			}
		}
	}

	if in.Document != nil {
		p, err := u.save(ctx, "documents", docExt, documentExts[docExt], in.Document.Data)
		if err != nil {
			return nil, err
		}
		stored = append(stored, p)
		t.FilePath = p
	}
	if in.Image != nil {
		p, err := u.save(ctx, "images", imgExt, imageExts[imgExt], in.Image.Data)
		if err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, p)
		t.AdvertisementImagePath = p
	}

	res := &CreateResult{Tender: t}
	if in.Document != nil {
		text, err := u.extractor.Extract(ctx, in.Document.Filename, in.Document.Data)
		if err != nil {
			slog.Warn("document text extraction failed", "file", t.FilePath, "error", err)
			res.ExtractionWarning = extractionWarning
		} else {
			t.TenderText = text
		}
	}

	if err := u.repo.Create(ctx, t); err != nil {
		cleanup()
		return nil, err
	}
	slog.Info("tender created", "tender_id", t.ID, "publisher_id", t.PublisherID, "has_text", t.TenderText != "")
	return res, nil
}

// List returns tenders newest first.
func (u *tenderUsecase) List(ctx context.Context, f entity.ListFilter) ([]entity.Tender, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, ErrInvalidPagination
	}
	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	f.Category = strings.TrimSpace(f.Category)
	f.Region = strings.TrimSpace(f.Region)
	return u.repo.List(ctx, f)
}

// Get returns one tender and counts the view.
func (u *tenderUsecase) Get(ctx context.Context, id uint) (*entity.Tender, error) {
	t, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.repo.IncrementViewCount(ctx, id); err != nil {
		return nil, err
	}
	t.ViewCount++
	return t, nil
}

func (u *tenderUsecase) save(ctx context.Context, dir, ext, contentType string, data []byte) (string, error) {
	key := dir + "/" + u.newID() + ext
	p, err := u.files.Save(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", key, err)
	}
	return p, nil
}

func buildTender(in CreateInput) (*entity.Tender, error) {
	required := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"deadline", in.Deadline},
		{"region", in.Region},
		{"category", in.Category},
		{"contactPersonName", in.ContactPersonName},
		{"contactPersonNumber", in.ContactPersonNumber},
		{"contactPersonEmail", in.ContactPersonEmail},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, requiredField(r.name)
		}
	}

	deadline, err := time.Parse(entity.DateLayout, strings.TrimSpace(in.Deadline))
	if err != nil {
		return nil, ErrInvalidDeadline
	}
	contactEmail := strings.TrimSpace(in.ContactPersonEmail)
	if addr, err := mail.ParseAddress(contactEmail); err != nil || addr.Address != contactEmail {
		return nil, ErrInvalidContactEmail
	}

	reqs := make([]string, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}

	return &entity.Tender{
		PublisherID:         in.PublisherID,
		Title:               strings.TrimSpace(in.Title),
		Description:         strings.TrimSpace(in.Description),
		Deadline:            deadline,
		Value:               strings.TrimSpace(in.Value),
		Category:            strings.TrimSpace(in.Category),
		Region:              strings.TrimSpace(in.Region),
		ContactPersonName:   strings.TrimSpace(in.ContactPersonName),
		ContactPersonNumber: strings.TrimSpace(in.ContactPersonNumber),
		ContactPersonEmail:  contactEmail,
		CompanyWebsite:      strings.TrimSpace(in.CompanyWebsite),
		Requirements:        reqs,
	}, nil
}

// checkUpload returns the lower-cased extension of up, or "" when up is nil.
func checkUpload(up *Upload, allowed map[string]string, maxSize int, errType, errSize error) (string, error) {
	if up == nil {
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if _, ok := allowed[ext]; !ok {
		return "", errType
	}
	if len(up.Data) > maxSize {
		return "", errSize
	}
	return ext, nil
}
