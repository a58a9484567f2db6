// Package handler provides the HTTP handlers for tenders.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tender_backend/internal/api"
	authmw "tender_backend/internal/feature/auth/transport/middleware"
	"tender_backend/internal/feature/tender/domain/entity"
	"tender_backend/internal/feature/tender/transport/http/dto"
	"tender_backend/internal/feature/tender/usecase"
)

// maxFormSize bounds the whole multipart body.
const maxFormSize = usecase.MaxDocumentSize + usecase.MaxImageSize + 1<<20

// TenderUsecase defines the tender operations used by the handler.
type TenderUsecase interface {
	Create(ctx context.Context, in usecase.CreateInput) (*usecase.CreateResult, error)
	List(ctx context.Context, f entity.ListFilter) ([]entity.Tender, error)
	Get(ctx context.Context, id uint) (*entity.Tender, error)
}

// TenderHandler handles HTTP requests for tenders.
type TenderHandler struct {
	tenders TenderUsecase
	now     func() time.Time
}

// NewTenderHandler creates a new TenderHandler.
func NewTenderHandler(tenders TenderUsecase) *TenderHandler {
	return &TenderHandler{tenders: tenders, now: time.Now}
}

// Create handles POST /api/tenders (multipart/form-data).
func (h *TenderHandler) Create(c *gin.Context) {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormSize)
	if err := c.Request.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.BadRequest(c, "request body too large")
			return
		}
		api.BadRequest(c, "invalid multipart form")
		return
	}

	reqs, err := requirements(c)
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	doc, err := readUpload(c, "document", usecase.MaxDocumentSize)
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	img, err := readUpload(c, "advertisementImage", usecase.MaxImageSize)
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	res, err := h.tenders.Create(c.Request.Context(), usecase.CreateInput{
		PublisherID:         user.ID,
		Title:               c.PostForm("title"),
		Description:         c.PostForm("description"),
		Deadline:            c.PostForm("deadline"),
		Value:               c.PostForm("value"),
		Category:            c.PostForm("category"),
		Region:              c.PostForm("region"),
		ContactPersonName:   c.PostForm("contactPersonName"),
		ContactPersonNumber: c.PostForm("contactPersonNumber"),
		ContactPersonEmail:  c.PostForm("contactPersonEmail"),
		CompanyWebsite:      c.PostForm("companyWebsite"),
		Requirements:        reqs,
		Document:            doc,
		Image:               img,
	})
	if err != nil {
		slog.Warn("tender creation failed", "error", err, "publisher_id", user.ID)
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateTenderRes{
		TenderRes:         dto.NewTenderRes(res.Tender, h.now()),
		ExtractionWarning: res.ExtractionWarning,
	})
}

// List handles GET /api/tenders.
func (h *TenderHandler) List(c *gin.Context) {
	publisherID, err := api.QueryUint(c, "publisherId")
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	limit, err := api.QueryInt(c, "limit", 0)
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	offset, err := api.QueryInt(c, "offset", 0)
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}

	tenders, err := h.tenders.List(c.Request.Context(), entity.ListFilter{
		PublisherID: publisherID,
		Category:    c.Query("category"),
		Region:      c.Query("region"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTenderList(tenders, h.now()))
}

// Get handles GET /api/tenders/:id.
func (h *TenderHandler) Get(c *gin.Context) {
	id, err := api.PathID(c, "id")
	if err != nil {
		api.BadRequest(c, err.Error())
		return
	}
	t, err := h.tenders.Get(c.Request.Context(), id)
	if err != nil {
		api.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTenderRes(t, h.now()))
}

// requirements accepts either repeated form fields or a single JSON array string.
func requirements(c *gin.Context) ([]string, error) {
	values := c.PostFormArray("requirements")
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var out []string
		if err := json.Unmarshal([]byte(values[0]), &out); err != nil {
			return nil, errors.New("requirements must be a JSON array of strings")
		}
		return out, nil
	}
	return values, nil
}

// readUpload reads at most limit+1 bytes so the usecase can reject oversized files.
func readUpload(c *gin.Context, field string, limit int64) (*usecase.Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s", field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("invalid %s", field)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("invalid %s", field)
	}
	return &usecase.Upload{Filename: fh.Filename, Data: data}, nil
}
