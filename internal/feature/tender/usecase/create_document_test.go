package usecase_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tender_backend/internal/feature/tender/adapters"
	"tender_backend/internal/feature/tender/adapters/extract"
	"tender_backend/internal/feature/tender/usecase"
	"tender_backend/internal/platform/db/dbtest"
	"tender_backend/internal/platform/storage"
)

func TestCreate_PersistsExtractedText(t *testing.T) {
	repo := adapters.NewTenderRepository(dbtest.Open(t, &adapters.TenderModel{}))
	files, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	uc := usecase.NewTenderUsecase(repo, files, extract.NewLocal())

	doc, err := os.ReadFile("testdata/notice.pdf")
	require.NoError(t, err)

	res, err := uc.Create(context.Background(), usecase.CreateInput{
		PublisherID:         7,
		Title:               "Office desks",
		Deadline:            "2026-12-01",
		Category:            "Furniture",
		Region:              "North",
		ContactPersonName:   "Ada",
		ContactPersonNumber: "+1 555 0100",
		ContactPersonEmail:  "ada@acme.com",
		Document:            &usecase.Upload{Filename: "notice.pdf", Data: doc},
	})
	require.NoError(t, err)
	assert.Empty(t, res.ExtractionWarning)

	stored, err := repo.FindByID(context.Background(), res.Tender.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.TenderText, "Deadline is 2026-12-01")
	assert.NotEmpty(t, stored.FilePath)
}
