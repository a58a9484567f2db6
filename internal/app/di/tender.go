// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	tenderadapters "tender_backend/internal/feature/tender/adapters"
	"tender_backend/internal/feature/tender/adapters/cache"
	"tender_backend/internal/feature/tender/adapters/extract"
	"tender_backend/internal/feature/tender/usecase"
)

// tenderListTTL bounds how stale a cached tender listing may be.
const tenderListTTL = time.Minute

// NewTenderRepository creates a TenderRepository implementation.
// If Redis is available, listings are cached in it. Otherwise the database is queried directly.
func NewTenderRepository(rdb *redis.Client, db *gorm.DB) usecase.TenderRepository {
	repo := tenderadapters.NewTenderRepository(db)
	if rdb != nil {
		return cache.NewCachingTenderRepository(rdb, tenderListTTL, repo, "tenders")
	}
	return repo
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewExtractor returns the document text extractor selected by name ("local" or "vision").
// The closer releases the Vision client. If Vision cannot be created, it falls back to
// the local engine.
func NewExtractor(ctx context.Context, name string) (usecase.TextExtractor, io.Closer) {
	if name != extract.EngineVision {
		return extract.NewLocal(), nopCloser{}
	}
	v, err := extract.NewVision(ctx)
	if err != nil {
		slog.Warn("Vision unavailable, using local extraction", "error", err)
		return extract.NewLocal(), nopCloser{}
	}
	return extract.NewVisionRouter(v), v
}
