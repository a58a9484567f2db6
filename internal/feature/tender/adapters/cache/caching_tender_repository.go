// Package cache provides a Redis-backed decorator for the tender repository.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"tender_backend/internal/feature/tender/domain/entity"
	"tender_backend/internal/feature/tender/usecase"
	"tender_backend/internal/platform/metrics"
)

// CachingTenderRepository decorates a TenderRepository with Redis caching of list queries.
// Single-tender reads and counters go straight to the inner repository.
type CachingTenderRepository struct {
	inner     usecase.TenderRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TenderRepository = (*CachingTenderRepository)(nil)

// NewCachingTenderRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "tenders".
func NewCachingTenderRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TenderRepository, namespace string) *CachingTenderRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "tenders"
	}
	return &CachingTenderRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts the tender and invalidates every cached listing.
func (c *CachingTenderRepository) Create(ctx context.Context, t *entity.Tender) error {
	if err := c.inner.Create(ctx, t); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	// Best effort: a stale list expires with the TTL.
	if err := c.deleteByPattern(ctx, c.namespace+":list:*"); err != nil {
		slog.Warn("tender cache invalidation failed", "error", err)
	}
	return nil
}

// List checks the cache first, then falls back to the inner repository.
func (c *CachingTenderRepository) List(ctx context.Context, f entity.ListFilter) ([]entity.Tender, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, f)
	}

	key := c.cacheKey(f)

	// 1) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out []entity.Tender
		if err := json.Unmarshal(b, &out); err == nil {
			c.observe("hit")
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		c.observe("miss")
	case err == nil || err == redis.Nil:
		c.observe("miss")
	default:
		c.observe("error")
	}

	// 2) Fallback to database
	out, err := c.inner.List(ctx, f)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CachingTenderRepository) FindByID(ctx context.Context, id uint) (*entity.Tender, error) {
	return c.inner.FindByID(ctx, id)
}

func (c *CachingTenderRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return c.inner.IncrementViewCount(ctx, id)
}

func (c *CachingTenderRepository) IncrementBidCount(ctx context.Context, id uint) error {
	return c.inner.IncrementBidCount(ctx, id)
}

func (c *CachingTenderRepository) observe(result string) {
	metrics.CacheLookups.WithLabelValues(c.namespace, result).Inc()
}

// cacheKey generates a cache key for a specific listing query.
func (c *CachingTenderRepository) cacheKey(f entity.ListFilter) string {
	publisher := "all"
	if f.PublisherID != nil {
		publisher = fmt.Sprintf("%d", *f.PublisherID)
	}
	return fmt.Sprintf("%s:list:%s:%s:%s:%d:%d",
		c.namespace,
		publisher,
		safe(f.Category),
		safe(f.Region),
		f.Limit,
		f.Offset,
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingTenderRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// absent marks an unset filter. QueryEscape always encodes "!", so no value can collide with it.
const absent = "!"

// safe encodes a filter value for use as a key segment. The encoding is injective and
// escapes ":" and the glob metacharacters.
func safe(s string) string {
	if s == "" {
		return absent
	}
	return url.QueryEscape(s)
}
