// Package ratelimiter limits how often a caller may hit an expensive endpoint.
//
// Counters live in Redis so every instance behind a load balancer shares them.
// The window is fixed: each key gets limit calls per window, counted from the
// window boundary.
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"tender_backend/internal/api"
	"tender_backend/internal/platform/metrics"
)

// RateLimiter counts calls per key in fixed windows.
type RateLimiter struct {
	client redis.Cmdable
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter returns nil when client is nil or limit is not positive, which
// Middleware treats as "no limit".
func NewRateLimiter(client redis.Cmdable, prefix string, limit int, window time.Duration) *RateLimiter {
	if client == nil || limit <= 0 || window <= 0 {
		return nil
	}
	return &RateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records one call for key. When the limit is exceeded it returns false and the
// time until the window resets. Redis errors are returned with allowed=true.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := rl.now()
	start := now.Truncate(rl.window)
	k := fmt.Sprintf("%s:%s:%d", rl.prefix, key, start.Unix())

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, err
	}

	if incr.Val() > int64(rl.limit) {
		return false, start.Add(rl.window).Sub(now), nil
	}
	return true, 0, nil
}

// Middleware rejects requests over the limit with 429. keyFunc picks the bucket (user id,
// client IP); an empty key skips limiting. A nil limiter passes everything through.
// The limiter fails open when Redis is unreachable.
func Middleware(rl *RateLimiter, scope string, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}
		key := keyFunc(c)
		if key == "" {
			c.Next()
			return
		}

		allowed, retryAfter, err := rl.Allow(c.Request.Context(), scope+":"+key)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "scope", scope, "error", err)
		}
		if !allowed {
			metrics.RateLimited.WithLabelValues(scope).Inc()
			secs := int(math.Ceil(retryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Error: "rate limit exceeded, try again later"})
			return
		}
		c.Next()
	}
}
