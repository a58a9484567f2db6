package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"tender_backend/internal/feature/assistant/adapters/gemini"
	"tender_backend/internal/feature/assistant/usecase"
	infrahttp "tender_backend/internal/platform/http"
	"tender_backend/internal/shared/ratelimiter"
)

// NewGenerator creates the Gemini text generator. Without an API key, or when the client
// cannot be created, every AI call fails with a gateway error instead.
func NewGenerator(ctx context.Context, apiKey, model string, timeout time.Duration) usecase.Generator {
	gen, err := gemini.NewGenerator(ctx, apiKey, model, infrahttp.NewHTTPClient(timeout))
	if err != nil {
		slog.Warn("AI assistant disabled", "error", err)
		return gemini.Disabled{}
	}
	return gen
}

// NewAILimiter limits each user to limit AI calls per minute. It returns nil, meaning
// no limit, when Redis is unavailable.
func NewAILimiter(rdb *redis.Client, limit int) *ratelimiter.RateLimiter {
	if rdb == nil {
		return nil
	}
	return ratelimiter.NewRateLimiter(rdb, "ratelimit", limit, time.Minute)
}
