package ratelimiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, limit int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, "ratelimit", limit, time.Minute)
	require.NotNil(t, rl)
	return rl, mr
}

func TestNewRateLimiter_Disabled(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewRateLimiter(nil, "p", 10, time.Minute))

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer rdb.Close()
	assert.Nil(t, NewRateLimiter(rdb, "p", 0, time.Minute))
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	rl, _ := setupLimiter(t, 2)
	base := time.Date(2026, 5, 1, 10, 0, 15, 0, time.UTC)
	rl.now = func() time.Time { return base }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _, err := rl.Allow(ctx, "user:1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, retry, err := rl.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 45*time.Second, retry)

	// another key has its own bucket
	ok, _, err = rl.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, ok)

	// next window resets
	rl.now = func() time.Time { return base.Add(time.Minute) }
	ok, _, err = rl.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_SetsExpiry(t *testing.T) {
	t.Parallel()

	rl, mr := setupLimiter(t, 5)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return base }

	_, _, err := rl.Allow(context.Background(), "user:9")
	require.NoError(t, err)

	key := "ratelimit:user:9:" + "1777629600"
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	rl, _ := setupLimiter(t, 1)

	r := gin.New()
	r.POST("/api/ai/chat", Middleware(rl, "ai", func(c *gin.Context) string {
		return c.GetHeader("X-User")
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(user string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", nil)
		req.Header.Set("X-User", user)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("7").Code)

	w := send("7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded, try again later"}`, w.Body.String())

	// empty key is not limited
	assert.Equal(t, http.StatusOK, send("").Code)
	assert.Equal(t, http.StatusOK, send("").Code)
}

func TestMiddleware_FailsOpen(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	rl, mr := setupLimiter(t, 1)
	mr.Close()

	r := gin.New()
	r.GET("/x", Middleware(rl, "ai", func(*gin.Context) string { return "1" }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestMiddleware_NilLimiter(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", Middleware(nil, "ai", func(*gin.Context) string { return "1" }), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
