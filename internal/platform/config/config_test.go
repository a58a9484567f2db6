package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Not parallel: these tests modify environment variables.

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_BASE_URL", "FRONTEND_BASE_URL", "CORS_ORIGINS", "JWT_SECRET", "JWT_EXPIRATION",
		"CONFIRMATION_TTL", "INVITATION_TTL", "AI_TIMEOUT", "AI_RATE_LIMIT", "EXTRACTOR", "GEMINI_MODEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.AppBaseURL)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendBaseURL)
	assert.Nil(t, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.ConfirmationTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.InvitationTTL)
	assert.Equal(t, 60*time.Second, cfg.AITimeout)
	assert.Equal(t, 20, cfg.AIRateLimit)
	assert.Equal(t, "local", cfg.Extractor)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_BASE_URL", "https://tenders.example.com/")
	t.Setenv("FRONTEND_BASE_URL", "https://portal.example.com/")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("AI_TIMEOUT", "45")
	t.Setenv("CONFIRMATION_TTL", "2h")
	t.Setenv("AI_RATE_LIMIT", "5")
	t.Setenv("EXTRACTOR", "Vision")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://tenders.example.com", cfg.AppBaseURL)
	assert.Equal(t, "https://portal.example.com", cfg.FrontendBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 45*time.Second, cfg.AITimeout)
	assert.Equal(t, 2*time.Hour, cfg.ConfirmationTTL)
	assert.Equal(t, 5, cfg.AIRateLimit)
	assert.Equal(t, "vision", cfg.Extractor)
}

func TestEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TEST_INT", "abc")
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "soon")

	assert.Equal(t, 3, Int("TEST_INT", 3))
	assert.True(t, Bool("TEST_BOOL", true))
	assert.Equal(t, time.Minute, Duration("TEST_DURATION", time.Minute))
}
