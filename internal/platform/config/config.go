// Package config reads process configuration from environment variables.
//
// A .env file in the working directory is loaded first (if present) so local runs
// behave like the container. Platform packages keep their own small Config structs
// and read them through the helpers in env.go.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultAppBaseURL      = "http://localhost:8080"
	defaultFrontendBaseURL = "http://localhost:3000"
	defaultConfirmationTTL = 24 * time.Hour
	defaultInvitationTTL   = 7 * 24 * time.Hour
	defaultAITimeout       = 60 * time.Second
	defaultAIRateLimit     = 20
	defaultGeminiModel     = "gemini-2.5-flash"
	defaultJWTExpiration   = 24 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
)

// App holds the settings that are not owned by a single platform package.
type App struct {
	Port            string
	AppBaseURL      string
	// FrontendBaseURL prefixes links that open a frontend page, such as invitations.
	FrontendBaseURL string
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	JWTSecret     string
	JWTExpiration time.Duration

	ConfirmationTTL time.Duration
	InvitationTTL   time.Duration

	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration
	// AIRateLimit is the number of AI calls allowed per user per minute. Zero disables the limit.
	AIRateLimit int

	// Extractor selects the document text engine: "local" or "vision".
	Extractor string
}

// LoadDotEnv loads .env from the working directory. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
}

// Load reads App from the environment.
func Load() App {
	return App{
		Port:            String("PORT", defaultPort),
		AppBaseURL:      strings.TrimRight(String("APP_BASE_URL", defaultAppBaseURL), "/"),
		FrontendBaseURL: strings.TrimRight(String("FRONTEND_BASE_URL", defaultFrontendBaseURL), "/"),
		CORSOrigins:     List("CORS_ORIGINS"),
		ShutdownTimeout: Duration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),

		JWTSecret:     String("JWT_SECRET", ""),
		JWTExpiration: Duration("JWT_EXPIRATION", defaultJWTExpiration),

		ConfirmationTTL: Duration("CONFIRMATION_TTL", defaultConfirmationTTL),
		InvitationTTL:   Duration("INVITATION_TTL", defaultInvitationTTL),

		GeminiAPIKey: String("GEMINI_API_KEY", ""),
		GeminiModel:  String("GEMINI_MODEL", defaultGeminiModel),
		AITimeout:    Duration("AI_TIMEOUT", defaultAITimeout),
		AIRateLimit:  Int("AI_RATE_LIMIT", defaultAIRateLimit),

		Extractor: strings.ToLower(String("EXTRACTOR", "local")),
	}
}
