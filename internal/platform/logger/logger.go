// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"tender_backend/internal/platform/config"
)

// Config controls the log handler.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or text
	// FilePath enables a rotating file sink in addition to stdout.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// LoadConfigFromEnv reads LOG_* variables.
func LoadConfigFromEnv() Config {
	return Config{
		Level:      config.String("LOG_LEVEL", "info"),
		Format:     config.String("LOG_FORMAT", "json"),
		FilePath:   config.String("LOG_FILE", ""),
		MaxSizeMB:  config.Int("LOG_MAX_SIZE_MB", 100),
		MaxBackups: config.Int("LOG_MAX_BACKUPS", 3),
		MaxAgeDays: config.Int("LOG_MAX_AGE_DAYS", 7),
	}
}

// New returns a logger writing to stdout and, when configured, to a rotated file.
// The returned closer releases the file sink and is never nil.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, nil, err
		}
		file := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	return slog.New(newHandler(w, cfg)), closer, nil
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// ParseLevel maps a level name to slog.Level. Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
