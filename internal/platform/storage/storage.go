// Package storage persists uploaded files and returns the path clients use to fetch them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tender_backend/internal/platform/config"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// ErrInvalidKey is returned for keys that are empty or escape the storage root.
var ErrInvalidKey = errors.New("storage: invalid key")

// Store writes and removes objects addressed by a slash separated key such as "documents/<uuid>.pdf".
type Store interface {
	// Save writes r under key and returns the stored path (public URL path or object URL).
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	// Delete removes the object previously returned by Save.
	Delete(ctx context.Context, storedPath string) error
}

// Config selects and configures the driver.
type Config struct {
	Driver string
	// Local driver.
	UploadDir    string
	PublicPrefix string
	// S3 driver.
	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string
}

// LoadConfigFromEnv reads STORAGE_DRIVER, UPLOAD_DIR and S3_* variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:       strings.ToLower(config.String("STORAGE_DRIVER", DriverLocal)),
		UploadDir:    config.String("UPLOAD_DIR", "uploads"),
		PublicPrefix: "/uploads",
		S3Bucket:     config.String("S3_BUCKET", ""),
		S3Region:     config.String("S3_REGION", "us-east-1"),
		S3Key:        config.String("S3_KEY", ""),
		S3Secret:     config.String("S3_SECRET", ""),
		S3Endpoint:   config.String("S3_ENDPOINT", ""),
		S3URL:        config.String("S3_URL", ""),
	}
}

// New builds the configured driver.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverLocal, "":
		return NewLocal(cfg.UploadDir, cfg.PublicPrefix)
	case DriverS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.ReplaceAll(key, "\\", "/"), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}
