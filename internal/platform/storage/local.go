package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files under a directory that the router serves at PublicPrefix.
type Local struct {
	root   string
	prefix string
}

// NewLocal creates root if needed. prefix is the URL path the directory is mounted on.
func NewLocal(root, prefix string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir: %w", err)
	}
	return &Local{root: abs, prefix: "/" + strings.Trim(prefix, "/")}, nil
}

// Root returns the absolute directory files are written to.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) Save(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage/local: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("storage/local: write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("storage/local: close %s: %w", key, err)
	}
	return l.prefix + "/" + key, nil
}

// Delete removes a file by the path Save returned. Missing files are not an error.
func (l *Local) Delete(_ context.Context, storedPath string) error {
	key, err := cleanKey(strings.TrimPrefix(storedPath, l.prefix))
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", key, err)
	}
	return nil
}
