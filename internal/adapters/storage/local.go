// internal/adapters/storage/local.go
package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// LocalStorage implements ports.FileStorage on the local filesystem. It is
// used in development when no bucket is configured.
type LocalStorage struct {
	basePath string
	logger   *slog.Logger
}

var _ ports.FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a new local storage client
func NewLocalStorage(basePath string, logger *slog.Logger) *LocalStorage {
	return &LocalStorage{
		basePath: basePath,
		logger:   logger.With(slog.String("storage", "local")),
	}
}

// Upload saves a file under basePath
func (l *LocalStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	target, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	l.logger.DebugContext(ctx, "file stored", slog.String("key", key))
	return target, nil
}

// Download reads a stored file
func (l *LocalStorage) Download(ctx context.Context, key string) ([]byte, error) {
	target, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	target, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// List walks basePath and returns files whose key starts with prefix
func (l *LocalStorage) List(ctx context.Context, prefix string) ([]ports.StoredObject, error) {
	var objects []ports.StoredObject

	err := filepath.WalkDir(l.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(l.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ports.StoredObject{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return objects, nil
}

// GetPresignedURL returns a file:// URL; expiry does not apply locally
func (l *LocalStorage) GetPresignedURL(ctx context.Context, key string, duration time.Duration) (string, error) {
	target, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(target), nil
}

func (l *LocalStorage) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.basePath, clean), nil
}
