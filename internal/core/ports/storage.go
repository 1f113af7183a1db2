// internal/core/ports/storage.go
package ports

import (
	"context"
	"io"
	"time"
)

// FileStorage stores uploaded and generated files by key.
type FileStorage interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]StoredObject, error)
	GetPresignedURL(ctx context.Context, key string, duration time.Duration) (string, error)
}

// StoredObject describes one stored file.
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}
