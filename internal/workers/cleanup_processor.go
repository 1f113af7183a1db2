// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/warehouse-be/internal/adapters/storage"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	storage   ports.FileStorage
	retention time.Duration
	logger    *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(files ports.FileStorage, retention time.Duration, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		storage:   files,
		retention: retention,
		logger:    logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupImports removes uploaded spreadsheets older than the retention period
func (p *CleanupProcessor) CleanupImports(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up import uploads")

	objects, err := p.storage.List(ctx, storage.ImportPrefix())
	if err != nil {
		return fmt.Errorf("failed to list uploads: %w", err)
	}

	cutoff := time.Now().Add(-p.retention)
	var deletedCount int
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := p.storage.Delete(ctx, obj.Key); err != nil {
			p.logger.WarnContext(ctx, "failed to delete upload",
				slog.String("key", obj.Key),
				slog.String("error", err.Error()))
			continue
		}
		deletedCount++
	}

	p.logger.InfoContext(ctx, "import uploads cleaned up",
		slog.Int("files_deleted", deletedCount),
		slog.Int("files_kept", len(objects)-deletedCount))

	return nil
}
