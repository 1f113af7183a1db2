// internal/core/ports/tasks.go
package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ImportJob asks a worker to create items from an uploaded spreadsheet
type ImportJob struct {
	WarehouseID uuid.UUID `json:"warehouseId"`
	ObjectKey   string    `json:"objectKey"`
	Filename    string    `json:"filename"`
	RequestedBy string    `json:"requestedBy,omitempty"`
}

// TaskStatus is the queue's view of one background task
type TaskStatus struct {
	TaskID      string          `json:"taskId"`
	Type        string          `json:"type"`
	Queue       string          `json:"queue"`
	State       string          `json:"state"`
	Retried     int             `json:"retried"`
	MaxRetry    int             `json:"maxRetry"`
	LastError   string          `json:"lastError,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// TaskQueue schedules background work and reports on it
type TaskQueue interface {
	EnqueueImport(ctx context.Context, job ImportJob) (string, error)

	// TaskStatus returns a NotFound domain error for unknown ids
	TaskStatus(ctx context.Context, taskID string) (*TaskStatus, error)
}
