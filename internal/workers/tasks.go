// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

const (
	TypeInventoryImport = "inventory:import"
	TypeCapacityAudit   = "capacity:audit"
	TypeCleanupImports  = "cleanup:imports"
)

// Queue names, highest priority first
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Enqueuer is the part of *asynq.Client used to submit tasks
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskLookup is the part of *asynq.Inspector used to report task state
type TaskLookup interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
}

// TaskOptions tune how import tasks are submitted
type TaskOptions struct {
	MaxRetry  int
	Timeout   time.Duration
	Retention time.Duration
	Queues    []string
}

// TaskClient submits background work through asynq
type TaskClient struct {
	client    Enqueuer
	inspector TaskLookup
	opts      TaskOptions
}

var _ ports.TaskQueue = (*TaskClient)(nil)

// NewTaskClient creates a task client. Queues defaults to every queue this
// package uses.
func NewTaskClient(client Enqueuer, inspector TaskLookup, opts TaskOptions) *TaskClient {
	if len(opts.Queues) == 0 {
		opts.Queues = []string{QueueCritical, QueueDefault, QueueLow}
	}
	return &TaskClient{client: client, inspector: inspector, opts: opts}
}

// NewImportTask builds the task for one uploaded spreadsheet
func NewImportTask(job ports.ImportJob, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import job: %w", err)
	}
	return asynq.NewTask(TypeInventoryImport, payload, opts...), nil
}

// EnqueueImport queues an uploaded spreadsheet for processing
func (c *TaskClient) EnqueueImport(ctx context.Context, job ports.ImportJob) (string, error) {
	opts := []asynq.Option{asynq.Queue(QueueCritical)}
	if c.opts.MaxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(c.opts.MaxRetry))
	}
	if c.opts.Timeout > 0 {
		opts = append(opts, asynq.Timeout(c.opts.Timeout))
	}
	if c.opts.Retention > 0 {
		opts = append(opts, asynq.Retention(c.opts.Retention))
	}

	task, err := NewImportTask(job)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue import: %w", err)
	}
	return info.ID, nil
}

// TaskStatus looks the task up in every known queue
func (c *TaskClient) TaskStatus(ctx context.Context, taskID string) (*ports.TaskStatus, error) {
	for _, queue := range c.opts.Queues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := c.inspector.GetTaskInfo(queue, taskID)
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get task info: %w", err)
		}
		return statusFromInfo(info), nil
	}
	return nil, domain.NotFound("task", taskID)
}

func statusFromInfo(info *asynq.TaskInfo) *ports.TaskStatus {
	status := &ports.TaskStatus{
		TaskID:    info.ID,
		Type:      info.Type,
		Queue:     info.Queue,
		State:     info.State.String(),
		Retried:   info.Retried,
		MaxRetry:  info.MaxRetry,
		LastError: info.LastErr,
	}
	if len(info.Result) > 0 && json.Valid(info.Result) {
		status.Result = json.RawMessage(info.Result)
	}
	if !info.CompletedAt.IsZero() {
		completed := info.CompletedAt
		status.CompletedAt = &completed
	}
	return status
}

// writeResult stores v as the task result. Tasks built outside a server
// have no result writer.
func writeResult(t *asynq.Task, v any) error {
	rw := t.ResultWriter()
	if rw == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal task result: %w", err)
	}
	if _, err := rw.Write(data); err != nil {
		return fmt.Errorf("failed to write task result: %w", err)
	}
	return nil
}
