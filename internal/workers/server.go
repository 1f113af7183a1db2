// internal/workers/server.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/warehouse-be/internal/pkg/logger"
)

// Processors groups the task handlers served by the worker
type Processors struct {
	Import  *ImportProcessor
	Audit   *AuditProcessor
	Cleanup *CleanupProcessor
}

// NewServeMux routes every task type to its processor
func NewServeMux(p Processors, slogger *slog.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Use(LoggingMiddleware(slogger))

	if p.Import != nil {
		mux.HandleFunc(TypeInventoryImport, p.Import.ProcessImport)
	}
	if p.Audit != nil {
		mux.HandleFunc(TypeCapacityAudit, p.Audit.AuditCapacity)
	}
	if p.Cleanup != nil {
		mux.HandleFunc(TypeCleanupImports, p.Cleanup.CleanupImports)
	}
	return mux
}

// Registrar is the part of *asynq.Scheduler used for periodic tasks
type Registrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (entryID string, err error)
}

// RegisterPeriodicTasks schedules the capacity audit and upload cleanup.
// An empty spec leaves that task unscheduled.
func RegisterPeriodicTasks(s Registrar, auditSpec, cleanupSpec string) error {
	periodic := []struct {
		spec     string
		taskType string
	}{
		{auditSpec, TypeCapacityAudit},
		{cleanupSpec, TypeCleanupImports},
	}

	for _, p := range periodic {
		if p.spec == "" {
			continue
		}
		task := asynq.NewTask(p.taskType, nil)
		if _, err := s.Register(p.spec, task, asynq.Queue(QueueLow), asynq.MaxRetry(1)); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", p.taskType, err)
		}
	}
	return nil
}

// LoggingMiddleware puts the task id and type on the context and logs the
// outcome of every task.
func LoggingMiddleware(slogger *slog.Logger) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			if id, ok := asynq.GetTaskID(ctx); ok {
				ctx = logger.WithContextValue(ctx, logger.ContextKeyTaskID, id)
			}
			ctx = logger.WithContextValue(ctx, logger.ContextKeyTaskType, t.Type())

			start := time.Now()
			err := next.ProcessTask(ctx, t)
			duration := time.Since(start)

			if err != nil {
				slogger.ErrorContext(ctx, "task failed",
					slog.Duration("duration", duration),
					slog.String("error", err.Error()))
				return err
			}
			slogger.InfoContext(ctx, "task completed", slog.Duration("duration", duration))
			return nil
		})
	}
}
