// internal/workers/audit_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// AuditProcessor runs the periodic capacity audit
type AuditProcessor struct {
	auditor ports.CapacityAuditor
	logger  *slog.Logger
}

// NewAuditProcessor creates a new audit processor
func NewAuditProcessor(auditor ports.CapacityAuditor, logger *slog.Logger) *AuditProcessor {
	return &AuditProcessor{
		auditor: auditor,
		logger:  logger.With(slog.String("processor", "audit")),
	}
}

// AuditCapacity reports warehouses whose recorded capacity disagrees with
// their items. Drift is logged and stored in the result, it never fails the task.
func (p *AuditProcessor) AuditCapacity(ctx context.Context, t *asynq.Task) error {
	report, err := p.auditor.Audit(ctx)
	if err != nil {
		return fmt.Errorf("capacity audit failed: %w", err)
	}

	for _, drift := range report.Drifts {
		p.logger.ErrorContext(ctx, "capacity drift detected",
			slog.String("warehouse_id", drift.WarehouseID.String()),
			slog.String("name", drift.Name),
			slog.Int("recorded", drift.Recorded),
			slog.Int64("actual", drift.Actual))
	}

	if err := writeResult(t, report); err != nil {
		p.logger.WarnContext(ctx, "failed to store audit result",
			slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "capacity audit completed",
		slog.Int("warehouses", report.Warehouses),
		slog.Int("drifts", len(report.Drifts)))
	return nil
}
