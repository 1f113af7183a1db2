// internal/core/services/audit.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// CapacityAuditor compares each warehouse's recorded currentCapacity with
// the sum of its item quantities. It only reads.
type CapacityAuditor struct {
	warehouses ports.WarehouseRepository
	items      ports.InventoryRepository
	logger     *slog.Logger
}

var _ ports.CapacityAuditor = (*CapacityAuditor)(nil)

// NewCapacityAuditor creates a new capacity auditor
func NewCapacityAuditor(warehouses ports.WarehouseRepository, items ports.InventoryRepository, logger *slog.Logger) *CapacityAuditor {
	return &CapacityAuditor{
		warehouses: warehouses,
		items:      items,
		logger:     logger.With(slog.String("service", "capacity_audit")),
	}
}

// Audit returns one drift entry per warehouse whose numbers disagree.
func (a *CapacityAuditor) Audit(ctx context.Context) (*domain.AuditReport, error) {
	ws, err := a.warehouses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}

	totals, err := a.items.TotalsByWarehouse(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}

	report := &domain.AuditReport{
		CheckedAt:  time.Now().UTC(),
		Warehouses: len(ws),
		Drifts:     []domain.CapacityDrift{},
	}

	for _, w := range ws {
		actual := totals[w.ID].Units
		if int64(w.CurrentCapacity) == actual {
			continue
		}
		report.Drifts = append(report.Drifts, domain.CapacityDrift{
			WarehouseID: w.ID,
			Name:        w.Name,
			Recorded:    w.CurrentCapacity,
			Actual:      actual,
		})
		a.logger.ErrorContext(ctx, "capacity drift detected",
			slog.String("warehouse_id", w.ID.String()),
			slog.Int("recorded", w.CurrentCapacity),
			slog.Int64("actual", actual))
	}

	a.logger.InfoContext(ctx, "capacity audit finished",
		slog.Int("warehouses", report.Warehouses),
		slog.Int("drifts", len(report.Drifts)))

	return report, nil
}
