// internal/core/services/capacity.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// CapacityEngine is the only path through which a warehouse's currentCapacity
// changes. Every step is a single conditional increment in the store, so the
// headroom check and the write observe the same row version.
type CapacityEngine struct {
	warehouses ports.WarehouseRepository
	logger     *slog.Logger
}

// NewCapacityEngine creates a new capacity engine
func NewCapacityEngine(warehouses ports.WarehouseRepository, logger *slog.Logger) *CapacityEngine {
	return &CapacityEngine{
		warehouses: warehouses,
		logger:     logger.With(slog.String("service", "capacity")),
	}
}

// Reserve adds amount units to the warehouse.
func (e *CapacityEngine) Reserve(ctx context.Context, warehouseID uuid.UUID, amount int) (*domain.CapacityChange, error) {
	if amount <= 0 {
		return nil, domain.InvalidAmount(amount)
	}
	return e.apply(ctx, warehouseID, amount)
}

// Release returns amount units to the warehouse. Releasing more than is
// reserved is a bookkeeping bug and fails instead of clamping.
func (e *CapacityEngine) Release(ctx context.Context, warehouseID uuid.UUID, amount int) (*domain.CapacityChange, error) {
	if amount <= 0 {
		return nil, domain.InvalidAmount(amount)
	}
	return e.apply(ctx, warehouseID, -amount)
}

// Adjust applies a signed delta. A zero delta is a no-op that still verifies
// the warehouse exists.
func (e *CapacityEngine) Adjust(ctx context.Context, warehouseID uuid.UUID, delta int) (*domain.CapacityChange, error) {
	switch {
	case delta > 0:
		return e.Reserve(ctx, warehouseID, delta)
	case delta < 0:
		return e.Release(ctx, warehouseID, -delta)
	}

	w, err := e.warehouses.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouse: %w", err)
	}
	if w == nil {
		return nil, domain.NotFound("warehouse", warehouseID)
	}
	return &domain.CapacityChange{
		WarehouseID: w.ID,
		Name:        w.Name,
		Current:     w.CurrentCapacity,
		Max:         w.MaxCapacity,
		Applied:     true,
	}, nil
}

func (e *CapacityEngine) apply(ctx context.Context, warehouseID uuid.UUID, delta int) (*domain.CapacityChange, error) {
	change, err := e.warehouses.AdjustCapacity(ctx, warehouseID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust capacity: %w", err)
	}
	if change == nil {
		return nil, domain.NotFound("warehouse", warehouseID)
	}

	if !change.Applied {
		if delta > 0 {
			return nil, domain.CapacityExceeded(change.Name, delta, change.Max-change.Current)
		}
		e.logger.ErrorContext(ctx, "capacity release below zero",
			slog.String("warehouse_id", warehouseID.String()),
			slog.Int("current", change.Current),
			slog.Int("release", -delta))
		return nil, domain.NewError(domain.KindInvariantViolation,
			"release of %d units would take warehouse %s below zero (current %d)",
			-delta, change.Name, change.Current)
	}

	e.logger.DebugContext(ctx, "capacity adjusted",
		slog.String("warehouse_id", warehouseID.String()),
		slog.Int("delta", delta),
		slog.Int("current", change.Current),
		slog.Int("max", change.Max))

	return change, nil
}
