// internal/core/services/warehouse.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// WarehouseService manages warehouse records. currentCapacity is never
// written here; it only moves through the CapacityEngine.
type WarehouseService struct {
	warehouses ports.WarehouseRepository
	items      ports.InventoryRepository
	notifier   *Notifier
	logger     *slog.Logger
}

var _ ports.WarehouseService = (*WarehouseService)(nil)

// NewWarehouseService creates a new warehouse service
func NewWarehouseService(
	warehouses ports.WarehouseRepository,
	items ports.InventoryRepository,
	notifier *Notifier,
	logger *slog.Logger,
) *WarehouseService {
	return &WarehouseService{
		warehouses: warehouses,
		items:      items,
		notifier:   notifier,
		logger:     logger.With(slog.String("service", "warehouse")),
	}
}

// CreateWarehouse stores a new, empty warehouse
func (s *WarehouseService) CreateWarehouse(ctx context.Context, w *domain.Warehouse) error {
	if err := w.Validate(); err != nil {
		return err
	}
	w.PrepareForStorage()

	exists, err := s.warehouses.ExistsByNameLocation(ctx, w.Name, w.Location, uuid.Nil)
	if err != nil {
		return fmt.Errorf("failed to check warehouse uniqueness: %w", err)
	}
	if exists {
		return domain.NewError(domain.KindDuplicateWarehouse,
			"warehouse %q at %q already exists", w.Name, w.Location)
	}

	if err := s.warehouses.Create(ctx, w); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "created warehouse",
		slog.String("warehouse_id", w.ID.String()),
		slog.String("name", w.Name),
		slog.Int("max_capacity", w.MaxCapacity))

	s.notifier.Committed(ctx, domain.NewEvent(domain.EventWarehouseCreated, w.ID, w))
	return nil
}

// GetWarehouse retrieves a warehouse by ID
func (s *WarehouseService) GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error) {
	w, err := s.warehouses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	if w == nil {
		return nil, domain.NotFound("warehouse", id)
	}
	return w, nil
}

// ListWarehouses returns all warehouses
func (s *WarehouseService) ListWarehouses(ctx context.Context) ([]*domain.Warehouse, error) {
	ws, err := s.warehouses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	return ws, nil
}

// UpdateWarehouse applies the patch. Lowering maxCapacity below the current
// load fails with CapacityExceeded; the check is part of the write itself.
func (s *WarehouseService) UpdateWarehouse(ctx context.Context, id uuid.UUID, patch domain.WarehousePatch) (*domain.Warehouse, error) {
	current, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	next := *current
	if err := patch.Apply(&next); err != nil {
		return nil, err
	}

	if next.Name != current.Name || next.Location != current.Location {
		exists, err := s.warehouses.ExistsByNameLocation(ctx, next.Name, next.Location, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check warehouse uniqueness: %w", err)
		}
		if exists {
			return nil, domain.NewError(domain.KindDuplicateWarehouse,
				"warehouse %q at %q already exists", next.Name, next.Location)
		}
	}

	ok, err := s.warehouses.UpdateDetails(ctx, &next)
	if err != nil {
		return nil, err
	}
	if !ok {
		latest, err := s.GetWarehouse(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, domain.NewError(domain.KindCapacityExceeded,
			"maxCapacity %d is below current capacity %d of warehouse %s",
			next.MaxCapacity, latest.CurrentCapacity, latest.Name)
	}

	s.logger.InfoContext(ctx, "updated warehouse",
		slog.String("warehouse_id", id.String()),
		slog.Int("max_capacity", next.MaxCapacity))

	s.notifier.Committed(ctx, domain.NewEvent(domain.EventWarehouseUpdated, id, &next))
	return &next, nil
}

// DeleteWarehouse removes a warehouse that holds no items and no capacity
func (s *WarehouseService) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	w, err := s.GetWarehouse(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.warehouses.DeleteIfEmpty(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewError(domain.KindWarehouseNotEmpty,
			"warehouse %s still holds inventory", w.Name)
	}

	s.logger.InfoContext(ctx, "deleted warehouse", slog.String("warehouse_id", id.String()))
	s.notifier.Committed(ctx, domain.NewEvent(domain.EventWarehouseDeleted, id, w))
	return nil
}

// WarehouseStats reports headroom, utilization and item count per warehouse
func (s *WarehouseService) WarehouseStats(ctx context.Context) ([]*domain.WarehouseStats, error) {
	ws, err := s.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.items.TotalsByWarehouse(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate inventory: %w", err)
	}

	stats := make([]*domain.WarehouseStats, 0, len(ws))
	for _, w := range ws {
		stats = append(stats, &domain.WarehouseStats{
			ID:              w.ID,
			Name:            w.Name,
			Location:        w.Location,
			MaxCapacity:     w.MaxCapacity,
			CurrentCapacity: w.CurrentCapacity,
			Headroom:        w.Headroom(),
			Utilization:     w.Utilization(),
			ItemCount:       totals[w.ID].ItemCount,
		})
	}
	return stats, nil
}
