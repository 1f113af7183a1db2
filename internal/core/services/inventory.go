// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// InventoryService owns the lifecycle of a single item. Every mutation runs
// in one transaction so a failed capacity or SKU check leaves nothing behind.
type InventoryService struct {
	items      ports.InventoryRepository
	warehouses ports.WarehouseRepository
	capacity   *CapacityEngine
	skus       *SKUAllocator
	tx         ports.Transactor
	notifier   *Notifier
	logger     *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service
func NewInventoryService(
	items ports.InventoryRepository,
	warehouses ports.WarehouseRepository,
	capacity *CapacityEngine,
	skus *SKUAllocator,
	tx ports.Transactor,
	notifier *Notifier,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		items:      items,
		warehouses: warehouses,
		capacity:   capacity,
		skus:       skus,
		tx:         tx,
		notifier:   notifier,
		logger:     logger.With(slog.String("service", "inventory")),
	}
}

// CreateItem stores a new item, allocating a SKU when none is given and
// reserving its quantity in the warehouse.
func (s *InventoryService) CreateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item.PrepareForStorage()

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		w, err := s.warehouses.FindByID(ctx, item.WarehouseID)
		if err != nil {
			return fmt.Errorf("failed to load warehouse: %w", err)
		}
		if w == nil {
			return domain.NotFound("warehouse", item.WarehouseID)
		}

		if item.SKU == "" {
			sku, err := s.skus.Allocate(ctx, w.ID)
			if err != nil {
				return err
			}
			item.SKU = sku
		} else if err := s.skus.ValidateUnique(ctx, item.SKU, w.ID, uuid.Nil); err != nil {
			return err
		}

		if item.Quantity > 0 {
			if _, err := s.capacity.Reserve(ctx, w.ID, item.Quantity); err != nil {
				return err
			}
		}

		if err := s.items.Create(ctx, item); err != nil {
			return fmt.Errorf("failed to save item: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "create item rejected",
			slog.String("warehouse_id", item.WarehouseID.String()),
			slog.String("kind", string(domain.KindOf(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "created inventory item",
		slog.String("item_id", item.ID.String()),
		slog.String("warehouse_id", item.WarehouseID.String()),
		slog.String("sku", item.SKU),
		slog.Int("quantity", item.Quantity))

	s.notifier.Committed(ctx, domain.NewEvent(domain.EventItemCreated, item.ID, item))
	return item, nil
}

// GetItem retrieves an inventory item by ID
func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if item == nil {
		return nil, domain.NotFound("inventory item", id)
	}
	return item, nil
}

// UpdateItem applies patch to the item. Moving to another warehouse releases
// the old quantity at the source and reserves the new quantity at the
// destination; a quantity change in place applies the signed delta. Fields
// are written only after every capacity and SKU check has passed.
func (s *InventoryService) UpdateItem(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (*domain.InventoryItem, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var (
		before  domain.InventoryItem
		updated *domain.InventoryItem
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.items.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load item: %w", err)
		}
		if current == nil {
			return domain.NotFound("inventory item", id)
		}
		before = *current

		target := current.WarehouseID
		if patch.WarehouseID != nil {
			target = *patch.WarehouseID
		}
		moving := target != current.WarehouseID

		quantity := current.Quantity
		if patch.Quantity != nil {
			quantity = *patch.Quantity
		}

		if moving {
			if err := s.lockPair(ctx, current.WarehouseID, target); err != nil {
				return err
			}
		}

		sku := current.SKU
		if patch.SKU != nil {
			sku = strings.TrimSpace(*patch.SKU)
		}
		if sku != current.SKU || moving {
			if err := s.skus.ValidateUnique(ctx, sku, target, current.ID); err != nil {
				return err
			}
		}

		switch {
		case moving:
			if current.Quantity > 0 {
				if _, err := s.capacity.Release(ctx, current.WarehouseID, current.Quantity); err != nil {
					return err
				}
			}
			if quantity > 0 {
				if _, err := s.capacity.Reserve(ctx, target, quantity); err != nil {
					return err
				}
			}
		case quantity != current.Quantity:
			if _, err := s.capacity.Adjust(ctx, target, quantity-current.Quantity); err != nil {
				return err
			}
		}

		next := *current
		patch.ApplyFields(&next)
		next.SKU = sku
		next.Quantity = quantity
		next.WarehouseID = target
		if err := next.Validate(); err != nil {
			return err
		}

		if err := s.items.Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		updated = &next
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "update item rejected",
			slog.String("item_id", id.String()),
			slog.String("kind", string(domain.KindOf(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "updated inventory item",
		slog.String("item_id", id.String()),
		slog.String("warehouse_id", updated.WarehouseID.String()),
		slog.Int("quantity_before", before.Quantity),
		slog.Int("quantity_after", updated.Quantity))

	s.notifier.Committed(ctx, domain.NewEvent(domain.EventItemUpdated, updated.ID, map[string]any{
		"before": before,
		"after":  updated,
	}))
	return updated, nil
}

// DeleteItem releases the item's quantity and removes the record as one unit.
func (s *InventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	var deleted *domain.InventoryItem

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		item, err := s.items.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load item: %w", err)
		}
		if item == nil {
			return domain.NotFound("inventory item", id)
		}

		if item.Quantity > 0 {
			if _, err := s.capacity.Release(ctx, item.WarehouseID, item.Quantity); err != nil {
				return err
			}
		}

		if err := s.items.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		deleted = item
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "deleted inventory item",
		slog.String("item_id", id.String()),
		slog.String("warehouse_id", deleted.WarehouseID.String()),
		slog.Int("released", deleted.Quantity))

	s.notifier.Committed(ctx, domain.NewEvent(domain.EventItemDeleted, id, deleted))
	return nil
}

// ListItems returns a page of items across warehouses
func (s *InventoryService) ListItems(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	items, total, err := s.items.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	return &ports.ListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

// ListByWarehouse returns every item stored in the warehouse
func (s *InventoryService) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]*domain.InventoryItem, error) {
	w, err := s.warehouses.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouse: %w", err)
	}
	if w == nil {
		return nil, domain.NotFound("warehouse", warehouseID)
	}

	items, err := s.items.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouse inventory: %w", err)
	}
	return items, nil
}

// lockPair locks both warehouses of a move and checks that they exist.
func (s *InventoryService) lockPair(ctx context.Context, source, target uuid.UUID) error {
	locked, err := s.warehouses.LockForUpdate(ctx, source, target)
	if err != nil {
		return fmt.Errorf("failed to lock warehouses: %w", err)
	}
	return requireLocked(locked, source, target)
}

// requireLocked reports NotFound for the first id missing from locked.
func requireLocked(locked []*domain.Warehouse, ids ...uuid.UUID) error {
	for _, id := range ids {
		if findWarehouse(locked, id) == nil {
			return domain.NotFound("warehouse", id)
		}
	}
	return nil
}

func findWarehouse(ws []*domain.Warehouse, id uuid.UUID) *domain.Warehouse {
	for _, w := range ws {
		if w.ID == id {
			return w
		}
	}
	return nil
}
