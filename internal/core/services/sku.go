// internal/core/services/sku.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// maxAllocationAttempts bounds how many counter steps Allocate takes while
// skipping sequence values already claimed by manually entered SKUs.
const maxAllocationAttempts = 25

// SKUAllocator issues warehouse-scoped SKUs and checks SKU uniqueness.
type SKUAllocator struct {
	warehouses ports.WarehouseRepository
	items      ports.InventoryRepository
	logger     *slog.Logger
}

// NewSKUAllocator creates a new SKU allocator
func NewSKUAllocator(warehouses ports.WarehouseRepository, items ports.InventoryRepository, logger *slog.Logger) *SKUAllocator {
	return &SKUAllocator{
		warehouses: warehouses,
		items:      items,
		logger:     logger.With(slog.String("service", "sku")),
	}
}

// Allocate returns a new SKU of the form <PREFIX>-<NNNN> for the warehouse.
// Each attempt consumes one atomic counter step, so concurrent callers never
// share a sequence number.
func (a *SKUAllocator) Allocate(ctx context.Context, warehouseID uuid.UUID) (string, error) {
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		w, err := a.warehouses.NextInventorySequence(ctx, warehouseID)
		if err != nil {
			return "", fmt.Errorf("failed to advance sku sequence: %w", err)
		}
		if w == nil {
			return "", domain.NotFound("warehouse", warehouseID)
		}

		sku := domain.FormatSKU(domain.SKUPrefix(w.Name), w.InventoryCounter)

		taken, err := a.items.ExistsBySKU(ctx, warehouseID, sku, uuid.Nil)
		if err != nil {
			return "", fmt.Errorf("failed to check allocated sku: %w", err)
		}
		if !taken {
			return sku, nil
		}

		a.logger.WarnContext(ctx, "allocated sku already in use, advancing",
			slog.String("warehouse_id", warehouseID.String()),
			slog.String("sku", sku))
	}

	return "", domain.NewError(domain.KindInvariantViolation,
		"could not allocate a free sku in warehouse %s after %d attempts", warehouseID, maxAllocationAttempts)
}

// ValidateUnique fails with DuplicateSKU when another item in the warehouse
// already uses sku. excludeItemID may be uuid.Nil.
func (a *SKUAllocator) ValidateUnique(ctx context.Context, sku string, warehouseID, excludeItemID uuid.UUID) error {
	taken, err := a.items.ExistsBySKU(ctx, warehouseID, sku, excludeItemID)
	if err != nil {
		return fmt.Errorf("failed to check sku uniqueness: %w", err)
	}
	if taken {
		return domain.DuplicateSKU(sku)
	}
	return nil
}
