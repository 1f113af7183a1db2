// internal/core/ports/warehouse_repository.go
package ports

import (
	"context"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/google/uuid"
)

// WarehouseRepository defines the persistence port for warehouses.
// Lookups return (nil, nil) when the warehouse does not exist.
type WarehouseRepository interface {
	Create(ctx context.Context, w *domain.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error)
	List(ctx context.Context) ([]*domain.Warehouse, error)
	ExistsByNameLocation(ctx context.Context, name, location string, excludeID uuid.UUID) (bool, error)

	// LockForUpdate row-locks the given warehouses in id order for the rest of
	// the surrounding transaction and returns the ones that exist.
	LockForUpdate(ctx context.Context, ids ...uuid.UUID) ([]*domain.Warehouse, error)

	// UpdateDetails writes name, location, maxCapacity, manager and notes. It
	// returns false without writing when the warehouse is absent or the new
	// maxCapacity is below currentCapacity.
	UpdateDetails(ctx context.Context, w *domain.Warehouse) (bool, error)

	// DeleteIfEmpty removes the warehouse only if it has no items and no
	// reserved capacity, reporting whether a row was deleted.
	DeleteIfEmpty(ctx context.Context, id uuid.UUID) (bool, error)

	// AdjustCapacity atomically adds delta to currentCapacity if the result
	// stays within [0, maxCapacity]. It returns nil when the warehouse is absent.
	AdjustCapacity(ctx context.Context, id uuid.UUID, delta int) (*domain.CapacityChange, error)

	// NextInventorySequence atomically increments and returns the SKU counter
	// together with the warehouse name. It returns (nil, nil) when absent.
	NextInventorySequence(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error)
}
