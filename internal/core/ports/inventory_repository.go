// internal/core/ports/inventory_repository.go
package ports

import (
	"context"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/google/uuid"
)

// InventoryRepository defines the persistence port for inventory.
// This interface is implemented by the database adapter.
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error)

	// FindByIDForUpdate also row-locks the item for the surrounding transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error)

	// ExistsBySKU reports whether another item in the warehouse carries sku.
	// excludeID may be uuid.Nil.
	ExistsBySKU(ctx context.Context, warehouseID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error)

	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]*domain.InventoryItem, error)
	List(ctx context.Context, params ListParams) ([]*domain.InventoryItem, int64, error)

	// TotalsByWarehouse returns item counts and quantity sums keyed by warehouse.
	TotalsByWarehouse(ctx context.Context) (map[uuid.UUID]domain.InventoryTotals, error)
}

// ListParams holds parameters for listing inventory
type ListParams struct {
	WarehouseID *uuid.UUID
	Search      string
	Category    string
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}

// ListResult holds the result of listing inventory
type ListResult struct {
	Items      []*domain.InventoryItem `json:"items"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	TotalCount int64                   `json:"totalCount"`
	TotalPages int                     `json:"totalPages"`
}
