// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/google/uuid"
)

// WarehouseService defines the application service port for warehouses.
type WarehouseService interface {
	CreateWarehouse(ctx context.Context, w *domain.Warehouse) error
	GetWarehouse(ctx context.Context, id uuid.UUID) (*domain.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]*domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, patch domain.WarehousePatch) (*domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id uuid.UUID) error
	WarehouseStats(ctx context.Context) ([]*domain.WarehouseStats, error)
}

// InventoryService defines the item lifecycle port.
type InventoryService interface {
	CreateItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (*domain.InventoryItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, params ListParams) (*ListResult, error)
	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]*domain.InventoryItem, error)
}

// TransferService defines the bulk transfer port.
type TransferService interface {
	BulkTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferReceipt, error)
}

// CapacityAuditor compares recorded capacity with stored item quantities.
type CapacityAuditor interface {
	Audit(ctx context.Context) (*domain.AuditReport, error)
}
