// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/services"
	"github.com/ammerola/warehouse-be/test/fakes"
	"github.com/ammerola/warehouse-be/test/helpers"
)

// benchEnv wires the core services over an in-memory store
type benchEnv struct {
	store     *fakes.Store
	skus      *services.SKUAllocator
	inventory *services.InventoryService
	transfers *services.TransferService
}

func newBenchEnv() *benchEnv {
	logger := helpers.TestLogger()
	store := fakes.NewStore()
	whRepo, itemRepo := store.Warehouses(), store.Items()

	capacity := services.NewCapacityEngine(whRepo, logger)
	skus := services.NewSKUAllocator(whRepo, itemRepo, logger)

	return &benchEnv{
		store:     store,
		skus:      skus,
		inventory: services.NewInventoryService(itemRepo, whRepo, capacity, skus, store, nil, logger),
		transfers: services.NewTransferService(itemRepo, whRepo, capacity, skus, store, nil, logger),
	}
}

// warehouse stores an empty warehouse that never runs out of room
func (e *benchEnv) warehouse(name string) uuid.UUID {
	w := domain.Warehouse{
		ID:          uuid.New(),
		Name:        name,
		Location:    name + ", WA",
		MaxCapacity: math.MaxInt32,
	}
	e.store.PutWarehouse(w)
	return w.ID
}

// benchItems builds n unsaved items for a warehouse
func benchItems(warehouseID uuid.UUID, n int) []*domain.InventoryItem {
	items := make([]*domain.InventoryItem, n)
	for i := range items {
		items[i] = &domain.InventoryItem{
			ID:              uuid.New(),
			Name:            fmt.Sprintf("Bench Item %d", i),
			SKU:             domain.FormatSKU("B", int64(i+1)),
			Category:        "general",
			Quantity:        i%50 + 1,
			StorageLocation: fmt.Sprintf("A-%02d-%02d", i%20, i%7),
			WarehouseID:     warehouseID,
		}
	}
	return items
}
