package services_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/services"
	"github.com/ammerola/warehouse-be/test/fakes"
	"github.com/ammerola/warehouse-be/test/helpers"
)

// harness wires every service over one in-memory store.
type harness struct {
	store      *fakes.Store
	capacity   *services.CapacityEngine
	skus       *services.SKUAllocator
	inventory  *services.InventoryService
	transfers  *services.TransferService
	warehouses *services.WarehouseService
	auditor    *services.CapacityAuditor
}

func newHarness(t *testing.T, notifier *services.Notifier) *harness {
	t.Helper()

	logger := helpers.TestLogger()
	store := fakes.NewStore()
	whRepo, itemRepo := store.Warehouses(), store.Items()

	capacity := services.NewCapacityEngine(whRepo, logger)
	skus := services.NewSKUAllocator(whRepo, itemRepo, logger)

	return &harness{
		store:      store,
		capacity:   capacity,
		skus:       skus,
		inventory:  services.NewInventoryService(itemRepo, whRepo, capacity, skus, store, notifier, logger),
		transfers:  services.NewTransferService(itemRepo, whRepo, capacity, skus, store, notifier, logger),
		warehouses: services.NewWarehouseService(whRepo, itemRepo, notifier, logger),
		auditor:    services.NewCapacityAuditor(whRepo, itemRepo, logger),
	}
}

// warehouse stores an empty warehouse with the given capacity.
func (h *harness) warehouse(name string, maxCapacity int) domain.Warehouse {
	w := domain.Warehouse{
		ID:          uuid.New(),
		Name:        name,
		Location:    name + " Yard",
		MaxCapacity: maxCapacity,
	}
	h.store.PutWarehouse(w)
	return w
}

// stock stores an item and books its quantity against the warehouse, the
// way a committed CreateItem would.
func (h *harness) stock(warehouseID uuid.UUID, sku string, quantity int) domain.InventoryItem {
	item := domain.InventoryItem{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("Item %s", sku),
		SKU:         sku,
		Category:    "general",
		Quantity:    quantity,
		WarehouseID: warehouseID,
	}
	h.store.PutItem(item)

	w, _ := h.store.Warehouse(warehouseID)
	w.CurrentCapacity += quantity
	h.store.PutWarehouse(w)
	return item
}

func (h *harness) current(warehouseID uuid.UUID) int {
	w, _ := h.store.Warehouse(warehouseID)
	return w.CurrentCapacity
}

// assertConsistent checks that each warehouse's recorded load equals the
// quantities it holds and never exceeds its capacity.
func (h *harness) assertConsistent(t *testing.T, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		w, ok := h.store.Warehouse(id)
		if !ok {
			t.Fatalf("warehouse %s missing", id)
		}
		if got := h.store.QuantityIn(id); got != w.CurrentCapacity {
			t.Errorf("warehouse %s records %d units but holds %d", w.Name, w.CurrentCapacity, got)
		}
		if w.CurrentCapacity < 0 || w.CurrentCapacity > w.MaxCapacity {
			t.Errorf("warehouse %s load %d outside [0, %d]", w.Name, w.CurrentCapacity, w.MaxCapacity)
		}
	}
}

func ptr[T any](v T) *T { return &v }
