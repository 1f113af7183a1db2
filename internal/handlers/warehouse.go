// internal/handlers/warehouse.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// WarehouseHandler handles warehouse-related HTTP requests
type WarehouseHandler struct {
	service   ports.WarehouseService
	inventory ports.InventoryService
	logger    *slog.Logger
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(service ports.WarehouseService, inventory ports.InventoryService, logger *slog.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		service:   service,
		inventory: inventory,
		logger:    logger.With(slog.String("handler", "warehouse")),
	}
}

// CreateWarehouse handles POST /api/v1/warehouses
func (h *WarehouseHandler) CreateWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateWarehouseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, h.logger, err, "create warehouse")
		return
	}

	warehouse := req.ToDomain()
	if err := h.service.CreateWarehouse(ctx, warehouse); err != nil {
		respondServiceError(w, r, h.logger, err, "create warehouse")
		return
	}

	h.logger.InfoContext(ctx, "warehouse created",
		slog.String("warehouse_id", warehouse.ID.String()),
		slog.String("name", warehouse.Name))

	respondJSON(w, h.logger, http.StatusCreated, warehouse)
}

// ListWarehouses handles GET /api/v1/warehouses
func (h *WarehouseHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.ListWarehouses(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list warehouses")
		return
	}
	if warehouses == nil {
		warehouses = []*domain.Warehouse{}
	}
	respondJSON(w, h.logger, http.StatusOK, warehouses)
}

// GetWarehouse handles GET /api/v1/warehouses/{id}
func (h *WarehouseHandler) GetWarehouse(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get warehouse")
		return
	}

	warehouse, err := h.service.GetWarehouse(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get warehouse")
		return
	}
	respondJSON(w, h.logger, http.StatusOK, warehouse)
}

// UpdateWarehouse handles PUT /api/v1/warehouses/{id}
func (h *WarehouseHandler) UpdateWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update warehouse")
		return
	}

	var req UpdateWarehouseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, h.logger, err, "update warehouse")
		return
	}
	if err := req.Validate(); err != nil {
		respondServiceError(w, r, h.logger, err, "update warehouse")
		return
	}

	warehouse, err := h.service.UpdateWarehouse(ctx, id, req.ToPatch())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update warehouse")
		return
	}

	h.logger.InfoContext(ctx, "warehouse updated",
		slog.String("warehouse_id", id.String()))

	respondJSON(w, h.logger, http.StatusOK, warehouse)
}

// DeleteWarehouse handles DELETE /api/v1/warehouses/{id}
func (h *WarehouseHandler) DeleteWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, h.logger, err, "delete warehouse")
		return
	}

	if err := h.service.DeleteWarehouse(ctx, id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete warehouse")
		return
	}

	h.logger.InfoContext(ctx, "warehouse deleted",
		slog.String("warehouse_id", id.String()))

	w.WriteHeader(http.StatusNoContent)
}

// ListWarehouseInventory handles GET /api/v1/warehouses/{id}/inventory
func (h *WarehouseHandler) ListWarehouseInventory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list warehouse inventory")
		return
	}

	items, err := h.inventory.ListByWarehouse(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list warehouse inventory")
		return
	}
	if items == nil {
		items = []*domain.InventoryItem{}
	}
	respondJSON(w, h.logger, http.StatusOK, items)
}

// Request DTOs

// CreateWarehouseRequest represents the request body for creating a warehouse.
// Capacity usage is always zero for a new warehouse.
type CreateWarehouseRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	MaxCapacity int    `json:"maxCapacity"`
	Manager     string `json:"manager,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// ToDomain converts the request to a domain model
func (r *CreateWarehouseRequest) ToDomain() *domain.Warehouse {
	return &domain.Warehouse{
		Name:        r.Name,
		Location:    r.Location,
		MaxCapacity: r.MaxCapacity,
		Manager:     r.Manager,
		Notes:       r.Notes,
	}
}

// UpdateWarehouseRequest represents the request body for updating a warehouse
type UpdateWarehouseRequest struct {
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	MaxCapacity *int    `json:"maxCapacity"`
	Manager     *string `json:"manager"`
	Notes       *string `json:"notes"`

	// Present only to reject clients that try to set it
	CurrentCapacity *int `json:"currentCapacity"`
}

// Validate rejects fields the client may not change
func (r *UpdateWarehouseRequest) Validate() error {
	if r.CurrentCapacity != nil {
		return domain.Validation("currentCapacity cannot be set directly")
	}
	return nil
}

// ToPatch converts the request to a domain patch
func (r *UpdateWarehouseRequest) ToPatch() domain.WarehousePatch {
	return domain.WarehousePatch{
		Name:        r.Name,
		Location:    r.Location,
		MaxCapacity: r.MaxCapacity,
		Manager:     r.Manager,
		Notes:       r.Notes,
	}
}
