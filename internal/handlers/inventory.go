// internal/handlers/inventory.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// GetInventory handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get inventory item")
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get inventory item")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// ListInventory handles GET /api/v1/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list inventory items")
		return
	}

	result, err := h.service.ListItems(r.Context(), params)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list inventory items")
		return
	}
	if result.Items == nil {
		result.Items = []*domain.InventoryItem{}
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// CreateInventory handles POST /api/v1/inventory
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateInventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, h.logger, err, "create inventory item")
		return
	}

	item, err := h.service.CreateItem(ctx, req.ToDomain())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create inventory item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item created",
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU),
		slog.String("warehouse_id", item.WarehouseID.String()))

	respondJSON(w, h.logger, http.StatusCreated, item)
}

// UpdateInventory handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update inventory item")
		return
	}

	var req UpdateInventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, h.logger, err, "update inventory item")
		return
	}

	item, err := h.service.UpdateItem(ctx, id, req.ToPatch())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update inventory item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item updated",
		slog.String("item_id", id.String()))

	respondJSON(w, h.logger, http.StatusOK, item)
}

// DeleteInventory handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, h.logger, err, "delete inventory item")
		return
	}

	if err := h.service.DeleteItem(ctx, id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete inventory item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item deleted",
		slog.String("item_id", id.String()))

	w.WriteHeader(http.StatusNoContent)
}

// parseListParams parses query parameters for listing inventory
func parseListParams(r *http.Request) (ports.ListParams, error) {
	q := r.URL.Query()
	params := ports.ListParams{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if page := q.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}
	if size := q.Get("page_size"); size != "" {
		if s, err := strconv.Atoi(size); err == nil && s > 0 {
			params.PageSize = s
		}
	}

	warehouseID, err := parseOptionalUUID(q.Get("warehouseId"), "warehouseId")
	if err != nil {
		return params, err
	}
	params.WarehouseID = warehouseID

	return params, nil
}

// Request DTOs

// CreateInventoryRequest represents the request body for creating inventory.
// An empty SKU asks the server to allocate one.
type CreateInventoryRequest struct {
	Name            string    `json:"name"`
	SKU             string    `json:"sku,omitempty"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	StorageLocation string    `json:"storageLocation,omitempty"`
	Quantity        int       `json:"quantity"`
	WarehouseID     uuid.UUID `json:"warehouseId"`
}

// ToDomain converts the request to a domain model
func (r *CreateInventoryRequest) ToDomain() *domain.InventoryItem {
	return &domain.InventoryItem{
		Name:            r.Name,
		SKU:             r.SKU,
		Description:     r.Description,
		Category:        r.Category,
		StorageLocation: r.StorageLocation,
		Quantity:        r.Quantity,
		WarehouseID:     r.WarehouseID,
	}
}

// UpdateInventoryRequest represents the request body for updating inventory.
// Absent fields are left unchanged.
type UpdateInventoryRequest struct {
	Name            *string    `json:"name"`
	SKU             *string    `json:"sku"`
	Description     *string    `json:"description"`
	Category        *string    `json:"category"`
	StorageLocation *string    `json:"storageLocation"`
	Quantity        *int       `json:"quantity"`
	WarehouseID     *uuid.UUID `json:"warehouseId"`
}

// ToPatch converts the request to a domain patch
func (r *UpdateInventoryRequest) ToPatch() domain.ItemPatch {
	return domain.ItemPatch{
		Name:            r.Name,
		SKU:             r.SKU,
		Description:     r.Description,
		Category:        r.Category,
		StorageLocation: r.StorageLocation,
		Quantity:        r.Quantity,
		WarehouseID:     r.WarehouseID,
	}
}
