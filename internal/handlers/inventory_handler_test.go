package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
	"github.com/ammerola/warehouse-be/internal/handlers"
	"github.com/ammerola/warehouse-be/test/helpers"
	"github.com/ammerola/warehouse-be/test/mocks"
)

func inventoryRoutes(t *testing.T) (*handlers.Routes, *mocks.MockInventoryService) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockInventoryService(ctrl)
	return &handlers.Routes{Inventory: handlers.NewInventoryHandler(svc, helpers.TestLogger())}, svc
}

func TestInventoryHandler_CreateInventory(t *testing.T) {
	warehouseID := uuid.New()

	tests := []struct {
		name           string
		body           any
		setupMock      func(*mocks.MockInventoryService)
		expectedStatus int
		expectedCode   string
		validate       func(*testing.T, []byte)
	}{
		{
			name: "successful_creation_with_allocated_sku",
			body: map[string]any{"name": "Crate", "quantity": 10, "warehouseId": warehouseID},
			setupMock: func(m *mocks.MockInventoryService) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
						assert.Empty(t, item.SKU)
						assert.Equal(t, warehouseID, item.WarehouseID)
						created := *item
						created.ID = uuid.New()
						created.SKU = "N-0001"
						return &created, nil
					})
			},
			expectedStatus: http.StatusCreated,
			validate: func(t *testing.T, body []byte) {
				var item domain.InventoryItem
				require.NoError(t, json.Unmarshal(body, &item))
				assert.Equal(t, "N-0001", item.SKU)
				assert.Equal(t, 10, item.Quantity)
			},
		},
		{
			name: "capacity_exceeded",
			body: map[string]any{"name": "Crate", "quantity": 1000, "warehouseId": warehouseID},
			setupMock: func(m *mocks.MockInventoryService) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					Return(nil, domain.CapacityExceeded("North", 1000, 40))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "capacity_exceeded",
		},
		{
			name: "duplicate_sku",
			body: map[string]any{"name": "Crate", "sku": "N-0001", "quantity": 1, "warehouseId": warehouseID},
			setupMock: func(m *mocks.MockInventoryService) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					Return(nil, domain.DuplicateSKU("N-0001"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "duplicate_sku",
		},
		{
			name: "unknown_warehouse",
			body: map[string]any{"name": "Crate", "quantity": 1, "warehouseId": warehouseID},
			setupMock: func(m *mocks.MockInventoryService) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					Return(nil, domain.NotFound("warehouse", warehouseID))
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
		},
		{
			name:           "empty_body",
			body:           "",
			setupMock:      func(*mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, svc := inventoryRoutes(t)
			tt.setupMock(svc)

			w := serve(t, routes, http.MethodPost, "/api/v1/inventory", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
			if tt.validate != nil {
				tt.validate(t, w.Body.Bytes())
			}
		})
	}
}

func TestInventoryHandler_GetInventory(t *testing.T) {
	id := uuid.New()

	t.Run("successful_retrieval", func(t *testing.T) {
		routes, svc := inventoryRoutes(t)
		svc.EXPECT().GetItem(gomock.Any(), id).Return(&domain.InventoryItem{ID: id, Name: "Crate", SKU: "N-0001"}, nil)

		w := serve(t, routes, http.MethodGet, "/api/v1/inventory/"+id.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "N-0001")
	})

	t.Run("not_found", func(t *testing.T) {
		routes, svc := inventoryRoutes(t)
		svc.EXPECT().GetItem(gomock.Any(), id).Return(nil, domain.NotFound("inventory item", id))

		w := serve(t, routes, http.MethodGet, "/api/v1/inventory/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unexpected_error_is_internal", func(t *testing.T) {
		routes, svc := inventoryRoutes(t)
		svc.EXPECT().GetItem(gomock.Any(), id).Return(nil, errors.New("pool exhausted"))

		w := serve(t, routes, http.MethodGet, "/api/v1/inventory/"+id.String(), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "internal_error", resp.Code)
		assert.NotContains(t, resp.Error, "pool exhausted")
	})
}

func TestInventoryHandler_ListInventory(t *testing.T) {
	warehouseID := uuid.New()

	t.Run("parses_query_parameters", func(t *testing.T) {
		routes, svc := inventoryRoutes(t)
		svc.EXPECT().ListItems(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params ports.ListParams) (*ports.ListResult, error) {
				assert.Equal(t, 2, params.Page)
				assert.Equal(t, 25, params.PageSize)
				assert.Equal(t, "crate", params.Search)
				assert.Equal(t, "sku", params.SortBy)
				assert.Equal(t, "desc", params.SortOrder)
				require.NotNil(t, params.WarehouseID)
				assert.Equal(t, warehouseID, *params.WarehouseID)
				return &ports.ListResult{Page: 2, PageSize: 25}, nil
			})

		w := serve(t, routes, http.MethodGet,
			"/api/v1/inventory?page=2&page_size=25&search=crate&sort_by=sku&sort_order=desc&warehouseId="+warehouseID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var result ports.ListResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
	})

	t.Run("invalid_warehouse_filter", func(t *testing.T) {
		routes, _ := inventoryRoutes(t)

		w := serve(t, routes, http.MethodGet, "/api/v1/inventory?warehouseId=nope", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation", decodeError(t, w).Code)
	})
}

func TestInventoryHandler_UpdateInventory(t *testing.T) {
	id := uuid.New()
	target := uuid.New()

	tests := []struct {
		name           string
		body           any
		setupMock      func(*mocks.MockInventoryService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "successful_move",
			body: map[string]any{"quantity": 3, "warehouseId": target},
			setupMock: func(m *mocks.MockInventoryService) {
				m.EXPECT().UpdateItem(gomock.Any(), id, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, patch domain.ItemPatch) (*domain.InventoryItem, error) {
						require.NotNil(t, patch.Quantity)
						require.NotNil(t, patch.WarehouseID)
						assert.Equal(t, 3, *patch.Quantity)
						assert.Equal(t, target, *patch.WarehouseID)
						assert.Nil(t, patch.Name)
						return &domain.InventoryItem{ID: id, Quantity: 3, WarehouseID: target}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "destination_full",
			body: map[string]any{"warehouseId": target},
			setupMock: func(m *mocks.MockInventoryService) {
				m.EXPECT().UpdateItem(gomock.Any(), id, gomock.Any()).
					Return(nil, domain.CapacityExceeded("South", 3, 0))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "capacity_exceeded",
		},
		{
			name: "negative_quantity",
			body: map[string]any{"quantity": -1},
			setupMock: func(m *mocks.MockInventoryService) {
				m.EXPECT().UpdateItem(gomock.Any(), id, gomock.Any()).
					Return(nil, domain.Validation("quantity cannot be negative"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, svc := inventoryRoutes(t)
			tt.setupMock(svc)

			w := serve(t, routes, http.MethodPut, "/api/v1/inventory/"+id.String(), tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
		})
	}
}

func TestInventoryHandler_DeleteInventory(t *testing.T) {
	id := uuid.New()

	t.Run("successful_deletion", func(t *testing.T) {
		routes, svc := inventoryRoutes(t)
		svc.EXPECT().DeleteItem(gomock.Any(), id).Return(nil)

		w := serve(t, routes, http.MethodDelete, "/api/v1/inventory/"+id.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("invariant_violation_is_internal", func(t *testing.T) {
		routes, svc := inventoryRoutes(t)
		svc.EXPECT().DeleteItem(gomock.Any(), id).
			Return(domain.NewError(domain.KindInvariantViolation, "release below zero"))

		w := serve(t, routes, http.MethodDelete, "/api/v1/inventory/"+id.String(), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "invariant_violation", decodeError(t, w).Code)
	})
}
