package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/handlers"
	"github.com/ammerola/warehouse-be/test/helpers"
	"github.com/ammerola/warehouse-be/test/mocks"
)

type warehouseMocks struct {
	warehouses *mocks.MockWarehouseService
	inventory  *mocks.MockInventoryService
}

func warehouseRoutes(t *testing.T) (*handlers.Routes, warehouseMocks) {
	ctrl := gomock.NewController(t)
	m := warehouseMocks{
		warehouses: mocks.NewMockWarehouseService(ctrl),
		inventory:  mocks.NewMockInventoryService(ctrl),
	}
	routes := &handlers.Routes{
		Warehouse: handlers.NewWarehouseHandler(m.warehouses, m.inventory, helpers.TestLogger()),
	}
	return routes, m
}

func TestWarehouseHandler_CreateWarehouse(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		setupMock      func(warehouseMocks)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "successful_creation",
			body: map[string]any{"name": "North", "location": "Oslo", "maxCapacity": 100},
			setupMock: func(m warehouseMocks) {
				m.warehouses.EXPECT().CreateWarehouse(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, w *domain.Warehouse) error {
						assert.Equal(t, "North", w.Name)
						assert.Equal(t, 100, w.MaxCapacity)
						w.ID = uuid.New()
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate_name_and_location",
			body: map[string]any{"name": "North", "location": "Oslo", "maxCapacity": 100},
			setupMock: func(m warehouseMocks) {
				m.warehouses.EXPECT().CreateWarehouse(gomock.Any(), gomock.Any()).
					Return(domain.NewError(domain.KindDuplicateWarehouse, "warehouse exists"))
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "duplicate_warehouse",
		},
		{
			name:           "malformed_json",
			body:           "{not json",
			setupMock:      func(warehouseMocks) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, m := warehouseRoutes(t)
			tt.setupMock(m)

			w := serve(t, routes, http.MethodPost, "/api/v1/warehouses", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
		})
	}
}

func TestWarehouseHandler_GetWarehouse(t *testing.T) {
	id := uuid.New()

	t.Run("successful_retrieval", func(t *testing.T) {
		routes, m := warehouseRoutes(t)
		m.warehouses.EXPECT().GetWarehouse(gomock.Any(), id).Return(&domain.Warehouse{
			ID: id, Name: "North", Location: "Oslo", MaxCapacity: 50, CurrentCapacity: 20,
		}, nil)

		w := serve(t, routes, http.MethodGet, "/api/v1/warehouses/"+id.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got domain.Warehouse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 20, got.CurrentCapacity)
	})

	t.Run("not_found", func(t *testing.T) {
		routes, m := warehouseRoutes(t)
		m.warehouses.EXPECT().GetWarehouse(gomock.Any(), id).Return(nil, domain.NotFound("warehouse", id))

		w := serve(t, routes, http.MethodGet, "/api/v1/warehouses/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Code)
	})

	t.Run("invalid_id", func(t *testing.T) {
		routes, _ := warehouseRoutes(t)

		w := serve(t, routes, http.MethodGet, "/api/v1/warehouses/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWarehouseHandler_ListWarehouses(t *testing.T) {
	routes, m := warehouseRoutes(t)
	m.warehouses.EXPECT().ListWarehouses(gomock.Any()).Return(nil, nil)

	w := serve(t, routes, http.MethodGet, "/api/v1/warehouses", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestWarehouseHandler_UpdateWarehouse(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		body           any
		setupMock      func(warehouseMocks)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "successful_update",
			body: map[string]any{"maxCapacity": 80},
			setupMock: func(m warehouseMocks) {
				m.warehouses.EXPECT().UpdateWarehouse(gomock.Any(), id, gomock.Any()).
					DoAndReturn(func(_ any, _ uuid.UUID, patch domain.WarehousePatch) (*domain.Warehouse, error) {
						require.NotNil(t, patch.MaxCapacity)
						assert.Equal(t, 80, *patch.MaxCapacity)
						assert.Nil(t, patch.Name)
						return &domain.Warehouse{ID: id, Name: "North", MaxCapacity: 80}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "current_capacity_rejected",
			body:           map[string]any{"currentCapacity": 10},
			setupMock:      func(warehouseMocks) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "validation",
		},
		{
			name: "max_below_current",
			body: map[string]any{"maxCapacity": 5},
			setupMock: func(m warehouseMocks) {
				m.warehouses.EXPECT().UpdateWarehouse(gomock.Any(), id, gomock.Any()).
					Return(nil, domain.NewError(domain.KindCapacityExceeded, "below current"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "capacity_exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, m := warehouseRoutes(t)
			tt.setupMock(m)

			w := serve(t, routes, http.MethodPut, "/api/v1/warehouses/"+id.String(), tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
		})
	}
}

func TestWarehouseHandler_DeleteWarehouse(t *testing.T) {
	id := uuid.New()

	t.Run("successful_deletion", func(t *testing.T) {
		routes, m := warehouseRoutes(t)
		m.warehouses.EXPECT().DeleteWarehouse(gomock.Any(), id).Return(nil)

		w := serve(t, routes, http.MethodDelete, "/api/v1/warehouses/"+id.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("warehouse_not_empty", func(t *testing.T) {
		routes, m := warehouseRoutes(t)
		m.warehouses.EXPECT().DeleteWarehouse(gomock.Any(), id).
			Return(domain.NewError(domain.KindWarehouseNotEmpty, "still holds inventory"))

		w := serve(t, routes, http.MethodDelete, "/api/v1/warehouses/"+id.String(), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "warehouse_not_empty", decodeError(t, w).Code)
	})
}

func TestWarehouseHandler_ListWarehouseInventory(t *testing.T) {
	id := uuid.New()
	routes, m := warehouseRoutes(t)
	m.inventory.EXPECT().ListByWarehouse(gomock.Any(), id).Return([]*domain.InventoryItem{
		{ID: uuid.New(), Name: "Crate", SKU: "N-0001", Quantity: 4, WarehouseID: id},
	}, nil)

	w := serve(t, routes, http.MethodGet, "/api/v1/warehouses/"+id.String()+"/inventory", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var items []domain.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "N-0001", items[0].SKU)
}
