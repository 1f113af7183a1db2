package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/warehouse-be/internal/adapters/redis_adapter"
	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/handlers"
	"github.com/ammerola/warehouse-be/test/helpers"
	"github.com/ammerola/warehouse-be/test/mocks"
)

func transferRequest() domain.TransferRequest {
	return domain.TransferRequest{
		SourceWarehouseID:      uuid.New(),
		DestinationWarehouseID: uuid.New(),
		Items:                  []domain.TransferLine{{ItemID: uuid.New(), Quantity: 4}},
	}
}

func receiptFor(req domain.TransferRequest) *domain.TransferReceipt {
	return &domain.TransferReceipt{
		SourceWarehouseID:        req.SourceWarehouseID,
		DestinationWarehouseID:   req.DestinationWarehouseID,
		DestinationWarehouseName: "South",
		TotalUnits:               4,
		ItemsTransferred: []domain.TransferredItem{{
			SourceItemID: req.Items[0].ItemID,
			ItemID:       req.Items[0].ItemID,
			Quantity:     4,
			SKU:          "N-0001",
			Mode:         domain.TransferRepointed,
		}},
	}
}

func idempotentTransferRoutes(t *testing.T) (*handlers.Routes, *mocks.MockTransferService) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockTransferService(ctrl)

	tr := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(tr.Client, time.Hour, helpers.TestLogger())
	store := redis_a.NewIdempotencyStore(cache, time.Hour)

	return &handlers.Routes{
		Transfer: handlers.NewTransferHandler(svc, store, helpers.TestLogger()),
	}, svc
}

func TestTransferHandler_BulkTransfer(t *testing.T) {
	req := transferRequest()

	tests := []struct {
		name           string
		setupMock      func(*mocks.MockTransferService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "successful_transfer",
			setupMock: func(m *mocks.MockTransferService) {
				m.EXPECT().BulkTransfer(gomock.Any(), req).Return(receiptFor(req), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "destination_capacity_exceeded",
			setupMock: func(m *mocks.MockTransferService) {
				m.EXPECT().BulkTransfer(gomock.Any(), req).Return(nil, domain.CapacityExceeded("South", 4, 1))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "capacity_exceeded",
		},
		{
			name: "item_not_in_source",
			setupMock: func(m *mocks.MockTransferService) {
				m.EXPECT().BulkTransfer(gomock.Any(), req).
					Return(nil, domain.NewError(domain.KindItemNotInSource, "item elsewhere"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "item_not_in_source",
		},
		{
			name: "insufficient_quantity",
			setupMock: func(m *mocks.MockTransferService) {
				m.EXPECT().BulkTransfer(gomock.Any(), req).
					Return(nil, domain.NewError(domain.KindInsufficientQuantity, "holds 2 units"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "insufficient_quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockTransferService(ctrl)
			tt.setupMock(svc)

			routes := &handlers.Routes{Transfer: handlers.NewTransferHandler(svc, nil, helpers.TestLogger())}
			w := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
		})
	}
}

func TestTransferHandler_Idempotency(t *testing.T) {
	t.Run("replays_completed_response", func(t *testing.T) {
		routes, svc := idempotentTransferRoutes(t)
		req := transferRequest()
		svc.EXPECT().BulkTransfer(gomock.Any(), req).Return(receiptFor(req), nil).Times(1)

		first := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", req, handlers.IdempotencyKeyHeader, "key-1")
		second := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", req, handlers.IdempotencyKeyHeader, "key-1")

		require.Equal(t, http.StatusOK, first.Code)
		require.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, first.Body.String(), second.Body.String())
	})

	t.Run("rejects_reused_key_with_different_body", func(t *testing.T) {
		routes, svc := idempotentTransferRoutes(t)
		req := transferRequest()
		svc.EXPECT().BulkTransfer(gomock.Any(), req).Return(receiptFor(req), nil).Times(1)

		first := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", req, handlers.IdempotencyKeyHeader, "key-2")
		require.Equal(t, http.StatusOK, first.Code)

		other := transferRequest()
		second := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", other, handlers.IdempotencyKeyHeader, "key-2")

		assert.Equal(t, http.StatusUnprocessableEntity, second.Code)
		assert.Equal(t, "idempotency_key_reused", decodeError(t, second).Code)
	})

	t.Run("failed_transfer_releases_key", func(t *testing.T) {
		routes, svc := idempotentTransferRoutes(t)
		req := transferRequest()
		gomock.InOrder(
			svc.EXPECT().BulkTransfer(gomock.Any(), req).Return(nil, domain.CapacityExceeded("South", 4, 0)),
			svc.EXPECT().BulkTransfer(gomock.Any(), req).Return(receiptFor(req), nil),
		)

		first := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", req, handlers.IdempotencyKeyHeader, "key-3")
		second := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", req, handlers.IdempotencyKeyHeader, "key-3")

		assert.Equal(t, http.StatusBadRequest, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Empty(t, second.Header().Get("Idempotent-Replayed"))
	})

	t.Run("in_flight_key_conflicts", func(t *testing.T) {
		routes, svc := idempotentTransferRoutes(t)
		req := transferRequest()

		// The retry arrives while the first request is still inside the service
		svc.EXPECT().BulkTransfer(gomock.Any(), req).
			DoAndReturn(func(context.Context, domain.TransferRequest) (*domain.TransferReceipt, error) {
				retry := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", req, handlers.IdempotencyKeyHeader, "key-4")
				assert.Equal(t, http.StatusConflict, retry.Code)
				assert.Equal(t, "request_in_progress", decodeError(t, retry).Code)
				return receiptFor(req), nil
			}).Times(1)

		first := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", req, handlers.IdempotencyKeyHeader, "key-4")
		assert.Equal(t, http.StatusOK, first.Code)
	})

	t.Run("store_unavailable_fails_closed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockTransferService(ctrl)
		store := mocks.NewMockIdempotencyStore(ctrl)
		store.EXPECT().Begin(gomock.Any(), "transfer:key-5", gomock.Any()).Return(nil, false, errors.New("redis down"))

		routes := &handlers.Routes{Transfer: handlers.NewTransferHandler(svc, store, helpers.TestLogger())}
		w := serve(t, routes, http.MethodPost, "/api/v1/inventory/bulk-transfer", transferRequest(), handlers.IdempotencyKeyHeader, "key-5")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "idempotency_unavailable", decodeError(t, w).Code)
	})
}
