package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/services"
	"github.com/ammerola/warehouse-be/test/helpers"
	"github.com/ammerola/warehouse-be/test/mocks"
)

func TestCapacityAuditor_Audit(t *testing.T) {
	t.Run("consistent_store", func(t *testing.T) {
		h := newHarness(t, nil)
		w := h.warehouse("Seattle", 20)
		h.stock(w.ID, "S-0001", 5)
		h.warehouse("Reno", 10)

		report, err := h.auditor.Audit(t.Context())
		require.NoError(t, err)
		assert.True(t, report.Healthy())
		assert.NotNil(t, report.Drifts)
		assert.Equal(t, 2, report.Warehouses)
	})

	t.Run("reports_drift", func(t *testing.T) {
		h := newHarness(t, nil)
		w := h.warehouse("Seattle", 20)
		h.stock(w.ID, "S-0001", 5)

		drifted, _ := h.store.Warehouse(w.ID)
		drifted.CurrentCapacity = 9
		h.store.PutWarehouse(drifted)

		report, err := h.auditor.Audit(t.Context())
		require.NoError(t, err)
		require.Len(t, report.Drifts, 1)
		assert.Equal(t, domain.CapacityDrift{
			WarehouseID: w.ID,
			Name:        "Seattle",
			Recorded:    9,
			Actual:      5,
		}, report.Drifts[0])
	})

	t.Run("empty_warehouse_with_recorded_load", func(t *testing.T) {
		h := newHarness(t, nil)
		w := h.warehouse("Seattle", 20)
		drifted, _ := h.store.Warehouse(w.ID)
		drifted.CurrentCapacity = 2
		h.store.PutWarehouse(drifted)

		report, err := h.auditor.Audit(t.Context())
		require.NoError(t, err)
		require.Len(t, report.Drifts, 1)
		assert.Zero(t, report.Drifts[0].Actual)
	})

	t.Run("repository_failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		warehouses := mocks.NewMockWarehouseRepository(ctrl)
		items := mocks.NewMockInventoryRepository(ctrl)
		auditor := services.NewCapacityAuditor(warehouses, items, helpers.TestLogger())

		warehouses.EXPECT().List(gomock.Any()).Return([]*domain.Warehouse{}, nil)
		items.EXPECT().TotalsByWarehouse(gomock.Any()).Return(nil, errors.New("statement timeout"))

		_, err := auditor.Audit(t.Context())
		assert.ErrorContains(t, err, "statement timeout")
	})
}
