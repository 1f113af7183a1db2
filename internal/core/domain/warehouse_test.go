package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

func TestWarehouse_Validate(t *testing.T) {
	tests := []struct {
		name      string
		warehouse domain.Warehouse
		errorMsg  string
	}{
		{name: "valid", warehouse: domain.Warehouse{Name: "North", Location: "Oslo", MaxCapacity: 10}},
		{name: "zero_capacity", warehouse: domain.Warehouse{Name: "North", Location: "Oslo"}},
		{name: "missing_name", warehouse: domain.Warehouse{Location: "Oslo"}, errorMsg: "name is required"},
		{name: "missing_location", warehouse: domain.Warehouse{Name: "North", Location: "  "}, errorMsg: "location is required"},
		{name: "negative_capacity", warehouse: domain.Warehouse{Name: "North", Location: "Oslo", MaxCapacity: -1}, errorMsg: "maxCapacity cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.warehouse.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestWarehouse_PrepareForStorage(t *testing.T) {
	w := &domain.Warehouse{Name: "North", Location: "Oslo", MaxCapacity: 10, CurrentCapacity: 7, InventoryCounter: 3}
	w.PrepareForStorage()

	assert.NotEqual(t, uuid.Nil, w.ID)
	assert.Zero(t, w.CurrentCapacity)
	assert.Zero(t, w.InventoryCounter)
	assert.False(t, w.CreatedAt.IsZero())
}

func TestWarehouse_HeadroomAndUtilization(t *testing.T) {
	tests := []struct {
		name        string
		max         int
		current     int
		headroom    int
		utilization string
	}{
		{name: "empty", max: 100, current: 0, headroom: 100, utilization: "0"},
		{name: "partial", max: 300, current: 100, headroom: 200, utilization: "33.33"},
		{name: "full", max: 40, current: 40, headroom: 0, utilization: "100"},
		{name: "zero_capacity", max: 0, current: 0, headroom: 0, utilization: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &domain.Warehouse{MaxCapacity: tt.max, CurrentCapacity: tt.current}
			assert.Equal(t, tt.headroom, w.Headroom())
			assert.True(t, decimal.RequireFromString(tt.utilization).Equal(w.Utilization()),
				"got %s", w.Utilization())
		})
	}
}

func TestWarehousePatch_Apply(t *testing.T) {
	t.Run("applies_and_trims", func(t *testing.T) {
		w := &domain.Warehouse{Name: "North", Location: "Oslo", MaxCapacity: 10}
		patch := domain.WarehousePatch{
			Name:        ptr(" North Hub "),
			MaxCapacity: ptr(20),
			Manager:     ptr(" Kari "),
		}
		require.NoError(t, patch.Apply(w))
		assert.Equal(t, "North Hub", w.Name)
		assert.Equal(t, "Oslo", w.Location)
		assert.Equal(t, 20, w.MaxCapacity)
		assert.Equal(t, "Kari", w.Manager)
	})

	t.Run("rejects_invalid_result", func(t *testing.T) {
		w := &domain.Warehouse{Name: "North", Location: "Oslo"}
		err := domain.WarehousePatch{MaxCapacity: ptr(-5)}.Apply(w)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("is_empty", func(t *testing.T) {
		assert.True(t, domain.WarehousePatch{}.IsEmpty())
		assert.False(t, domain.WarehousePatch{Notes: ptr("")}.IsEmpty())
	})
}
