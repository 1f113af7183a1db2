// internal/core/domain/audit.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// InventoryTotals aggregates the items held by one warehouse.
type InventoryTotals struct {
	ItemCount int64
	Units     int64
}

// CapacityDrift records a warehouse whose recorded capacity disagrees with
// the quantities of its items.
type CapacityDrift struct {
	WarehouseID uuid.UUID `json:"warehouseId"`
	Name        string    `json:"name"`
	Recorded    int       `json:"recorded"`
	Actual      int64     `json:"actual"`
}

// AuditReport is the result of a capacity reconciliation pass.
type AuditReport struct {
	CheckedAt  time.Time       `json:"checkedAt"`
	Warehouses int             `json:"warehouses"`
	Drifts     []CapacityDrift `json:"drifts"`
}

// Healthy reports whether no drift was found.
func (r *AuditReport) Healthy() bool {
	return len(r.Drifts) == 0
}
