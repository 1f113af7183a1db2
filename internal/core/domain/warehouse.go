// internal/core/domain/warehouse.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Warehouse is a storage location with a unit capacity limit. CurrentCapacity
// is derived from the items stored in it and is only changed by the capacity
// engine.
type Warehouse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	MaxCapacity      int       `json:"maxCapacity"`
	CurrentCapacity  int       `json:"currentCapacity"`
	InventoryCounter int64     `json:"-"`
	Manager          string    `json:"manager,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Validate checks the client-controlled fields.
func (w *Warehouse) Validate() error {
	w.Name = strings.TrimSpace(w.Name)
	w.Location = strings.TrimSpace(w.Location)

	if w.Name == "" {
		return Validation("name is required")
	}
	if w.Location == "" {
		return Validation("location is required")
	}
	if w.MaxCapacity < 0 {
		return Validation("maxCapacity cannot be negative")
	}
	return nil
}

// PrepareForStorage assigns identity and timestamps and resets the derived
// counters for a new warehouse.
func (w *Warehouse) PrepareForStorage() {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	w.CurrentCapacity = 0
	w.InventoryCounter = 0
}

// Headroom is the number of units the warehouse can still accept.
func (w *Warehouse) Headroom() int {
	return w.MaxCapacity - w.CurrentCapacity
}

// Utilization returns current/max as a percentage rounded to two places.
// A zero-capacity warehouse reports zero.
func (w *Warehouse) Utilization() decimal.Decimal {
	if w.MaxCapacity <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(w.CurrentCapacity)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(w.MaxCapacity))).
		Round(2)
}

// WarehousePatch carries optional field changes for a warehouse update.
type WarehousePatch struct {
	Name        *string
	Location    *string
	MaxCapacity *int
	Manager     *string
	Notes       *string
}

// Apply copies the patch onto w and validates the result.
func (p WarehousePatch) Apply(w *Warehouse) error {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Location != nil {
		w.Location = *p.Location
	}
	if p.MaxCapacity != nil {
		w.MaxCapacity = *p.MaxCapacity
	}
	if p.Manager != nil {
		w.Manager = strings.TrimSpace(*p.Manager)
	}
	if p.Notes != nil {
		w.Notes = strings.TrimSpace(*p.Notes)
	}
	return w.Validate()
}

// IsEmpty reports whether the patch changes nothing.
func (p WarehousePatch) IsEmpty() bool {
	return p.Name == nil && p.Location == nil && p.MaxCapacity == nil &&
		p.Manager == nil && p.Notes == nil
}

// CapacityChange is the outcome of an atomic capacity step against the store.
// Applied is false when the conditional update matched no row; Current and
// Max then hold the values observed at that moment.
type CapacityChange struct {
	WarehouseID uuid.UUID
	Name        string
	Current     int
	Max         int
	Applied     bool
}

// WarehouseStats summarizes one warehouse for the dashboard.
type WarehouseStats struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Location        string          `json:"location"`
	MaxCapacity     int             `json:"maxCapacity"`
	CurrentCapacity int             `json:"currentCapacity"`
	Headroom        int             `json:"headroom"`
	Utilization     decimal.Decimal `json:"utilization"`
	ItemCount       int64           `json:"itemCount"`
}
