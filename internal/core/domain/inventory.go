// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// DefaultSKUPrefix is used when a warehouse name has no usable leading character.
const DefaultSKUPrefix = "W"

// InventoryItem is a batch of stock identified by a SKU inside exactly one warehouse.
type InventoryItem struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	SKU             string    `json:"sku"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	StorageLocation string    `json:"storageLocation,omitempty"`
	Quantity        int       `json:"quantity"`
	WarehouseID     uuid.UUID `json:"warehouseId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Validate performs domain validation on the inventory item
func (i *InventoryItem) Validate() error {
	i.Name = strings.TrimSpace(i.Name)
	i.SKU = strings.TrimSpace(i.SKU)

	if i.Name == "" {
		return Validation("name is required")
	}
	if i.Quantity < 0 {
		return Validation("quantity cannot be negative")
	}
	if i.WarehouseID == uuid.Nil {
		return Validation("warehouseId is required")
	}
	return nil
}

// PrepareForStorage sets ID and timestamps
func (i *InventoryItem) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	now := time.Now().UTC()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}

// CloneInto returns a new item at the destination warehouse carrying the
// descriptive fields of i.
func (i *InventoryItem) CloneInto(warehouseID uuid.UUID, sku string, quantity int) *InventoryItem {
	return &InventoryItem{
		Name:            i.Name,
		SKU:             sku,
		Description:     i.Description,
		Category:        i.Category,
		StorageLocation: i.StorageLocation,
		Quantity:        quantity,
		WarehouseID:     warehouseID,
	}
}

// ItemPatch carries optional field changes for an item update.
type ItemPatch struct {
	Name            *string
	SKU             *string
	Description     *string
	Category        *string
	StorageLocation *string
	Quantity        *int
	WarehouseID     *uuid.UUID
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.SKU == nil && p.Description == nil && p.Category == nil &&
		p.StorageLocation == nil && p.Quantity == nil && p.WarehouseID == nil
}

// Validate rejects patch values that can never be valid.
func (p ItemPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return Validation("name cannot be empty")
	}
	if p.SKU != nil && strings.TrimSpace(*p.SKU) == "" {
		return Validation("sku cannot be empty")
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return Validation("quantity cannot be negative")
	}
	if p.WarehouseID != nil && *p.WarehouseID == uuid.Nil {
		return Validation("warehouseId cannot be empty")
	}
	return nil
}

// ApplyFields copies the descriptive fields of the patch onto item. Quantity,
// SKU and warehouse are handled by the lifecycle service.
func (p ItemPatch) ApplyFields(item *InventoryItem) {
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.StorageLocation != nil {
		item.StorageLocation = *p.StorageLocation
	}
}

// SKUPrefix derives the allocation prefix from a warehouse name: its first
// letter or digit, upper-cased.
func SKUPrefix(warehouseName string) string {
	for _, r := range strings.TrimSpace(warehouseName) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return strings.ToUpper(string(r))
		}
		break
	}
	return DefaultSKUPrefix
}

// FormatSKU renders an allocated SKU such as "T-0005".
func FormatSKU(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}
