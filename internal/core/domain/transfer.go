// internal/core/domain/transfer.go
package domain

import (
	"github.com/google/uuid"
)

// TransferMode describes how one item reached the destination.
type TransferMode string

const (
	// TransferRepointed moved the whole record, keeping its id and SKU.
	TransferRepointed TransferMode = "repointed"
	// TransferSplit created a destination record for part of the source quantity.
	TransferSplit TransferMode = "split"
	// TransferReissued created a destination record with a new SKU and removed
	// the source record, because the source SKU was already taken.
	TransferReissued TransferMode = "reissued"
)

// TransferLine is one requested movement.
type TransferLine struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}

// TransferRequest moves items from one warehouse to another.
type TransferRequest struct {
	SourceWarehouseID      uuid.UUID      `json:"sourceWarehouseId"`
	DestinationWarehouseID uuid.UUID      `json:"destinationWarehouseId"`
	Items                  []TransferLine `json:"items"`
}

// Validate checks the request shape. Lines with a non-positive quantity are
// allowed and skipped during the transfer.
func (r *TransferRequest) Validate() error {
	if r.SourceWarehouseID == uuid.Nil {
		return Validation("sourceWarehouseId is required")
	}
	if r.DestinationWarehouseID == uuid.Nil {
		return Validation("destinationWarehouseId is required")
	}
	if r.SourceWarehouseID == r.DestinationWarehouseID {
		return Validation("source and destination warehouses must differ")
	}
	if len(r.Items) == 0 {
		return Validation("items cannot be empty")
	}
	for i, line := range r.Items {
		if line.ItemID == uuid.Nil {
			return Validation("items[%d].itemId is required", i)
		}
	}
	return nil
}

// TotalUnits sums the positive quantities of the request.
func (r *TransferRequest) TotalUnits() int {
	total := 0
	for _, line := range r.Items {
		if line.Quantity > 0 {
			total += line.Quantity
		}
	}
	return total
}

// TransferredItem reports the outcome for one line.
type TransferredItem struct {
	SourceItemID uuid.UUID    `json:"sourceItemId"`
	ItemID       uuid.UUID    `json:"itemId"`
	Name         string       `json:"name"`
	Quantity     int          `json:"quantity"`
	SKU          string       `json:"sku"`
	Mode         TransferMode `json:"mode"`
}

// TransferReceipt is returned by a successful bulk transfer.
type TransferReceipt struct {
	SourceWarehouseID        uuid.UUID         `json:"sourceWarehouseId"`
	DestinationWarehouseID   uuid.UUID         `json:"destinationWarehouseId"`
	DestinationWarehouseName string            `json:"destinationWarehouseName"`
	TotalUnits               int               `json:"totalUnits"`
	ItemsTransferred         []TransferredItem `json:"itemsTransferred"`
}
