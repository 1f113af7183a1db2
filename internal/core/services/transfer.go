// internal/core/services/transfer.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// TransferService moves batches of items between two warehouses. The whole
// batch, including the aggregate capacity change, commits or rolls back as
// one transaction.
type TransferService struct {
	items      ports.InventoryRepository
	warehouses ports.WarehouseRepository
	capacity   *CapacityEngine
	skus       *SKUAllocator
	tx         ports.Transactor
	notifier   *Notifier
	logger     *slog.Logger
}

var _ ports.TransferService = (*TransferService)(nil)

// NewTransferService creates a new bulk transfer service
func NewTransferService(
	items ports.InventoryRepository,
	warehouses ports.WarehouseRepository,
	capacity *CapacityEngine,
	skus *SKUAllocator,
	tx ports.Transactor,
	notifier *Notifier,
	logger *slog.Logger,
) *TransferService {
	return &TransferService{
		items:      items,
		warehouses: warehouses,
		capacity:   capacity,
		skus:       skus,
		tx:         tx,
		notifier:   notifier,
		logger:     logger.With(slog.String("service", "transfer")),
	}
}

// BulkTransfer moves the requested quantities from the source warehouse to
// the destination. Lines with a non-positive quantity are skipped. The first
// failing line aborts the batch.
func (s *TransferService) BulkTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferReceipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total := req.TotalUnits()
	var receipt *domain.TransferReceipt

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.warehouses.LockForUpdate(ctx, req.SourceWarehouseID, req.DestinationWarehouseID)
		if err != nil {
			return fmt.Errorf("failed to lock warehouses: %w", err)
		}

		dst := findWarehouse(locked, req.DestinationWarehouseID)
		if dst == nil {
			return domain.NotFound("destination warehouse", req.DestinationWarehouseID)
		}
		if total > dst.Headroom() {
			return domain.CapacityExceeded(dst.Name, total, dst.Headroom())
		}

		src := findWarehouse(locked, req.SourceWarehouseID)
		if src == nil {
			return domain.NotFound("source warehouse", req.SourceWarehouseID)
		}

		receipt = &domain.TransferReceipt{
			SourceWarehouseID:        src.ID,
			DestinationWarehouseID:   dst.ID,
			DestinationWarehouseName: dst.Name,
			TotalUnits:               total,
			ItemsTransferred:         make([]domain.TransferredItem, 0, len(req.Items)),
		}

		for _, line := range req.Items {
			if line.Quantity <= 0 {
				continue
			}
			moved, err := s.moveLine(ctx, src.ID, dst.ID, line)
			if err != nil {
				return err
			}
			receipt.ItemsTransferred = append(receipt.ItemsTransferred, *moved)
		}

		if total > 0 {
			if _, err := s.capacity.Release(ctx, src.ID, total); err != nil {
				return err
			}
			if _, err := s.capacity.Reserve(ctx, dst.ID, total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "bulk transfer rejected",
			slog.String("source_warehouse_id", req.SourceWarehouseID.String()),
			slog.String("destination_warehouse_id", req.DestinationWarehouseID.String()),
			slog.Int("total_units", total),
			slog.String("kind", string(domain.KindOf(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "bulk transfer completed",
		slog.String("source_warehouse_id", receipt.SourceWarehouseID.String()),
		slog.String("destination_warehouse_id", receipt.DestinationWarehouseID.String()),
		slog.Int("items", len(receipt.ItemsTransferred)),
		slog.Int("total_units", total))

	s.notifier.Committed(ctx, domain.NewEvent(domain.EventInventoryTransferred, receipt.DestinationWarehouseID, receipt))
	return receipt, nil
}

// moveLine applies the item-level effect of one line. A partial quantity
// splits off a new destination record. A full quantity re-points the record
// unless its SKU is already used at the destination, in which case the
// record is reissued there under a new SKU and removed from the source.
func (s *TransferService) moveLine(ctx context.Context, sourceID, destinationID uuid.UUID, line domain.TransferLine) (*domain.TransferredItem, error) {
	item, err := s.items.FindByIDForUpdate(ctx, line.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if item == nil {
		return nil, domain.NotFound("inventory item", line.ItemID)
	}
	if item.WarehouseID != sourceID {
		return nil, domain.NewError(domain.KindItemNotInSource,
			"item %s is not stored in warehouse %s", item.ID, sourceID)
	}
	if line.Quantity > item.Quantity {
		return nil, domain.NewError(domain.KindInsufficientQuantity,
			"item %s holds %d units, %d requested", item.ID, item.Quantity, line.Quantity)
	}

	if line.Quantity < item.Quantity {
		clone, err := s.reissue(ctx, item, destinationID, line.Quantity)
		if err != nil {
			return nil, err
		}
		item.Quantity -= line.Quantity
		if err := s.items.Update(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to reduce source item: %w", err)
		}
		return transferred(item.ID, clone, domain.TransferSplit), nil
	}

	collides, err := s.items.ExistsBySKU(ctx, destinationID, item.SKU, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check destination sku: %w", err)
	}

	if !collides {
		item.WarehouseID = destinationID
		if err := s.items.Update(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to re-point item: %w", err)
		}
		return transferred(item.ID, item, domain.TransferRepointed), nil
	}

	if err := s.items.Delete(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("failed to retire source item: %w", err)
	}
	clone, err := s.reissue(ctx, item, destinationID, line.Quantity)
	if err != nil {
		return nil, err
	}
	return transferred(item.ID, clone, domain.TransferReissued), nil
}

// reissue creates a destination copy of item under a freshly allocated SKU.
func (s *TransferService) reissue(ctx context.Context, item *domain.InventoryItem, destinationID uuid.UUID, quantity int) (*domain.InventoryItem, error) {
	sku, err := s.skus.Allocate(ctx, destinationID)
	if err != nil {
		return nil, err
	}

	clone := item.CloneInto(destinationID, sku, quantity)
	clone.PrepareForStorage()
	if err := s.items.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("failed to create destination item: %w", err)
	}
	return clone, nil
}

func transferred(sourceID uuid.UUID, result *domain.InventoryItem, mode domain.TransferMode) *domain.TransferredItem {
	return &domain.TransferredItem{
		SourceItemID: sourceID,
		ItemID:       result.ID,
		Name:         result.Name,
		Quantity:     result.Quantity,
		SKU:          result.SKU,
		Mode:         mode,
	}
}
