package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

type transferFixture struct {
	*harness
	src, dst domain.Warehouse
	crates   domain.InventoryItem
	pallets  domain.InventoryItem
}

// newTransferFixture stocks Seattle (max 100) with 10 crates and 4 pallets
// and leaves Reno (max 20) empty.
func newTransferFixture(t *testing.T) *transferFixture {
	h := newHarness(t, nil)
	f := &transferFixture{harness: h}
	f.src = h.warehouse("Seattle", 100)
	f.dst = h.warehouse("Reno", 20)
	f.crates = h.stock(f.src.ID, "S-0001", 10)
	f.pallets = h.stock(f.src.ID, "S-0002", 4)
	return f
}

func (f *transferFixture) request(lines ...domain.TransferLine) domain.TransferRequest {
	return domain.TransferRequest{
		SourceWarehouseID:      f.src.ID,
		DestinationWarehouseID: f.dst.ID,
		Items:                  lines,
	}
}

func TestTransferService_BulkTransfer(t *testing.T) {
	t.Run("partial_quantity_splits", func(t *testing.T) {
		f := newTransferFixture(t)

		receipt, err := f.transfers.BulkTransfer(t.Context(), f.request(
			domain.TransferLine{ItemID: f.crates.ID, Quantity: 3},
		))
		require.NoError(t, err)

		require.Len(t, receipt.ItemsTransferred, 1)
		moved := receipt.ItemsTransferred[0]
		assert.Equal(t, domain.TransferSplit, moved.Mode)
		assert.Equal(t, f.crates.ID, moved.SourceItemID)
		assert.NotEqual(t, f.crates.ID, moved.ItemID)
		assert.Equal(t, "R-0001", moved.SKU)
		assert.Equal(t, 3, moved.Quantity)
		assert.Equal(t, "Reno", receipt.DestinationWarehouseName)
		assert.Equal(t, 3, receipt.TotalUnits)

		source, _ := f.store.Item(f.crates.ID)
		assert.Equal(t, 7, source.Quantity)
		clone, ok := f.store.Item(moved.ItemID)
		require.True(t, ok)
		assert.Equal(t, f.dst.ID, clone.WarehouseID)
		assert.Equal(t, f.crates.Name, clone.Name)

		assert.Equal(t, 11, f.current(f.src.ID))
		assert.Equal(t, 3, f.current(f.dst.ID))
		f.assertConsistent(t, f.src.ID, f.dst.ID)
	})

	t.Run("full_quantity_repoints", func(t *testing.T) {
		f := newTransferFixture(t)

		receipt, err := f.transfers.BulkTransfer(t.Context(), f.request(
			domain.TransferLine{ItemID: f.pallets.ID, Quantity: 4},
		))
		require.NoError(t, err)

		moved := receipt.ItemsTransferred[0]
		assert.Equal(t, domain.TransferRepointed, moved.Mode)
		assert.Equal(t, f.pallets.ID, moved.ItemID)
		assert.Equal(t, "S-0002", moved.SKU)

		stored, _ := f.store.Item(f.pallets.ID)
		assert.Equal(t, f.dst.ID, stored.WarehouseID)
		assert.Equal(t, 10, f.current(f.src.ID))
		assert.Equal(t, 4, f.current(f.dst.ID))
		f.assertConsistent(t, f.src.ID, f.dst.ID)
	})

	t.Run("full_quantity_with_sku_collision_reissues", func(t *testing.T) {
		f := newTransferFixture(t)
		f.stock(f.dst.ID, "S-0002", 1)

		receipt, err := f.transfers.BulkTransfer(t.Context(), f.request(
			domain.TransferLine{ItemID: f.pallets.ID, Quantity: 4},
		))
		require.NoError(t, err)

		moved := receipt.ItemsTransferred[0]
		assert.Equal(t, domain.TransferReissued, moved.Mode)
		assert.Equal(t, "R-0001", moved.SKU)

		_, ok := f.store.Item(f.pallets.ID)
		assert.False(t, ok)
		assert.Len(t, f.store.ItemsIn(f.dst.ID), 2)
		assert.Equal(t, 5, f.current(f.dst.ID))
		f.assertConsistent(t, f.src.ID, f.dst.ID)
	})

	t.Run("several_lines_move_together", func(t *testing.T) {
		f := newTransferFixture(t)

		receipt, err := f.transfers.BulkTransfer(t.Context(), f.request(
			domain.TransferLine{ItemID: f.crates.ID, Quantity: 6},
			domain.TransferLine{ItemID: f.pallets.ID, Quantity: 0},
			domain.TransferLine{ItemID: f.pallets.ID, Quantity: 4},
		))
		require.NoError(t, err)

		assert.Len(t, receipt.ItemsTransferred, 2)
		assert.Equal(t, 10, receipt.TotalUnits)
		assert.Equal(t, 4, f.current(f.src.ID))
		assert.Equal(t, 10, f.current(f.dst.ID))
		f.assertConsistent(t, f.src.ID, f.dst.ID)
	})

	tests := []struct {
		name     string
		request  func(f *transferFixture) domain.TransferRequest
		wantKind domain.ErrorKind
	}{
		{
			name: "exceeds_destination_headroom",
			request: func(f *transferFixture) domain.TransferRequest {
				f.stock(f.dst.ID, "R-0100", 15)
				return f.request(domain.TransferLine{ItemID: f.crates.ID, Quantity: 6})
			},
			wantKind: domain.KindCapacityExceeded,
		},
		{
			name: "item_in_other_warehouse",
			request: func(f *transferFixture) domain.TransferRequest {
				stray := f.stock(f.dst.ID, "R-0100", 2)
				return f.request(domain.TransferLine{ItemID: stray.ID, Quantity: 1})
			},
			wantKind: domain.KindItemNotInSource,
		},
		{
			name: "more_than_held",
			request: func(f *transferFixture) domain.TransferRequest {
				return f.request(domain.TransferLine{ItemID: f.pallets.ID, Quantity: 5})
			},
			wantKind: domain.KindInsufficientQuantity,
		},
		{
			name: "unknown_item",
			request: func(f *transferFixture) domain.TransferRequest {
				return f.request(domain.TransferLine{ItemID: uuid.New(), Quantity: 1})
			},
			wantKind: domain.KindNotFound,
		},
		{
			name: "unknown_destination",
			request: func(f *transferFixture) domain.TransferRequest {
				req := f.request(domain.TransferLine{ItemID: f.crates.ID, Quantity: 1})
				req.DestinationWarehouseID = uuid.New()
				return req
			},
			wantKind: domain.KindNotFound,
		},
		{
			name: "unknown_source",
			request: func(f *transferFixture) domain.TransferRequest {
				req := f.request(domain.TransferLine{ItemID: f.crates.ID, Quantity: 1})
				req.SourceWarehouseID = uuid.New()
				return req
			},
			wantKind: domain.KindNotFound,
		},
		{
			name: "same_warehouse",
			request: func(f *transferFixture) domain.TransferRequest {
				req := f.request(domain.TransferLine{ItemID: f.crates.ID, Quantity: 1})
				req.DestinationWarehouseID = f.src.ID
				return req
			},
			wantKind: domain.KindValidation,
		},
		{
			name: "later_line_fails_whole_batch",
			request: func(f *transferFixture) domain.TransferRequest {
				return f.request(
					domain.TransferLine{ItemID: f.crates.ID, Quantity: 3},
					domain.TransferLine{ItemID: f.pallets.ID, Quantity: 4},
					domain.TransferLine{ItemID: uuid.New(), Quantity: 1},
				)
			},
			wantKind: domain.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransferFixture(t)
			req := tt.request(f)

			srcBefore := f.store.ItemsIn(f.src.ID)
			dstBefore := f.store.ItemsIn(f.dst.ID)
			srcLoad, dstLoad := f.current(f.src.ID), f.current(f.dst.ID)

			receipt, err := f.transfers.BulkTransfer(t.Context(), req)

			require.Error(t, err)
			assert.Nil(t, receipt)
			assert.Equal(t, tt.wantKind, domain.KindOf(err))

			assert.Equal(t, srcBefore, f.store.ItemsIn(f.src.ID))
			assert.Equal(t, dstBefore, f.store.ItemsIn(f.dst.ID))
			assert.Equal(t, srcLoad, f.current(f.src.ID))
			assert.Equal(t, dstLoad, f.current(f.dst.ID))
		})
	}
}
