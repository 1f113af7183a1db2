package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

func TestTransferRequest_Validate(t *testing.T) {
	src, dst := uuid.New(), uuid.New()
	line := domain.TransferLine{ItemID: uuid.New(), Quantity: 2}

	tests := []struct {
		name     string
		req      domain.TransferRequest
		errorMsg string
	}{
		{name: "valid", req: domain.TransferRequest{SourceWarehouseID: src, DestinationWarehouseID: dst, Items: []domain.TransferLine{line}}},
		{
			name: "non_positive_lines_allowed",
			req: domain.TransferRequest{SourceWarehouseID: src, DestinationWarehouseID: dst, Items: []domain.TransferLine{
				{ItemID: uuid.New(), Quantity: 0}, {ItemID: uuid.New(), Quantity: -3},
			}},
		},
		{name: "missing_source", req: domain.TransferRequest{DestinationWarehouseID: dst, Items: []domain.TransferLine{line}}, errorMsg: "sourceWarehouseId is required"},
		{name: "missing_destination", req: domain.TransferRequest{SourceWarehouseID: src, Items: []domain.TransferLine{line}}, errorMsg: "destinationWarehouseId is required"},
		{name: "same_warehouse", req: domain.TransferRequest{SourceWarehouseID: src, DestinationWarehouseID: src, Items: []domain.TransferLine{line}}, errorMsg: "must differ"},
		{name: "no_items", req: domain.TransferRequest{SourceWarehouseID: src, DestinationWarehouseID: dst}, errorMsg: "items cannot be empty"},
		{
			name:     "missing_item_id",
			req:      domain.TransferRequest{SourceWarehouseID: src, DestinationWarehouseID: dst, Items: []domain.TransferLine{line, {Quantity: 1}}},
			errorMsg: "items[1].itemId is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestTransferRequest_TotalUnits(t *testing.T) {
	req := domain.TransferRequest{Items: []domain.TransferLine{
		{Quantity: 4}, {Quantity: 0}, {Quantity: -7}, {Quantity: 6},
	}}
	assert.Equal(t, 10, req.TotalUnits())
	assert.Zero(t, (&domain.TransferRequest{}).TotalUnits())
}
