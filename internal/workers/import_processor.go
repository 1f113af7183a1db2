// internal/workers/import_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/warehouse-be/internal/core/ports"
	"github.com/ammerola/warehouse-be/internal/pkg/spreadsheet"
)

// ImportResult is written as the import task's result
type ImportResult struct {
	WarehouseID    uuid.UUID   `json:"warehouseId"`
	Filename       string      `json:"filename"`
	RowsProcessed  int         `json:"rowsProcessed"`
	ItemsCreated   int         `json:"itemsCreated"`
	UnitsCreated   int         `json:"unitsCreated"`
	Errors         []RowError  `json:"errors,omitempty"`
	CreatedItemIDs []uuid.UUID `json:"createdItemIds,omitempty"`
	ProcessingTime string      `json:"processingTime"`
}

// RowError reports why one spreadsheet row was not imported
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportProcessor creates inventory items from uploaded spreadsheets
type ImportProcessor struct {
	storage   ports.FileStorage
	inventory ports.InventoryService
	maxRows   int
	logger    *slog.Logger
}

// NewImportProcessor creates a new import processor
func NewImportProcessor(files ports.FileStorage, inventory ports.InventoryService, maxRows int, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		storage:   files,
		inventory: inventory,
		maxRows:   maxRows,
		logger:    logger.With(slog.String("processor", "import")),
	}
}

// ProcessImport creates one item per spreadsheet row. Rows go through the
// inventory service one by one, so each row is checked against capacity on
// its own and a rejected row does not undo the rows before it.
func (p *ImportProcessor) ProcessImport(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var job ports.ImportJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing inventory import",
		slog.String("warehouse_id", job.WarehouseID.String()),
		slog.String("key", job.ObjectKey))

	data, err := p.storage.Download(ctx, job.ObjectKey)
	if err != nil {
		return fmt.Errorf("failed to download upload: %w", err)
	}

	rows, err := spreadsheet.ReadInventory(data, job.WarehouseID, p.maxRows)
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %v: %w", err, asynq.SkipRetry)
	}

	result := ImportResult{
		WarehouseID:   job.WarehouseID,
		Filename:      job.Filename,
		RowsProcessed: len(rows),
	}

	for _, row := range rows {
		if row.Err != nil {
			result.Errors = append(result.Errors, RowError{Line: row.Line, Message: row.Err.Error()})
			continue
		}

		created, err := p.inventory.CreateItem(ctx, row.Item)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Line: row.Line, Message: err.Error()})
			continue
		}
		result.ItemsCreated++
		result.UnitsCreated += created.Quantity
		result.CreatedItemIDs = append(result.CreatedItemIDs, created.ID)
	}
	result.ProcessingTime = time.Since(start).String()

	if err := writeResult(t, result); err != nil {
		p.logger.WarnContext(ctx, "failed to store import result",
			slog.String("error", err.Error()))
	}

	p.logger.InfoContext(ctx, "inventory import completed",
		slog.String("warehouse_id", job.WarehouseID.String()),
		slog.Int("rows", result.RowsProcessed),
		slog.Int("created", result.ItemsCreated),
		slog.Int("failed", len(result.Errors)),
		slog.String("duration", result.ProcessingTime))

	return nil
}
