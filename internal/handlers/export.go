// internal/handlers/export.go
package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ammerola/warehouse-be/internal/adapters/storage"
	"github.com/ammerola/warehouse-be/internal/core/ports"
	"github.com/ammerola/warehouse-be/internal/pkg/spreadsheet"
)

// ExportHandler renders a warehouse's items as a spreadsheet
type ExportHandler struct {
	warehouses ports.WarehouseService
	inventory  ports.InventoryService
	storage    ports.FileStorage
	logger     *slog.Logger
}

// NewExportHandler creates a new export handler. When files is non-nil a
// request with archive=true also stores a copy of the workbook.
func NewExportHandler(warehouses ports.WarehouseService, inventory ports.InventoryService, files ports.FileStorage, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		warehouses: warehouses,
		inventory:  inventory,
		storage:    files,
		logger:     logger.With(slog.String("handler", "export")),
	}
}

// ExportWarehouse handles GET /api/v1/warehouses/{id}/export
func (h *ExportHandler) ExportWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, h.logger, err, "export warehouse")
		return
	}

	warehouse, err := h.warehouses.GetWarehouse(ctx, id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "export warehouse")
		return
	}

	items, err := h.inventory.ListByWarehouse(ctx, id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "export warehouse")
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteInventory(&buf, items); err != nil {
		respondServiceError(w, r, h.logger, err, "generate Excel file")
		return
	}
	data := buf.Bytes()
	now := time.Now()

	if h.storage != nil && r.URL.Query().Get("archive") == "true" {
		key := storage.ExportKey(id, now)
		location, err := h.storage.Upload(ctx, key, bytes.NewReader(data), spreadsheet.ContentType)
		if err != nil {
			respondServiceError(w, r, h.logger, err, "archive export")
			return
		}
		w.Header().Set("X-Export-Location", location)
	}

	filename := fmt.Sprintf("%s_inventory_%s.xlsx", slug(warehouse.Name), now.Format("20060102_150405"))
	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.String("warehouse_id", id.String()),
		slog.Int("total_rows", len(items)),
		slog.String("filename", filename))
}

// slug keeps letters and digits so the name is safe in a header
func slug(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ' || r == '-' || r == '_':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "warehouse"
	}
	return string(out)
}
