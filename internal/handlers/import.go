// internal/handlers/import.go
package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ammerola/warehouse-be/internal/adapters/storage"
	"github.com/ammerola/warehouse-be/internal/core/ports"
	"github.com/ammerola/warehouse-be/internal/pkg/logger"
	"github.com/ammerola/warehouse-be/internal/pkg/spreadsheet"
)

// ImportHandler accepts spreadsheet uploads and queues them for import
type ImportHandler struct {
	warehouses  ports.WarehouseService
	storage     ports.FileStorage
	queue       ports.TaskQueue
	logger      *slog.Logger
	maxFileSize int64
}

// NewImportHandler creates a new import handler
func NewImportHandler(warehouses ports.WarehouseService, files ports.FileStorage, queue ports.TaskQueue, maxFileSize int64, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		warehouses:  warehouses,
		storage:     files,
		queue:       queue,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
	}
}

// ImportWarehouse handles POST /api/v1/warehouses/{id}/import
func (h *ImportHandler) ImportWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, h.logger, err, "import spreadsheet")
		return
	}

	if _, err := h.warehouses.GetWarehouse(ctx, id); err != nil {
		respondServiceError(w, r, h.logger, err, "import spreadsheet")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		respondBadRequest(w, h.logger, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, h.logger, "File is required")
		return
	}
	defer file.Close()

	if !isSpreadsheet(header.Filename, header.Header.Get("Content-Type")) {
		respondBadRequest(w, h.logger, "Only Excel files are allowed")
		return
	}

	key := storage.ImportKey(id, header.Filename)
	if _, err := h.storage.Upload(ctx, key, file, spreadsheet.ContentType); err != nil {
		respondServiceError(w, r, h.logger, err, "store upload")
		return
	}

	taskID, err := h.queue.EnqueueImport(ctx, ports.ImportJob{
		WarehouseID: id,
		ObjectKey:   key,
		Filename:    header.Filename,
		RequestedBy: logger.UserID(ctx),
	})
	if err != nil {
		if delErr := h.storage.Delete(ctx, key); delErr != nil {
			h.logger.WarnContext(ctx, "failed to remove orphaned upload",
				slog.String("key", key),
				slog.String("error", delErr.Error()))
		}
		respondServiceError(w, r, h.logger, err, "queue import job")
		return
	}

	h.logger.InfoContext(ctx, "Excel import queued",
		slog.String("task_id", taskID),
		slog.String("warehouse_id", id.String()),
		slog.String("key", key))

	respondJSON(w, h.logger, http.StatusAccepted, map[string]interface{}{
		"taskId":      taskID,
		"warehouseId": id,
		"status":      "queued",
		"message":     "Excel import has been queued for processing",
	})
}

// ImportStatus handles GET /api/v1/import/status/{taskId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskId")
	if taskID == "" {
		respondBadRequest(w, h.logger, "taskId is required")
		return
	}

	status, err := h.queue.TaskStatus(r.Context(), taskID)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get import status")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, status)
}

func isSpreadsheet(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return true
	}
	return contentType == spreadsheet.ContentType
}
