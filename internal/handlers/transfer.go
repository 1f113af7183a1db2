// internal/handlers/transfer.go
package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// IdempotencyKeyHeader carries the client-chosen key of a retryable request
const IdempotencyKeyHeader = "Idempotency-Key"

// TransferHandler handles bulk transfers between warehouses
type TransferHandler struct {
	service     ports.TransferService
	idempotency ports.IdempotencyStore
	logger      *slog.Logger
}

// NewTransferHandler creates a new transfer handler. idempotency may be nil,
// in which case the Idempotency-Key header is ignored.
func NewTransferHandler(service ports.TransferService, idempotency ports.IdempotencyStore, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		service:     service,
		idempotency: idempotency,
		logger:      logger.With(slog.String("handler", "transfer")),
	}
}

// BulkTransfer handles POST /api/v1/inventory/bulk-transfer
func (h *TransferHandler) BulkTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.TransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondServiceError(w, r, h.logger, err, "transfer inventory")
		return
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" || h.idempotency == nil {
		h.transfer(w, r, req)
		return
	}

	storeKey := "transfer:" + key
	fingerprint := requestFingerprint(req)

	record, claimed, err := h.idempotency.Begin(ctx, storeKey, fingerprint)
	if err != nil {
		h.logger.ErrorContext(ctx, "idempotency store unavailable",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusServiceUnavailable, "idempotency_unavailable",
			"Idempotency store is unavailable, retry later")
		return
	}

	if !claimed {
		switch {
		case record.Fingerprint != fingerprint:
			respondError(w, h.logger, http.StatusUnprocessableEntity, "idempotency_key_reused",
				"Idempotency-Key was already used with a different request")
		case record.Completed():
			h.logger.InfoContext(ctx, "replaying transfer response",
				slog.String("idempotency_key", key))
			w.Header().Set("Idempotent-Replayed", "true")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(record.Response)
		default:
			respondError(w, h.logger, http.StatusConflict, "request_in_progress",
				"A request with this Idempotency-Key is still in progress")
		}
		return
	}

	receipt, ok := h.transfer(w, r, req)
	if !ok {
		if err := h.idempotency.Abandon(ctx, storeKey); err != nil {
			h.logger.WarnContext(ctx, "failed to release idempotency key",
				slog.String("idempotency_key", key),
				slog.String("error", err.Error()))
		}
		return
	}

	if err := h.idempotency.Complete(ctx, storeKey, fingerprint, receipt); err != nil {
		h.logger.WarnContext(ctx, "failed to store transfer response",
			slog.String("idempotency_key", key),
			slog.String("error", err.Error()))
	}
}

// transfer runs the transfer and writes the response. It reports whether
// the transfer succeeded.
func (h *TransferHandler) transfer(w http.ResponseWriter, r *http.Request, req domain.TransferRequest) (*domain.TransferReceipt, bool) {
	receipt, err := h.service.BulkTransfer(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "transfer inventory")
		return nil, false
	}

	respondJSON(w, h.logger, http.StatusOK, receipt)
	return receipt, true
}

// requestFingerprint hashes the decoded request so a reused key with a
// different body can be detected.
func requestFingerprint(req domain.TransferRequest) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
