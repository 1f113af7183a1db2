// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// StatusForKind maps a domain error kind to an HTTP status code
func StatusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindCapacityExceeded,
		domain.KindDuplicateSKU,
		domain.KindInvalidAmount,
		domain.KindItemNotInSource,
		domain.KindInsufficientQuantity,
		domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindDuplicateWarehouse, domain.KindWarehouseNotEmpty:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, code, message string) {
	respondJSON(w, logger, status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError writes err using its domain kind. Errors that did not
// come from the domain are logged and reported as internal errors.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, action string) {
	ctx := r.Context()

	var de *domain.Error
	if !errors.As(err, &de) {
		logger.ErrorContext(ctx, "failed to "+action,
			slog.String("error", err.Error()))
		respondError(w, logger, http.StatusInternalServerError, "internal_error", "Failed to "+action)
		return
	}

	status := StatusForKind(de.Kind)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "failed to "+action,
			slog.String("kind", string(de.Kind)),
			slog.String("error", err.Error()))
	} else {
		logger.InfoContext(ctx, "request rejected",
			slog.String("action", action),
			slog.String("kind", string(de.Kind)),
			slog.String("error", err.Error()))
	}
	respondError(w, logger, status, string(de.Kind), de.Error())
}

func respondBadRequest(w http.ResponseWriter, logger *slog.Logger, message string) {
	respondError(w, logger, http.StatusBadRequest, string(domain.KindValidation), message)
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validation("request body is required")
		}
		return domain.Validation("invalid request body: %v", err)
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Validation("invalid %s %q", name, raw)
	}
	return id, nil
}

func parseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.Validation("invalid %s %q", field, raw)
	}
	return &id, nil
}

func contentDisposition(filename string) string {
	return fmt.Sprintf(`attachment; filename="%s"`, filename)
}
