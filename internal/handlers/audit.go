// internal/handlers/audit.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// AuditHandler exposes the capacity reconciliation report
type AuditHandler struct {
	auditor ports.CapacityAuditor
	logger  *slog.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditor ports.CapacityAuditor, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditor: auditor,
		logger:  logger.With(slog.String("handler", "audit")),
	}
}

// CapacityAudit handles GET /api/v1/admin/capacity-audit
func (h *AuditHandler) CapacityAudit(w http.ResponseWriter, r *http.Request) {
	report, err := h.auditor.Audit(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "run capacity audit")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"healthy": report.Healthy(),
		"report":  report,
	})
}
