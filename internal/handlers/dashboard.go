// internal/handlers/dashboard.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	redis_a "github.com/ammerola/warehouse-be/internal/adapters/redis_adapter"
	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// DashboardHandler serves capacity totals across warehouses
type DashboardHandler struct {
	warehouses ports.WarehouseService
	cache      ports.CacheRepository
	ttl        time.Duration
	logger     *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler. cache may be nil.
func NewDashboardHandler(warehouses ports.WarehouseService, cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		warehouses: warehouses,
		cache:      cache,
		ttl:        ttl,
		logger:     logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache == nil {
		dashboard, err := h.loadDashboardData(ctx)
		if err != nil {
			respondServiceError(w, r, h.logger, err, "load dashboard")
			return
		}
		respondJSON(w, h.logger, http.StatusOK, dashboard)
		return
	}

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "main")
	var dashboard DashboardData

	err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, func() (interface{}, error) {
		return h.loadDashboardData(ctx)
	}, h.ttl)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "load dashboard")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, dashboard)
}

func (h *DashboardHandler) loadDashboardData(ctx context.Context) (*DashboardData, error) {
	stats, err := h.warehouses.WarehouseStats(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &DashboardData{
		Warehouses: stats,
		Timestamp:  time.Now().UTC(),
	}
	if dashboard.Warehouses == nil {
		dashboard.Warehouses = []*domain.WarehouseStats{}
	}

	summary := &dashboard.Summary
	for _, s := range stats {
		summary.TotalWarehouses++
		summary.TotalCapacity += int64(s.MaxCapacity)
		summary.UsedCapacity += int64(s.CurrentCapacity)
		summary.TotalItems += s.ItemCount
		if s.MaxCapacity > 0 && s.Headroom == 0 {
			summary.FullWarehouses++
		}
	}
	summary.Headroom = summary.TotalCapacity - summary.UsedCapacity
	summary.Utilization = decimal.Zero
	if summary.TotalCapacity > 0 {
		summary.Utilization = decimal.NewFromInt(summary.UsedCapacity).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(summary.TotalCapacity)).
			Round(2)
	}

	return dashboard, nil
}

// DashboardData is the cached dashboard payload
type DashboardData struct {
	Summary    DashboardSummary         `json:"summary"`
	Warehouses []*domain.WarehouseStats `json:"warehouses"`
	Timestamp  time.Time                `json:"timestamp"`
}

// DashboardSummary aggregates every warehouse
type DashboardSummary struct {
	TotalWarehouses int             `json:"totalWarehouses"`
	FullWarehouses  int             `json:"fullWarehouses"`
	TotalCapacity   int64           `json:"totalCapacity"`
	UsedCapacity    int64           `json:"usedCapacity"`
	Headroom        int64           `json:"headroom"`
	Utilization     decimal.Decimal `json:"utilization"`
	TotalItems      int64           `json:"totalItems"`
}
