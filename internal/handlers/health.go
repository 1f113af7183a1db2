// internal/handlers/health.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// QueueInspector is the part of *asynq.Inspector used by health checks
type QueueInspector interface {
	Queues() ([]string, error)
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db          ports.Database
	redis       *redis.Client
	asynq       QueueInspector
	version     string
	environment string
	logger      *slog.Logger
	startTime   time.Time
}

// NewHealthHandler creates a new health handler. inspector may be nil.
func NewHealthHandler(
	database ports.Database,
	redisClient *redis.Client,
	inspector QueueInspector,
	version, environment string,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:          database,
		redis:       redisClient,
		asynq:       inspector,
		version:     version,
		environment: environment,
		logger:      logger.With(slog.String("handler", "health")),
		startTime:   time.Now(),
	}
}

// HealthStatus represents the health status of the application
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

// ServiceInfo represents the status of a service dependency
type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"responseTime,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SystemInfo represents system-level information
type SystemInfo struct {
	GoVersion     string `json:"goVersion"`
	NumGoroutines int    `json:"numGoroutines"`
	MemoryAllocMB uint64 `json:"memoryAllocMb"`
	NumGC         uint32 `json:"numGc"`
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:      "healthy",
		Version:     h.version,
		Environment: h.environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Services:    make(map[string]ServiceInfo),
		System:      systemInfo(),
	}

	checks := map[string]func(context.Context) ServiceInfo{
		"database": h.checkDatabase,
		"redis":    h.checkRedis,
	}
	if h.asynq != nil {
		checks["asynq"] = h.checkAsynq
	}

	for name, check := range checks {
		info := check(ctx)
		health.Services[name] = info
		if info.Status != "healthy" {
			health.Status = "degraded"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(w, h.logger, statusCode, health)
}

// Readiness handles GET /api/v1/ready
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ready := true
	details := make(map[string]string)

	if err := h.db.Ping(ctx); err != nil {
		ready = false
		details["database"] = "not ready"
	} else {
		details["database"] = "ready"
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		ready = false
		details["redis"] = "not ready"
	} else {
		details["redis"] = "ready"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(w, h.logger, statusCode, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ServiceInfo {
	start := time.Now()
	info := ServiceInfo{
		Status:  "healthy",
		Details: make(map[string]interface{}),
	}

	if err := h.db.Ping(ctx); err != nil {
		info.Status = "unhealthy"
		info.Message = err.Error()
		h.logger.ErrorContext(ctx, "database health check failed",
			slog.String("error", err.Error()))
		return info
	}

	for k, v := range h.db.Health(ctx) {
		info.Details[k] = v
	}

	info.ResponseTime = time.Since(start).String()
	return info
}

func (h *HealthHandler) checkRedis(ctx context.Context) ServiceInfo {
	start := time.Now()
	info := ServiceInfo{
		Status:  "healthy",
		Details: make(map[string]interface{}),
	}

	pong, err := h.redis.Ping(ctx).Result()
	if err != nil {
		info.Status = "unhealthy"
		info.Message = err.Error()
		h.logger.ErrorContext(ctx, "redis health check failed",
			slog.String("error", err.Error()))
		return info
	}
	info.Details["ping"] = pong

	poolStats := h.redis.PoolStats()
	info.Details["totalConns"] = poolStats.TotalConns
	info.Details["idleConns"] = poolStats.IdleConns

	info.ResponseTime = time.Since(start).String()
	return info
}

func (h *HealthHandler) checkAsynq(ctx context.Context) ServiceInfo {
	start := time.Now()
	info := ServiceInfo{
		Status:  "healthy",
		Details: make(map[string]interface{}),
	}

	queues, err := h.asynq.Queues()
	if err != nil {
		info.Status = "unhealthy"
		info.Message = err.Error()
		h.logger.ErrorContext(ctx, "asynq health check failed",
			slog.String("error", err.Error()))
		return info
	}

	queueStats := make(map[string]interface{})
	for _, queue := range queues {
		qInfo, err := h.asynq.GetQueueInfo(queue)
		if err != nil {
			continue
		}
		queueStats[queue] = map[string]interface{}{
			"size":     qInfo.Size,
			"active":   qInfo.Active,
			"pending":  qInfo.Pending,
			"retry":    qInfo.Retry,
			"archived": qInfo.Archived,
		}
	}
	info.Details["queues"] = queueStats

	info.ResponseTime = time.Since(start).String()
	return info
}

func systemInfo() SystemInfo {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		MemoryAllocMB: memStats.Alloc / 1024 / 1024,
		NumGC:         memStats.NumGC,
	}
}
