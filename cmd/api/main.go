// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	redis_a "github.com/ammerola/warehouse-be/internal/adapters/redis_adapter"
	"github.com/ammerola/warehouse-be/internal/app"
	"github.com/ammerola/warehouse-be/internal/handlers"
	"github.com/ammerola/warehouse-be/internal/handlers/middleware"
	"github.com/ammerola/warehouse-be/internal/pkg/config"
	"github.com/ammerola/warehouse-be/internal/pkg/logger"
	"github.com/ammerola/warehouse-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting warehouse inventory api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.NewLogger(&logger.LogConfig{
		Level:          cfg.App.LogLevel,
		Format:         cfg.App.LogFormat,
		AddSource:      cfg.App.Debug,
		Environment:    cfg.App.Environment,
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
	})
	slog.SetDefault(slogger)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	if cfg.Database.AutoMigrate {
		if err := app.RunMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	deps, err := app.Build(ctx, cfg, 0, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.Close()

	asynqClient := asynq.NewClient(app.AsynqRedisOpt(cfg))
	defer asynqClient.Close()
	asynqInspector := asynq.NewInspector(app.AsynqRedisOpt(cfg))
	defer asynqInspector.Close()

	server := setupHTTPServer(cfg, deps, asynqClient, asynqInspector, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server", slog.String("address", cfg.GetServerAddress()))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

func setupHTTPServer(
	cfg *config.Config,
	deps *app.Dependencies,
	asynqClient *asynq.Client,
	asynqInspector *asynq.Inspector,
	slogger *slog.Logger,
) *http.Server {
	queue := workers.NewTaskClient(asynqClient, asynqInspector, workers.TaskOptions{
		MaxRetry:  cfg.Asynq.RetryMax,
		Timeout:   cfg.Import.ProcessingTimeout,
		Retention: cfg.Import.RetentionPeriod,
	})
	idempotency := redis_a.NewIdempotencyStore(deps.Cache, cfg.Redis.IdempotencyTTL)
	maxUpload := int64(cfg.Import.MaxUploadMB) << 20

	routes := &handlers.Routes{
		Health:    handlers.NewHealthHandler(deps.Database, deps.Redis, asynqInspector, Version, cfg.App.Environment, slogger),
		Warehouse: handlers.NewWarehouseHandler(deps.Warehouses, deps.Inventory, slogger),
		Inventory: handlers.NewInventoryHandler(deps.Inventory, slogger),
		Transfer:  handlers.NewTransferHandler(deps.Transfers, idempotency, slogger),
		Dashboard: handlers.NewDashboardHandler(deps.Warehouses, deps.Cache, cfg.Redis.DashboardTTL, slogger),
		Export:    handlers.NewExportHandler(deps.Warehouses, deps.Inventory, deps.Storage, slogger),
		Import:    handlers.NewImportHandler(deps.Warehouses, deps.Storage, queue, maxUpload, slogger),
		Audit:     handlers.NewAuditHandler(deps.Auditor, slogger),
	}

	mux := http.NewServeMux()
	routes.Register(mux)

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(slogger),
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(slogger),
		middleware.CORS(cfg.Security.AllowedOrigins),
	}
	if cfg.Security.SecureHeaders {
		chain = append(chain, middleware.SecureHeaders)
	}
	if cfg.Security.RateLimitRequests > 0 {
		chain = append(chain, middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	chain = append(chain,
		middleware.Authenticate(middleware.NewJWTManager(cfg.Security.JWTSecret, cfg.App.Name), cfg.Security.RequireAuth, slogger),
		middleware.Compression,
	)
	if cfg.Server.RequestTimeout > 0 {
		chain = append(chain, middleware.Timeout(cfg.Server.RequestTimeout))
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, chain...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}
