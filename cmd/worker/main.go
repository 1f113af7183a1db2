// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/warehouse-be/internal/app"
	"github.com/ammerola/warehouse-be/internal/pkg/config"
	"github.com/ammerola/warehouse-be/internal/pkg/logger"
	"github.com/ammerola/warehouse-be/internal/workers"
)

// workerMaxConnections keeps the worker's pool smaller than the API's
const workerMaxConnections = 10

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()
	deps, err := app.Build(ctx, cfg, workerMaxConnections, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.Close()

	redisOpt := app.AsynqRedisOpt(cfg)
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:         cfg.Asynq.Concurrency,
		Queues:              cfg.Asynq.Queues,
		StrictPriority:      cfg.Asynq.StrictPriority,
		ErrorHandler:        asynq.ErrorHandlerFunc(handleError),
		RetryDelayFunc:      exponentialBackoff,
		ShutdownTimeout:     cfg.Asynq.ShutdownTimeout,
		HealthCheckFunc:     healthCheck,
		HealthCheckInterval: cfg.Asynq.HealthCheckInterval,
		Logger:              newAsynqLogger(slogger),
	})

	mux := workers.NewServeMux(workers.Processors{
		Import:  workers.NewImportProcessor(deps.Storage, deps.Inventory, cfg.Import.MaxRows, slogger),
		Audit:   workers.NewAuditProcessor(deps.Auditor, slogger),
		Cleanup: workers.NewCleanupProcessor(deps.Storage, cfg.Import.RetentionPeriod, slogger),
	}, slogger)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger:   newAsynqLogger(slogger),
		Location: time.UTC,
	})
	if err := workers.RegisterPeriodicTasks(scheduler, cfg.Asynq.AuditSchedule, cfg.Asynq.CleanupSchedule); err != nil {
		slogger.Error("failed to register periodic tasks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	if err := srv.Start(mux); err != nil {
		slogger.Error("failed to run worker server", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		slogger.Error("failed to start scheduler", slog.String("error", err.Error()))
		srv.Shutdown()
		os.Exit(1)
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	slog.ErrorContext(ctx, "task processing failed",
		slog.String("type", task.Type()),
		slog.Int("retried", retried),
		slog.Int("max_retry", maxRetry),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(min(n, 20)))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
