// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/warehouse-be/internal/adapters/db"
	"github.com/ammerola/warehouse-be/internal/adapters/events"
	redis_a "github.com/ammerola/warehouse-be/internal/adapters/redis_adapter"
	"github.com/ammerola/warehouse-be/internal/adapters/storage"
	"github.com/ammerola/warehouse-be/internal/core/ports"
	"github.com/ammerola/warehouse-be/internal/core/services"
	"github.com/ammerola/warehouse-be/internal/pkg/config"
)

// Dependencies holds the adapters and services shared by the API, the
// worker and the seeder.
type Dependencies struct {
	Database     *db.Database
	Redis        *redis.Client
	Cache        *redis_a.Cache
	CacheManager *redis_a.CacheManager
	Events       ports.EventPublisher
	Storage      ports.FileStorage

	Warehouses *services.WarehouseService
	Inventory  *services.InventoryService
	Transfers  *services.TransferService
	Auditor    *services.CapacityAuditor
}

// Build connects to every backing service and wires the core services.
// maxConns overrides the configured pool size when positive.
func Build(ctx context.Context, cfg *config.Config, maxConns int32, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)
	database, err := db.NewDatabase(ctx, DatabaseConfig(cfg, maxConns), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.Database = database

	logger.Info("connecting to Redis", slog.String("addr", cfg.GetRedisAddr()))
	redisClient := redis.NewClient(RedisOptions(cfg))
	if err := redisClient.Ping(ctx).Err(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.Redis = redisClient
	deps.Cache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
	deps.CacheManager = redis_a.NewCacheManager(deps.Cache, logger)

	if deps.Events, err = newPublisher(cfg, logger); err != nil {
		deps.Close()
		return nil, err
	}
	if deps.Storage, err = newStorage(ctx, cfg, logger); err != nil {
		deps.Close()
		return nil, err
	}

	warehouseRepo := db.NewWarehouseRepository(database, logger)
	inventoryRepo := db.NewInventoryRepository(database, logger)

	capacity := services.NewCapacityEngine(warehouseRepo, logger)
	skus := services.NewSKUAllocator(warehouseRepo, inventoryRepo, logger)
	notifier := services.NewNotifier(deps.Events, deps.CacheManager, logger)

	deps.Warehouses = services.NewWarehouseService(warehouseRepo, inventoryRepo, notifier, logger)
	deps.Inventory = services.NewInventoryService(inventoryRepo, warehouseRepo, capacity, skus, database, notifier, logger)
	deps.Transfers = services.NewTransferService(inventoryRepo, warehouseRepo, capacity, skus, database, notifier, logger)
	deps.Auditor = services.NewCapacityAuditor(warehouseRepo, inventoryRepo, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// Close releases every connection opened by Build
func (d *Dependencies) Close() {
	if d.Events != nil {
		d.Events.Close()
	}
	if d.Redis != nil {
		d.Redis.Close()
	}
	if d.Database != nil {
		d.Database.Close()
	}
}

// RunMigrations applies the schema migrations
func RunMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	return db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
	}, logger, 3)
}

// DatabaseConfig maps the loaded configuration onto the pool settings
func DatabaseConfig(cfg *config.Config, maxConns int32) *db.Config {
	c := &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}
	if maxConns > 0 {
		c.MaxConnections = maxConns
		c.MinConnections = min(c.MinConnections, maxConns)
	}
	return c
}

// RedisOptions builds the go-redis client options
func RedisOptions(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:            cfg.GetRedisAddr(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	}
}

// AsynqRedisOpt returns the connection used by the task queue
func AsynqRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
}

func newPublisher(cfg *config.Config, logger *slog.Logger) (ports.EventPublisher, error) {
	if !cfg.Kafka.Enabled {
		logger.Info("kafka disabled, events are logged only")
		return events.NewLogPublisher(logger), nil
	}

	logger.Info("connecting to Kafka", slog.Any("brokers", cfg.Kafka.Brokers))
	publisher, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:         cfg.Kafka.Brokers,
		ClientID:        cfg.Kafka.ClientID,
		WarehouseTopic:  cfg.Kafka.WarehouseTopic,
		InventoryTopic:  cfg.Kafka.InventoryTopic,
		Acks:            cfg.Kafka.Acks,
		Retries:         cfg.Kafka.Retries,
		PublishAttempts: cfg.Kafka.PublishAttempts,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	return publisher, nil
}

func newStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.FileStorage, error) {
	if cfg.AWS.S3Bucket == "" {
		logger.Info("using local file storage", slog.String("dir", cfg.AWS.LocalStorageDir))
		return storage.NewLocalStorage(cfg.AWS.LocalStorageDir, logger), nil
	}

	s3, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
	}
	return s3, nil
}
