// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/warehouse-be/internal/adapters/db"
	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	level := slog.LevelError
	if testing.Verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests and
// applies the embedded migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_warehouse",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_warehouse",
		SSLMode:            "disable",
		MaxConnections:     10,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    30 * time.Minute,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     10 * time.Second,
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(database.Close)

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		TableName: "schema_migrations",
	}
	err = db.RunMigrationsWithRetry(context.Background(), migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates an in-memory Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "warehouse-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "test",
			Password:       "test",
			Name:           "test_warehouse",
			SSLMode:        "disable",
			MaxConnections: 10,
			MinConnections: 2,
		},
		Redis: config.RedisConfig{
			Host:           "localhost",
			Port:           "6379",
			TTL:            time.Hour,
			DashboardTTL:   30 * time.Second,
			IdempotencyTTL: time.Hour,
			PoolSize:       10,
		},
		Import: config.ImportConfig{
			MaxUploadMB:       5,
			MaxRows:           1000,
			ProcessingTimeout: time.Minute,
			RetentionPeriod:   24 * time.Hour,
			TempDir:           os.TempDir(),
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-that-is-long-enough-for-hs256",
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           "8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			RequestTimeout: 10 * time.Second,
		},
	}
}

// CreateTestWarehouse builds an unsaved warehouse
func CreateTestWarehouse(overrides ...func(*domain.Warehouse)) *domain.Warehouse {
	w := &domain.Warehouse{
		Name:        "Tacoma Central",
		Location:    "Tacoma, WA",
		MaxCapacity: 100,
		Manager:     "Dana Ortiz",
	}
	for _, override := range overrides {
		override(w)
	}
	return w
}

// CreateTestInventoryItem builds an unsaved item for warehouseID
func CreateTestInventoryItem(warehouseID uuid.UUID, overrides ...func(*domain.InventoryItem)) *domain.InventoryItem {
	item := &domain.InventoryItem{
		Name:            "Pallet Jack",
		Description:     "Manual pallet jack, 2500kg",
		Category:        "equipment",
		StorageLocation: "A-01-03",
		Quantity:        5,
		WarehouseID:     warehouseID,
	}
	for _, override := range overrides {
		override(item)
	}
	return item
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), "TRUNCATE TABLE inventory_items, warehouses CASCADE")
	require.NoError(t, err, "Failed to truncate tables")
}
