// internal/pkg/config/config.go
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Asynq    AsynqConfig
	AWS      AWSConfig
	Kafka    KafkaConfig
	Import   ImportConfig
	Security SecurityConfig
	Server   ServerConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host               string `required:"true"`
	Port               string `required:"true"`
	User               string `required:"true"`
	Password           string
	Name               string `required:"true"`
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	EnableQueryLogging bool
	MigrationPath      string
	AutoMigrate        bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host            string `required:"true"`
	Port            string `required:"true"`
	Password        string
	DB              int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
	TTL             time.Duration
	DashboardTTL    time.Duration
	IdempotencyTTL  time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	Concurrency         int
	Queues              map[string]int // queue name -> priority
	StrictPriority      bool
	RetryMax            int
	ShutdownTimeout     time.Duration
	HealthCheckInterval time.Duration
	AuditSchedule       string // cron spec for the capacity audit
	CleanupSchedule     string // cron spec for upload cleanup
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
	SecretsID       string // Secrets Manager secret overriding DB_PASSWORD and JWT_SECRET
	LocalStorageDir string // used instead of S3 when S3Bucket is empty
}

// KafkaConfig holds event publishing configuration
type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	ClientID        string
	WarehouseTopic  string
	InventoryTopic  string
	Acks            string
	Retries         int
	PublishAttempts int
}

// ImportConfig holds spreadsheet import and export configuration
type ImportConfig struct {
	MaxUploadMB       int
	MaxRows           int
	ProcessingTimeout time.Duration
	RetentionPeriod   time.Duration
	TempDir           string
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	JWTSecret         string
	RequireAuth       bool
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string `required:"true"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
}

// Load loads configuration from environment variables. In development a
// .env file is read first. When AWS_SECRETS_ID is set, the database password
// and JWT secret are taken from AWS Secrets Manager.
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	v := newViper()
	cfg := build(v, env)

	if cfg.AWS.SecretsID != "" {
		sm, err := NewAWSSecretsManager(cfg.AWS.Region, cfg.AWS.SecretsID, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create secrets manager: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ApplySecrets(ctx, cfg, sm); err != nil {
			return nil, fmt.Errorf("failed to apply secrets: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		// a missing or unreadable file falls back to env and defaults
		_ = v.ReadInConfig()
	}
	return v
}

func build(v *viper.Viper, env string) *Config {
	get := reader{v: v}

	redisHost := get.str("REDIS_HOST", "localhost")
	redisPort := get.str("REDIS_PORT", "6379")

	return &Config{
		App: AppConfig{
			Name:        get.str("APP_NAME", "warehouse-api"),
			Environment: env,
			Version:     get.str("APP_VERSION", "dev"),
			LogLevel:    get.str("LOG_LEVEL", "info"),
			LogFormat:   get.str("LOG_FORMAT", "json"),
			Debug:       get.boolean("APP_DEBUG", env == "development"),
		},
		Database: DatabaseConfig{
			Host:               get.str("DB_HOST", "localhost"),
			Port:               get.str("DB_PORT", "5432"),
			User:               get.str("DB_USER", "warehouse"),
			Password:           get.str("DB_PASSWORD", "warehouse_dev"),
			Name:               get.str("DB_NAME", "warehouse"),
			SSLMode:            get.str("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(get.integer("DB_MAX_CONNECTIONS", 25)),
			MinConnections:     int32(get.integer("DB_MIN_CONNECTIONS", 5)),
			MaxConnLifetime:    get.duration("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    get.duration("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  get.duration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     get.duration("DB_CONNECT_TIMEOUT", 10*time.Second),
			EnableQueryLogging: get.boolean("DB_QUERY_LOGGING", false),
			MigrationPath:      get.str("DB_MIGRATION_PATH", ""),
			AutoMigrate:        get.boolean("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:            redisHost,
			Port:            redisPort,
			Password:        get.str("REDIS_PASSWORD", ""),
			DB:              get.integer("REDIS_DB", 0),
			MaxRetries:      get.integer("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: get.duration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: get.duration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			DialTimeout:     get.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     get.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    get.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:        get.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns:    get.integer("REDIS_MIN_IDLE_CONNS", 2),
			PoolTimeout:     get.duration("REDIS_POOL_TIMEOUT", 4*time.Second),
			TTL:             get.duration("REDIS_TTL", time.Hour),
			DashboardTTL:    get.duration("REDIS_DASHBOARD_TTL", 30*time.Second),
			IdempotencyTTL:  get.duration("REDIS_IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Asynq: AsynqConfig{
			RedisAddr:           fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:       get.str("REDIS_PASSWORD", ""),
			RedisDB:             get.integer("ASYNQ_REDIS_DB", 0),
			Concurrency:         get.integer("ASYNQ_CONCURRENCY", 10),
			Queues:              parseQueues(get.str("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:      get.boolean("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:            get.integer("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout:     get.duration("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthCheckInterval: get.duration("ASYNQ_HEALTH_CHECK_INTERVAL", 30*time.Second),
			AuditSchedule:       get.str("ASYNQ_AUDIT_SCHEDULE", "@every 1h"),
			CleanupSchedule:     get.str("ASYNQ_CLEANUP_SCHEDULE", "@every 6h"),
		},
		AWS: AWSConfig{
			Region:          get.str("AWS_REGION", "us-east-1"),
			AccessKeyID:     get.str("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: get.str("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        get.str("AWS_S3_BUCKET", ""),
			S3Endpoint:      get.str("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    get.boolean("AWS_S3_PATH_STYLE", env == "development"),
			SecretsID:       get.str("AWS_SECRETS_ID", ""),
			LocalStorageDir: get.str("LOCAL_STORAGE_DIR", os.TempDir()+"/warehouse-uploads"),
		},
		Kafka: KafkaConfig{
			Enabled:         get.boolean("KAFKA_ENABLED", false),
			Brokers:         get.slice("KAFKA_BROKERS", []string{"localhost:9092"}),
			ClientID:        get.str("KAFKA_CLIENT_ID", "warehouse-api"),
			WarehouseTopic:  get.str("KAFKA_TOPIC_WAREHOUSES", "warehouse.events"),
			InventoryTopic:  get.str("KAFKA_TOPIC_INVENTORY", "inventory.events"),
			Acks:            get.str("KAFKA_ACKS", "all"),
			Retries:         get.integer("KAFKA_RETRIES", 3),
			PublishAttempts: get.integer("KAFKA_PUBLISH_ATTEMPTS", 3),
		},
		Import: ImportConfig{
			MaxUploadMB:       get.integer("IMPORT_MAX_UPLOAD_MB", 20),
			MaxRows:           get.integer("IMPORT_MAX_ROWS", 10000),
			ProcessingTimeout: get.duration("IMPORT_PROCESSING_TIMEOUT", 5*time.Minute),
			RetentionPeriod:   get.duration("IMPORT_RETENTION", 7*24*time.Hour),
			TempDir:           get.str("TEMP_DIR", os.TempDir()),
		},
		Security: SecurityConfig{
			JWTSecret:         get.str("JWT_SECRET", generateDefaultSecret(env)),
			RequireAuth:       get.boolean("REQUIRE_AUTH", false),
			RateLimitRequests: get.integer("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: get.duration("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    get.slice("ALLOWED_ORIGINS", []string{"*"}),
			SecureHeaders:     get.boolean("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   get.str("REQUEST_ID_HEADER", "X-Request-ID"),
		},
		Server: ServerConfig{
			Host:            get.str("SERVER_HOST", "0.0.0.0"),
			Port:            get.str("SERVER_PORT", "8080"),
			ReadTimeout:     get.duration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    get.duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     get.duration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout:  get.duration("SERVER_REQUEST_TIMEOUT", 25*time.Second),
			MaxHeaderBytes:  get.integer("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			GracefulTimeout: get.duration("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validators := []Validator{&BasicValidator{}}
	if c.IsProduction() {
		validators = append(validators, &ProductionValidator{})
	}
	for _, v := range validators {
		if err := v.Validate(c); err != nil {
			return err
		}
	}
	return nil
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns host:port of the Redis server
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// reader resolves keys through viper, which consults the environment and an
// optional config file.
type reader struct {
	v *viper.Viper
}

func (r reader) str(key, defaultValue string) string {
	if value := r.v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func (r reader) boolean(key string, defaultValue bool) bool {
	if value := r.v.GetString(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func (r reader) integer(key string, defaultValue int) int {
	if value := r.v.GetString(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func (r reader) duration(key string, defaultValue time.Duration) time.Duration {
	if value := r.v.GetString(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (r reader) slice(key string, defaultValue []string) []string {
	value := r.v.GetString(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range strings.Split(queuesStr, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}

func generateDefaultSecret(env string) string {
	if env == "production" {
		return "" // Force error in production if not set
	}
	return "development-secret-change-in-production"
}
