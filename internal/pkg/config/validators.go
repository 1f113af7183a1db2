// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrMissingRequiredConfig is returned when a required value is empty
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Validator checks one aspect of a loaded configuration
type Validator interface {
	Validate(cfg *Config) error
}

// BasicValidator performs basic validation
type BasicValidator struct{}

// Validate performs basic validation
func (v *BasicValidator) Validate(cfg *Config) error {
	if err := validateRequiredFields(cfg); err != nil {
		return err
	}

	if cfg.Database.MaxConnections < cfg.Database.MinConnections {
		return fmt.Errorf("database max_connections must be >= min_connections")
	}
	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}
	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive")
	}
	if cfg.Import.MaxUploadMB <= 0 {
		return fmt.Errorf("import max upload size must be positive")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka brokers", ErrMissingRequiredConfig)
	}
	if cfg.Security.RequireAuth && cfg.Security.JWTSecret == "" {
		return fmt.Errorf("%w: JWT secret", ErrMissingRequiredConfig)
	}
	return nil
}

// ProductionValidator performs strict validation for production environments
type ProductionValidator struct{}

// Validate performs production-specific validation
func (v *ProductionValidator) Validate(cfg *Config) error {
	if cfg.Security.JWTSecret == "" || cfg.Security.JWTSecret == "development-secret-change-in-production" {
		return fmt.Errorf("%w: JWT secret must be set in production", ErrMissingRequiredConfig)
	}
	if len(cfg.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("database SSL must be enabled in production")
	}
	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin (*) not allowed in production")
		}
	}
	return nil
}

// validateRequiredFields checks every field tagged required:"true"
func validateRequiredFields(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return validateStruct(v, "")
}

func validateStruct(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		fieldName := fieldType.Name
		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}

		if fieldType.Tag.Get("required") == "true" && isZeroValue(field) {
			return fmt.Errorf("%w: %s", ErrMissingRequiredConfig, fieldName)
		}

		if field.Kind() == reflect.Struct && field.Type().PkgPath() == t.PkgPath() {
			if err := validateStruct(field, fieldName); err != nil {
				return err
			}
		}
	}
	return nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
