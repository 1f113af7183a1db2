// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Secret keys read from the secrets source
const (
	SecretDBPassword = "DB_PASSWORD"
	SecretJWTSecret  = "JWT_SECRET"
)

// SecretsSource returns key/value secrets
type SecretsSource interface {
	GetSecrets(ctx context.Context, keys []string) (map[string]string, error)
}

// secretValueAPI is the part of the Secrets Manager client that is used
type secretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager reads a JSON key/value secret from AWS Secrets Manager
type AWSSecretsManager struct {
	client     secretValueAPI
	secretName string
	cache      map[string]string
	cacheMu    sync.RWMutex
	lastFetch  time.Time
	ttl        time.Duration
	logger     *slog.Logger
}

// NewAWSSecretsManager creates a new AWS Secrets Manager client
func NewAWSSecretsManager(region, secretName string, logger *slog.Logger) (*AWSSecretsManager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newAWSSecretsManager(secretsmanager.NewFromConfig(cfg), secretName, logger), nil
}

func newAWSSecretsManager(client secretValueAPI, secretName string, logger *slog.Logger) *AWSSecretsManager {
	return &AWSSecretsManager{
		client:     client,
		secretName: secretName,
		cache:      make(map[string]string),
		ttl:        5 * time.Minute,
		logger:     logger,
	}
}

// GetSecrets returns the requested keys. Keys absent from the secret are
// left out of the result.
func (sm *AWSSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	sm.cacheMu.RLock()
	if time.Since(sm.lastFetch) < sm.ttl && len(sm.cache) > 0 {
		cached := pick(sm.cache, keys)
		sm.cacheMu.RUnlock()
		if len(cached) == len(keys) {
			return cached, nil
		}
	} else {
		sm.cacheMu.RUnlock()
	}

	sm.logger.Info("fetching secrets from AWS Secrets Manager",
		slog.String("secret_name", sm.secretName))

	result, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret value: %w", err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", sm.secretName)
	}

	var secretData map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &secretData); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	sm.cacheMu.Lock()
	sm.cache = secretData
	sm.lastFetch = time.Now()
	sm.cacheMu.Unlock()

	filtered := pick(secretData, keys)
	for _, key := range keys {
		if _, ok := filtered[key]; !ok {
			sm.logger.Warn("secret key not found in AWS Secrets Manager", slog.String("key", key))
		}
	}
	return filtered, nil
}

// ApplySecrets overrides the database password and JWT secret with the
// values held by src.
func ApplySecrets(ctx context.Context, cfg *Config, src SecretsSource) error {
	secrets, err := src.GetSecrets(ctx, []string{SecretDBPassword, SecretJWTSecret})
	if err != nil {
		return err
	}
	if v, ok := secrets[SecretDBPassword]; ok && v != "" {
		cfg.Database.Password = v
	}
	if v, ok := secrets[SecretJWTSecret]; ok && v != "" {
		cfg.Security.JWTSecret = v
	}
	return nil
}

func pick(src map[string]string, keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := src[key]; ok {
			out[key] = val
		}
	}
	return out
}
