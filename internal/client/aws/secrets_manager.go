package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/cyphera/custody-vault/internal/logger"
	"go.uber.org/zap"
)

// secretsAPI is the subset of the Secrets Manager client used here.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient wraps the AWS Secrets Manager client.
type SecretsManagerClient struct {
	svc    secretsAPI
	getenv func(string) string
	logger *zap.Logger
}

// NewSecretsManagerClient creates and initializes a new Secrets Manager client.
// It uses the default AWS configuration chain (environment variables, shared config, IAM role).
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return newSecretsManagerClient(secretsmanager.NewFromConfig(cfg), os.Getenv), nil
}

func newSecretsManagerClient(svc secretsAPI, getenv func(string) string) *SecretsManagerClient {
	return &SecretsManagerClient{
		svc:    svc,
		getenv: getenv,
		logger: logger.OrNop(nil),
	}
}

// GetSecretString resolves a secret from the ARN held in secretArnEnvVar,
// falling back to the plain value of fallbackEnvVar when the ARN is unset or
// the fetch fails. A secret stored as single-key JSON yields that key's value.
func (c *SecretsManagerClient) GetSecretString(ctx context.Context, secretArnEnvVar string, fallbackEnvVar string) (string, error) {
	if secretArn := c.getenv(secretArnEnvVar); secretArn != "" {
		value, err := c.fetch(ctx, secretArn)
		if err == nil {
			return value, nil
		}
		c.logger.Warn("Failed to retrieve secret from Secrets Manager, falling back to env var",
			zap.String("secretArnEnvVar", secretArnEnvVar),
			zap.String("fallbackEnvVar", fallbackEnvVar),
			zap.Error(err),
		)
	} else {
		c.logger.Debug("Secret ARN environment variable not set, falling back to direct env var",
			zap.String("arnEnvVar", secretArnEnvVar),
			zap.String("fallbackEnvVar", fallbackEnvVar),
		)
	}

	if value := c.getenv(fallbackEnvVar); value != "" {
		c.logger.Info("Using secret value from direct environment variable", zap.String("envVar", fallbackEnvVar))
		return value, nil
	}

	return "", fmt.Errorf("secret not found using ARN env var '%s' or direct env var '%s'", secretArnEnvVar, fallbackEnvVar)
}

func (c *SecretsManagerClient) fetch(ctx context.Context, secretArn string) (string, error) {
	if c.svc == nil {
		return "", fmt.Errorf("secrets manager client not configured")
	}
	result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretArn),
	})
	if err != nil {
		return "", err
	}
	raw := aws.ToString(result.SecretString)
	if raw == "" {
		return "", fmt.Errorf("secret %s is empty", secretArn)
	}

	var secretJSON map[string]string
	if err := json.Unmarshal([]byte(raw), &secretJSON); err == nil && len(secretJSON) == 1 {
		for key, value := range secretJSON {
			c.logger.Info("Fetched secret from Secrets Manager (extracted from single-key JSON)",
				zap.String("secretArn", secretArn),
				zap.String("jsonKey", key),
			)
			return value, nil
		}
	}
	c.logger.Info("Fetched secret from Secrets Manager", zap.String("secretArn", secretArn))
	return raw, nil
}
