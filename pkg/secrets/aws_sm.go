package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"

	"github.com/Checker-Finance/vault-secrets/pkg/vault"
)

// secretsManagerAPI is the subset of *secretsmanager.Client used here.
type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManagerProvider implements Provider using AWS Secrets Manager.
// The secret id is "<mountPath>/<name>".
type AWSSecretsManagerProvider struct {
	client secretsManagerAPI
}

// NewAWSProvider creates a new AWS Secrets Manager provider for the given region.
func NewAWSProvider(ctx context.Context, region string) (*AWSSecretsManagerProvider, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSecretsManagerProvider{client: secretsmanager.NewFromConfig(cfg)}, nil
}

// GetSecret fetches and decodes a secret value from AWS Secrets Manager.
// Secrets must be stored as JSON objects (e.g. {"password": "abc", "port": 5432}).
func (p *AWSSecretsManagerProvider) GetSecret(ctx context.Context, mountPath, name string) (map[string]any, error) {
	path := vault.SecretPath{MountPath: mountPath, SecretName: name}
	if mountPath == "" || name == "" {
		return nil, vault.ErrInvalidPath
	}

	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(path.String()),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, &vault.NotFoundError{Path: path.String()}
		}
		return nil, fmt.Errorf("failed to fetch secret [%s]: %w", path, err)
	}
	if out.SecretString == nil {
		return nil, &vault.ProtocolError{Op: "read", Err: fmt.Errorf("secret [%s] has no string value", path)}
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(*out.SecretString), &result); err != nil {
		return nil, &vault.ProtocolError{Op: "read", Err: fmt.Errorf("invalid secret format for [%s]: %w", path, err)}
	}
	return result, nil
}

func (p *AWSSecretsManagerProvider) Close() error {
	return nil
}
