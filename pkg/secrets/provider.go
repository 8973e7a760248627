package secrets

import (
	"context"

	"github.com/Checker-Finance/vault-secrets/pkg/vault"
)

// Provider defines a generic secrets backend.
// Concrete implementations (Vault, AWS) can satisfy this.
type Provider interface {
	// GetSecret retrieves the secret at mountPath/name and returns its key-value payload.
	// Missing secrets are reported as *vault.NotFoundError.
	GetSecret(ctx context.Context, mountPath, name string) (map[string]any, error)

	// Close releases any connection held by the provider.
	Close() error
}

// VaultProvider adapts an authenticated *vault.Client to Provider.
type VaultProvider struct {
	client *vault.Client
}

// NewVaultProvider wraps c. The provider owns c from then on.
func NewVaultProvider(c *vault.Client) *VaultProvider {
	return &VaultProvider{client: c}
}

func (p *VaultProvider) GetSecret(ctx context.Context, mountPath, name string) (map[string]any, error) {
	data, err := p.client.GetSecret(ctx, mountPath, name)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *VaultProvider) Close() error {
	p.client.Close()
	return nil
}
