package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pkgsecrets "github.com/Checker-Finance/vault-secrets/pkg/secrets"
	"github.com/Checker-Finance/vault-secrets/pkg/vault"
	"go.uber.org/zap"
)

// Resolver turns secret references such as "secret/app/db-pass" into
// decoded values using a Provider. It does not cache.
type Resolver struct {
	logger   *zap.Logger
	backend  string
	provider pkgsecrets.Provider
}

// NewResolver constructs a resolver over provider. backend names the
// provider in logs ("vault", "aws").
func NewResolver(logger *zap.Logger, backend string, provider pkgsecrets.Provider) *Resolver {
	return &Resolver{
		logger:   logger,
		backend:  backend,
		provider: provider,
	}
}

// ParseRef splits ref at its last "/" into mount path and secret name.
// Pattern: {mount}[/{sub}...]/{name}
func ParseRef(ref string) (vault.SecretPath, error) {
	ref = strings.Trim(ref, "/")
	i := strings.LastIndex(ref, "/")
	if i <= 0 || i == len(ref)-1 {
		return vault.SecretPath{}, fmt.Errorf("invalid secret reference %q: expected <mount>/<name>", ref)
	}
	return vault.SecretPath{MountPath: ref[:i], SecretName: ref[i+1:]}, nil
}

// Fetch resolves ref and returns the raw payload.
func (r *Resolver) Fetch(ctx context.Context, ref string) (map[string]any, error) {
	path, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	data, err := r.provider.GetSecret(ctx, path.MountPath, path.SecretName)
	if err != nil {
		r.logger.Warn(r.backend+".secret_fetch_failed",
			zap.String("ref", path.String()),
			zap.Error(err))
		return nil, fmt.Errorf("resolve secret %q: %w", path.String(), err)
	}

	r.logger.Info(r.backend+".secret_resolved",
		zap.String("ref", path.String()),
		zap.Int("keys", len(data)))
	return data, nil
}

// Resolve fetches ref and decodes it into T with parse. parse should
// validate required fields.
func Resolve[T any](ctx context.Context, r *Resolver, ref string, parse func(map[string]any) (T, error)) (T, error) {
	var zero T
	data, err := r.Fetch(ctx, ref)
	if err != nil {
		return zero, err
	}

	v, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("parse secret %q: %w", ref, err)
	}
	return v, nil
}

// StringValues flattens a payload to strings. Strings are kept as-is,
// everything else is JSON-encoded.
func StringValues(data map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", k, err)
		}
		out[k] = string(b)
	}
	return out, nil
}

// Field returns a parse func that extracts a single field as a string.
func Field(name string) func(map[string]any) (string, error) {
	return func(data map[string]any) (string, error) {
		v, ok := data[name]
		if !ok {
			return "", fmt.Errorf("field %q not present", name)
		}
		if s, ok := v.(string); ok {
			return s, nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode field %q: %w", name, err)
		}
		return string(b), nil
	}
}
