package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Checker-Finance/vault-secrets/internal/config"
	"github.com/Checker-Finance/vault-secrets/internal/metrics"
	internalsecrets "github.com/Checker-Finance/vault-secrets/internal/secrets"
	"github.com/Checker-Finance/vault-secrets/pkg/logger"
	"github.com/Checker-Finance/vault-secrets/pkg/secrets"
	"github.com/Checker-Finance/vault-secrets/pkg/vault"
)

func newGetCmd(cfg *config.Config) *cobra.Command {
	var format, field string

	cmd := &cobra.Command{
		Use:   "get <mount>/<name>",
		Short: "Retrieve a secret.",
		Long: `Retrieve the secret at <mount>/<name> and print its data.
The last path segment is the secret name; everything before it is the mount path.`,
		Example: `  vault-secrets get secret/db-pass
  vault-secrets get secret/app/db --format env > /etc/app/db.env
  vault-secrets get secret/app/db --field password`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg := prometheus.NewRegistry()
			defer writeMetrics(cfg, reg)

			provider, err := openProvider(ctx, cfg, reg)
			if err != nil {
				return err
			}
			defer func() { _ = provider.Close() }()

			resolver := internalsecrets.NewResolver(logger.L(), cfg.Backend, provider)

			if field != "" {
				v, err := internalsecrets.Resolve(ctx, resolver, args[0], internalsecrets.Field(field))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
				return err
			}

			data, err := resolver.Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			return writePayload(cmd.OutOrStdout(), format, data)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatJSON, "output format: json, yaml or env")
	cmd.Flags().StringVar(&field, "field", "", "print only this field of the secret")
	return cmd
}

// openProvider builds the configured backend. For vault this authenticates.
func openProvider(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (secrets.Provider, error) {
	switch cfg.Backend {
	case "vault":
		chef, err := cfg.ResolveChef()
		if err != nil {
			return nil, err
		}
		identity, err := chef.Identity()
		if err != nil {
			return nil, err
		}
		host, err := cfg.Host(chef)
		if err != nil {
			return nil, err
		}

		opts := []vault.Option{
			vault.WithLogger(logger.L()),
			vault.WithRegisterer(reg),
		}
		if cfg.VaultCAFile != "" {
			opts = append(opts, vault.WithCAFile(cfg.VaultCAFile))
		}
		if cfg.VaultSkipVerify {
			opts = append(opts, vault.WithInsecureSkipVerify())
		}

		client, err := vault.New(ctx, host, cfg.VaultPort, identity, opts...)
		if err != nil {
			return nil, err
		}
		return secrets.NewVaultProvider(client), nil
	case "aws":
		p, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q (want vault or aws)", cfg.Backend)
	}
}

func writeMetrics(cfg *config.Config, g prometheus.Gatherer) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsTextfile, g); err != nil {
		logger.L().Warn("metrics.textfile_write_failed",
			zap.String("path", cfg.MetricsTextfile),
			zap.Error(err))
	}
}
