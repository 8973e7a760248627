package main

import (
	"github.com/spf13/cobra"

	"github.com/Checker-Finance/vault-secrets/internal/config"
	"github.com/Checker-Finance/vault-secrets/pkg/logger"
)

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:   "vault-secrets",
		Short: "Fetch secrets from Vault using this node's Chef identity.",
		Long: `vault-secrets authenticates to the secrets service with the node's Chef client
key (chef auth method, POST /v1/auth/chef/login/key) and prints the requested secret.

The node name, client key and Chef server URL are read from the Chef client
configuration; the secrets service is expected on the Chef server host, port 8200.
Server certificates are verified unless --insecure-skip-verify is given.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.ChefConfigPath, "chef-config", cfg.ChefConfigPath, "Chef client configuration file")
	flags.StringVar(&cfg.VaultHost, "host", cfg.VaultHost, "secrets service host (default: chef_server_url host)")
	flags.IntVar(&cfg.VaultPort, "port", cfg.VaultPort, "secrets service port")
	flags.StringVar(&cfg.VaultCAFile, "ca-file", cfg.VaultCAFile, "PEM bundle of CAs trusted for the secrets service")
	flags.BoolVar(&cfg.VaultSkipVerify, "insecure-skip-verify", cfg.VaultSkipVerify, "do not verify the server certificate (unsafe)")
	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "secrets backend: vault or aws")
	flags.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "write request metrics to this node_exporter textfile")

	root.AddCommand(newGetCmd(cfg), newVersionCmd())
	return root
}
