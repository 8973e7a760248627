package config

import (
	"github.com/joho/godotenv"

	"github.com/Checker-Finance/vault-secrets/internal/chefconfig"
	pkgconfig "github.com/Checker-Finance/vault-secrets/pkg/config"
	"github.com/Checker-Finance/vault-secrets/pkg/vault"
)

// Config holds the runtime configuration for vault-secrets.
type Config struct {
	ServiceName string
	Env         string
	LogLevel    string

	// Chef identity. Empty overrides fall back to the values in ChefConfigPath.
	ChefConfigPath string
	ChefNodeName   string
	ChefClientKey  string
	ChefServerURL  string

	// Secrets service. VaultHost defaults to the chef_server_url host.
	VaultHost       string
	VaultPort       int
	VaultCAFile     string
	VaultSkipVerify bool

	// Backend is "vault" or "aws".
	Backend   string
	AWSRegion string

	// MetricsTextfile, when set, receives request metrics on exit.
	MetricsTextfile string
}

// Load loads configuration from environment variables and optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:     pkgconfig.GetEnv("SERVICE_NAME", "vault-secrets"),
		Env:             pkgconfig.GetEnv("ENV", "prod"),
		LogLevel:        pkgconfig.GetEnv("LOG_LEVEL", "info"),
		ChefConfigPath:  pkgconfig.GetEnv("CHEF_CONFIG", chefconfig.DefaultConfigPath),
		ChefNodeName:    pkgconfig.GetEnv("CHEF_NODE_NAME", ""),
		ChefClientKey:   pkgconfig.GetEnv("CHEF_CLIENT_KEY", ""),
		ChefServerURL:   pkgconfig.GetEnv("CHEF_SERVER_URL", ""),
		VaultHost:       pkgconfig.GetEnv("VAULT_HOST", ""),
		VaultPort:       pkgconfig.GetEnvInt("VAULT_PORT", vault.DefaultPort),
		VaultCAFile:     pkgconfig.GetEnv("VAULT_CA_FILE", ""),
		VaultSkipVerify: pkgconfig.GetEnvBool("VAULT_SKIP_VERIFY", false),
		Backend:         pkgconfig.GetEnv("SECRETS_BACKEND", "vault"),
		AWSRegion:       pkgconfig.GetEnv("AWS_REGION", "us-east-2"),
		MetricsTextfile: pkgconfig.GetEnv("METRICS_TEXTFILE", ""),
	}
}

// ResolveChef loads the Chef config file and applies the environment
// overrides on top. When every needed value is overridden the file is not read.
func (c *Config) ResolveChef() (*chefconfig.ClientConfig, error) {
	var (
		chef *chefconfig.ClientConfig
		err  error
	)
	if c.ChefNodeName != "" && c.ChefClientKey != "" && (c.ChefServerURL != "" || c.VaultHost != "") {
		chef = &chefconfig.ClientConfig{Values: map[string]string{}}
	} else if chef, err = chefconfig.Load(c.ChefConfigPath); err != nil {
		return nil, err
	}

	if c.ChefNodeName != "" {
		chef.NodeName = c.ChefNodeName
	}
	if c.ChefClientKey != "" {
		chef.ClientKey = c.ChefClientKey
	}
	if c.ChefServerURL != "" {
		chef.ChefServerURL = c.ChefServerURL
	}
	return chef, nil
}

// Host returns VaultHost, or the chef server host when unset.
func (c *Config) Host(chef *chefconfig.ClientConfig) (string, error) {
	if c.VaultHost != "" {
		return c.VaultHost, nil
	}
	return chef.ServerHost()
}
