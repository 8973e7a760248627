// Package chefconfig reads the node identity from a Chef client configuration
// (client.rb or knife.rb) and the client key it points at.
package chefconfig

import (
	"bufio"
	"encoding/pem"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Checker-Finance/vault-secrets/pkg/vault"
)

const (
	// DefaultConfigPath is where chef-client keeps its configuration.
	DefaultConfigPath = "/etc/chef/client.rb"
	// DefaultClientKey is the client key written by chef-client registration.
	DefaultClientKey = "/etc/chef/client.pem"
)

var (
	settingLine = regexp.MustCompile(`^([a-z_]+)\s+(.+)$`)
	dirnameExpr = regexp.MustCompile(`#\{\s*File\.dirname\(\s*__FILE__\s*\)\s*\}`)
)

// ClientConfig holds the settings this tool needs from a Chef config file.
type ClientConfig struct {
	NodeName      string
	ChefServerURL string
	ClientKey     string

	// Values has every simple "key value" setting found in the file.
	Values map[string]string
}

// Load parses the Chef configuration at path.
func Load(path string) (*ClientConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chef config: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := Parse(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse chef config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads "key value" settings from r. dir replaces
// #{File.dirname(__FILE__)} inside double-quoted strings. Lines that are not
// simple settings (blocks, conditionals) are skipped.
func Parse(r io.Reader, dir string) (*ClientConfig, error) {
	cfg := &ClientConfig{Values: make(map[string]string)}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := settingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, ok := parseValue(m[2], dir)
		if !ok {
			continue
		}
		cfg.Values[m[1]] = v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	cfg.NodeName = cfg.Values["node_name"]
	cfg.ChefServerURL = cfg.Values["chef_server_url"]
	cfg.ClientKey = cfg.Values["client_key"]
	return cfg, nil
}

// parseValue understands 'single', "double" (with the dirname interpolation),
// :symbol and bare literals. ok is false for anything else.
func parseValue(raw, dir string) (string, bool) {
	raw = strings.TrimSpace(raw)
	switch raw[0] {
	case '\'':
		end := strings.IndexByte(raw[1:], '\'')
		if end < 0 {
			return "", false
		}
		return raw[1 : end+1], true
	case '"':
		end := strings.IndexByte(raw[1:], '"')
		if end < 0 {
			return "", false
		}
		s := raw[1 : end+1]
		return dirnameExpr.ReplaceAllLiteralString(s, dir), true
	case ':':
		return stripComment(raw[1:]), true
	}
	v := stripComment(raw)
	if strings.ContainsAny(v, " ({[") {
		return "", false
	}
	return v, true
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ServerHost returns the hostname of chef_server_url. The secrets service
// runs on the same host.
func (c *ClientConfig) ServerHost() (string, error) {
	if c.ChefServerURL == "" {
		return "", fmt.Errorf("chef_server_url is not set")
	}
	u, err := url.Parse(c.ChefServerURL)
	if err != nil {
		return "", fmt.Errorf("parse chef_server_url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("chef_server_url %q has no host", c.ChefServerURL)
	}
	return u.Hostname(), nil
}

// Identity reads the client key and pairs it with the node name.
func (c *ClientConfig) Identity() (vault.Identity, error) {
	if c.NodeName == "" {
		return vault.Identity{}, fmt.Errorf("node_name is not set")
	}
	keyPath := c.ClientKey
	if keyPath == "" {
		keyPath = DefaultClientKey
	}

	key, err := ReadKey(keyPath)
	if err != nil {
		return vault.Identity{}, err
	}
	return vault.Identity{ClientName: c.NodeName, PrivateKeyPEM: key}, nil
}

// ReadKey loads a PEM file and checks that it holds at least one PEM block.
func ReadKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read client key: %w", err)
	}
	if block, _ := pem.Decode(data); block == nil {
		return "", fmt.Errorf("client key %s is not PEM encoded", path)
	}
	return string(data), nil
}
