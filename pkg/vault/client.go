// Package vault fetches secrets from a Vault-compatible secrets service,
// authenticating with a node's Chef client key through the chef auth method.
package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Checker-Finance/vault-secrets/internal/httpclient"
	"github.com/Checker-Finance/vault-secrets/internal/metrics"
	"github.com/Checker-Finance/vault-secrets/pkg/utils"
)

const (
	// DefaultPort is the port the secrets service listens on next to the Chef server.
	DefaultPort = 8200

	loginPath   = "/v1/auth/chef/login/key"
	tokenHeader = "X-Vault-Token"

	opLogin = "login"
	opRead  = "read"
)

// Client holds an authenticated session against the secrets service.
//
// A Client is not safe for concurrent use. Callers that need concurrency
// serialize access or create one Client per goroutine.
type Client struct {
	logger  *zap.Logger
	baseURL string
	http    *http.Client
	exec    *httpclient.Executor
	metrics *metrics.Metrics
	session session
}

// New connects to https://host:port and authenticates with identity.
// A zero port means DefaultPort. On failure no Client is returned and any
// connection opened during the attempt is released.
func New(ctx context.Context, host string, port int, identity Identity, opts ...Option) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("vault: host is required")
	}
	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("vault: invalid port %d", port)
	}
	if identity.ClientName == "" || identity.PrivateKeyPEM == "" {
		return nil, ErrInvalidIdentity
	}

	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	httpClient, err := o.buildHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	if o.insecureSkipVerify {
		o.logger.Warn("vault.tls_verification_disabled", zap.String("host", host))
	}

	m := metrics.New(o.registerer)
	c := &Client{
		logger:  o.logger,
		baseURL: "https://" + net.JoinHostPort(host, strconv.Itoa(port)),
		http:    httpClient,
		exec:    httpclient.New(o.logger, httpClient, m, "vault"),
		metrics: m,
	}

	token, err := c.authenticate(ctx, identity)
	if err != nil {
		c.metrics.IncError(opLogin, errorKind(err))
		c.logger.Warn("vault.auth_failed",
			zap.String("client", identity.ClientName),
			zap.String("url", c.baseURL),
			zap.Error(err))
		c.Close()
		return nil, err
	}
	c.session = session{token: token}

	c.logger.Info("vault.auth_succeeded",
		zap.String("client", identity.ClientName),
		zap.String("url", c.baseURL),
		zap.String("token", utils.MaskToken(token)))

	return c, nil
}

// authenticate exchanges identity for a session token.
func (c *Client) authenticate(ctx context.Context, identity Identity) (string, error) {
	payload, err := json.Marshal(loginRequest{
		Key:    identity.PrivateKeyPEM,
		Client: identity.ClientName,
	})
	if err != nil {
		return "", &ProtocolError{Op: opLogin, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(payload))
	if err != nil {
		return "", &ProtocolError{Op: opLogin, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.exec.Do(req, opLogin)
	if err != nil {
		return "", &ProtocolError{Op: opLogin, Err: err}
	}

	var out loginResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", &ProtocolError{Op: opLogin, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(out.Errors) > 0 {
		return "", &AuthError{StatusCode: resp.StatusCode, Messages: out.Errors}
	}
	if out.Auth == nil || out.Auth.ClientToken == "" {
		return "", &AuthError{StatusCode: resp.StatusCode, Reason: "malformed response: missing auth.client_token"}
	}

	return out.Auth.ClientToken, nil
}

// GetSecret reads /v1/<mountPath>/<secretName> with the session token and
// returns its data field. Every call is a single round trip.
func (c *Client) GetSecret(ctx context.Context, mountPath, secretName string) (SecretPayload, error) {
	path := SecretPath{MountPath: mountPath, SecretName: secretName}
	data, err := c.getSecret(ctx, path)
	if err != nil {
		c.metrics.IncError(opRead, errorKind(err))
		c.logger.Warn("vault.secret_fetch_failed",
			zap.String("path", path.String()),
			zap.Error(err))
		return nil, err
	}

	c.logger.Debug("vault.secret_fetched",
		zap.String("path", path.String()),
		zap.Int("keys", len(data)))
	return data, nil
}

func (c *Client) getSecret(ctx context.Context, path SecretPath) (SecretPayload, error) {
	if path.MountPath == "" || path.SecretName == "" {
		return nil, ErrInvalidPath
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/"+path.String(), nil)
	if err != nil {
		return nil, &ProtocolError{Op: opRead, Err: err}
	}
	req.Header.Set(tokenHeader, c.session.token)

	resp, err := c.exec.Do(req, opRead)
	if err != nil {
		return nil, &ProtocolError{Op: opRead, Err: err}
	}

	// 404 bodies are not always JSON, so the status is checked first.
	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Path: path.String()}
	}

	var out secretResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, &ProtocolError{Op: opRead, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(out.Errors) > 0 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Messages: out.Errors}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{StatusCode: resp.StatusCode}
	}
	if out.Data == nil {
		return nil, &ProtocolError{Op: opRead, StatusCode: resp.StatusCode, Err: errors.New("response has no data field")}
	}

	return out.Data, nil
}

// Close releases idle connections held by the transport. It is safe to call
// more than once; the Client must not be used afterwards.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
