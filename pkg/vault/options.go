package vault

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	logger             *zap.Logger
	httpClient         *http.Client
	rootCAs            *x509.CertPool
	caFile             string
	insecureSkipVerify bool
	registerer         prometheus.Registerer
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient replaces the transport entirely; TLS options are ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithRootCAs sets the pool used to verify the server certificate.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(o *options) { o.rootCAs = pool }
}

// WithCAFile adds the PEM certificates in path to the trusted roots.
func WithCAFile(path string) Option {
	return func(o *options) { o.caFile = path }
}

// WithInsecureSkipVerify disables server certificate verification.
// Only for bootstrap environments whose secrets service uses a self-signed
// certificate that cannot be distributed to nodes.
func WithInsecureSkipVerify() Option {
	return func(o *options) { o.insecureSkipVerify = true }
}

// WithRegisterer registers request metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

func (o *options) buildHTTPClient() (*http.Client, error) {
	if o.httpClient != nil {
		return o.httpClient, nil
	}

	pool := o.rootCAs
	if o.caFile != "" {
		pem, err := os.ReadFile(o.caFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		if pool == nil {
			if pool, err = x509.SystemCertPool(); err != nil {
				pool = x509.NewCertPool()
			}
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in CA file %s", o.caFile)
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		RootCAs:            pool,
		InsecureSkipVerify: o.insecureSkipVerify, //nolint:gosec // explicit opt-in only
	}
	return &http.Client{Transport: transport}, nil
}
