package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/vault-secrets/internal/metrics"
)

// RequestIDHeader carries a per-request UUID so client and server logs can be correlated.
const RequestIDHeader = "X-Request-Id"

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Elapsed    time.Duration
}

// Executor performs single-shot HTTP round trips and reads the whole body.
// It never retries; callers decide what a status code means.
type Executor struct {
	logger  *zap.Logger
	http    *http.Client
	metrics *metrics.Metrics
	tag     string
}

// New creates an Executor. m may be nil.
func New(logger *zap.Logger, httpClient *http.Client, m *metrics.Metrics, tag string) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		logger:  logger,
		http:    httpClient,
		metrics: m,
		tag:     tag,
	}
}

// Do executes req once. operation labels logs and metrics ("login", "read").
// A non-nil error means no usable response was received.
func (e *Executor) Do(req *http.Request, operation string) (*Response, error) {
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		e.metrics.ObserveRequest(operation, 0, time.Since(start))
		e.logger.Warn(e.tag+".http_failed",
			zap.String("operation", operation),
			zap.String("request_id", requestID),
			zap.String("url", req.URL.Redacted()),
			zap.Error(err))
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	e.metrics.ObserveRequest(operation, resp.StatusCode, elapsed)
	if err != nil {
		e.logger.Warn(e.tag+".read_body_failed",
			zap.String("operation", operation),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
		return nil, fmt.Errorf("read response body: %w", err)
	}

	e.logger.Debug(e.tag+".http_done",
		zap.String("operation", operation),
		zap.String("request_id", requestID),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Elapsed:    elapsed,
	}, nil
}
