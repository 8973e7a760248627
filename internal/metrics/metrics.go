package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for secrets service round trips.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Tracks the number of requests sent to the secrets service.
	RequestsTotal *prometheus.CounterVec

	// Measures duration of requests to the secrets service.
	RequestDuration *prometheus.HistogramVec

	// Counts typed failures by operation and error kind.
	ErrorsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
// A nil reg creates unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_secrets_requests_total",
				Help: "Total number of secrets service requests (by operation and status).",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vault_secrets_request_duration_seconds",
				Help:    "Duration of secrets service requests in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
			},
			[]string{"operation"},
		),
		ErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_secrets_errors_total",
				Help: "Count of failed secrets operations by operation and kind.",
			},
			[]string{"operation", "kind"}, // kind = auth | not_found | fetch | protocol
		),
	}
}

// ObserveRequest records one completed round trip. status 0 means the
// request never produced a response.
func (m *Metrics) ObserveRequest(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RequestsTotal.WithLabelValues(operation, label).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) IncError(operation, kind string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(operation, kind).Inc()
}

// WriteTextfile writes everything in g to path in the text exposition format
// read by the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
