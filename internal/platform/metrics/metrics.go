// Package metrics registers the transport-level Prometheus metrics.
// Domain metrics for issuance live in internal/mint/metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP metrics for the application.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers the HTTP metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mintgate_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mintgate_http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds by method and route",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "route"}),
	}
}

// ObserveRequest records one completed request. Safe on a nil receiver so
// tests can run handlers without a registry.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(float64(elapsed.Milliseconds()))
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
