// Package metrics exposes Prometheus instrumentation for the issuance
// engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the issuance engine. A nil
// *Metrics is valid and records nothing, so tests can run services
// without touching the default registry.
type Metrics struct {
	MintsAdmitted    prometheus.Counter
	TokensIssued     prometheus.Counter
	MintRejections   *prometheus.CounterVec
	AdminOperations  *prometheus.CounterVec
	IssuanceDuration prometheus.Histogram
}

// New creates and registers all issuance metrics.
func New() *Metrics {
	return &Metrics{
		MintsAdmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mintgate_mints_admitted_total",
			Help: "Total number of mint requests that passed the admission gate",
		}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mintgate_tokens_issued_total",
			Help: "Total number of tokens issued",
		}),
		MintRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mintgate_mint_rejections_total",
			Help: "Total number of rejected mint requests by rejection reason",
		}, []string{"reason"}),
		AdminOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mintgate_admin_operations_total",
			Help: "Total number of administration operations by operation",
		}, []string{"operation"}),
		IssuanceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mintgate_issuance_duration_ms",
			Help:    "Latency of admitted issuance transactions in milliseconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		}),
	}
}

// ObserveMint records an admitted mint of the given quantity.
func (m *Metrics) ObserveMint(quantity uint64) {
	if m == nil {
		return
	}
	m.MintsAdmitted.Inc()
	m.TokensIssued.Add(float64(quantity))
}

// ObserveRejection records a rejected mint by reason.
func (m *Metrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.MintRejections.WithLabelValues(reason).Inc()
}

// ObserveAdminOperation records a completed administration operation.
func (m *Metrics) ObserveAdminOperation(operation string) {
	if m == nil {
		return
	}
	m.AdminOperations.WithLabelValues(operation).Inc()
}

// ObserveIssuanceDuration records how long an admitted issuance took.
func (m *Metrics) ObserveIssuanceDuration(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.IssuanceDuration.Observe(float64(elapsed.Microseconds()) / 1000.0)
}
