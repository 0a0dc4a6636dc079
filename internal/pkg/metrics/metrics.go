package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "campus_booking"

// Metrics groups the collectors recorded by the use cases and HTTP layer.
type Metrics struct {
	Transitions   *prometheus.CounterVec
	Conflicts     prometheus.Counter
	ForcedApprove prometheus.Counter
	Uploads       *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

// New registers every collector on reg. Pass a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_transitions_total",
			Help:      "Committed reservation lifecycle transitions by target status.",
		}, []string{"status"}),
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_conflicts_total",
			Help:      "Approvals refused because approved bookings overlap.",
		}),
		ForcedApprove: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_forced_approvals_total",
			Help:      "Approvals committed with forceApprove set.",
		}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_uploads_total",
			Help:      "Document uploads by result.",
		}, []string{"result"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.Transitions, m.Conflicts, m.ForcedApprove, m.Uploads, m.HTTPDuration)
	return m
}

// NewNop returns collectors that are not registered anywhere.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
