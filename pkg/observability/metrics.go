package observability

import (
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bot's Prometheus collectors.
type Metrics struct {
	leafInvocations *prometheus.CounterVec
	leafErrors      *prometheus.CounterVec
	leafDuration    *prometheus.HistogramVec
	exhausted       prometheus.Counter
	responsesSent   *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		leafInvocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_leaf_invocations_total",
				Help: "Total number of leaf invocations by result",
			},
			[]string{"leaf", "result"},
		),
		leafErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_leaf_errors_total",
				Help: "Total number of leaf invocations that returned an error",
			},
			[]string{"leaf"},
		),
		leafDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_leaf_duration_seconds",
				Help:    "Duration of leaf invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"leaf"},
		),
		exhausted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "arbor_selector_exhausted_total",
				Help: "Requests for which every leaf fell through",
			},
		),
		responsesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_responses_sent_total",
				Help: "Responses delivered to a platform",
			},
			[]string{"platform"},
		),
	}
}

// ObserveLeaf records one invocation of the named leaf.
func (m *Metrics) ObserveLeaf(name string, result domain.NextResult, err error, seconds float64) {
	if err != nil {
		m.leafErrors.WithLabelValues(name).Inc()
	} else {
		m.leafInvocations.WithLabelValues(name, result.String()).Inc()
	}
	m.leafDuration.WithLabelValues(name).Observe(seconds)
}

// ObserveExhausted records a request nobody handled.
func (m *Metrics) ObserveExhausted() {
	m.exhausted.Inc()
}

// ObserveSent records a response delivered on platform.
func (m *Metrics) ObserveSent(platform domain.Platform) {
	m.responsesSent.WithLabelValues(string(platform)).Inc()
}
