// Package metrics exposes Prometheus instrumentation for settlement solves.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "settle"

// Metrics holds the collectors recorded by the settlement service.
type Metrics struct {
	Solves          *prometheus.CounterVec
	SolveDuration   *prometheus.HistogramVec
	SettlementCount *prometheus.HistogramVec
	InvalidInputs   prometheus.Counter
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests to
// avoid clashing with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Solves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Settlement solves by strategy.",
		}, []string{"strategy"}),
		SolveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Time spent computing settlements.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"strategy"}),
		SettlementCount: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlements_per_solve",
			Help:      "Number of payments suggested per solve.",
			Buckets:   prometheus.LinearBuckets(0, 2, 11),
		}, []string{"strategy"}),
		InvalidInputs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_inputs_total",
			Help:      "Requests rejected because their balances were invalid.",
		}),
	}
}

// ObserveSolve records one successful solve.
func (m *Metrics) ObserveSolve(strategy string, settlements int, elapsed time.Duration) {
	m.Solves.WithLabelValues(strategy).Inc()
	m.SolveDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	m.SettlementCount.WithLabelValues(strategy).Observe(float64(settlements))
}
