// Package telemetry wires prometheus metrics for the FX subsystem and the
// batch processor into a caller-supplied registerer. It never starts an
// HTTP server or touches a global registry itself.
//
// Grounded on the teacher's internal/interfaces/http/metrics.go: a
// registry struct holding typed metric handles, instantiated once and
// passed around, with a constructor that registers everything against a
// given prometheus.Registerer.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Registry holds every metric this module emits.
type Registry struct {
	FXFetchTotal    *prometheus.CounterVec
	FXFetchDuration *prometheus.HistogramVec
	// FXCacheHitRatio is registered here but not updated by fx.Provider.
	FXCacheHitRatio prometheus.Gauge

	BatchItemDuration *prometheus.HistogramVec
	BatchItemsTotal   *prometheus.CounterVec
}

// NewRegistry builds and registers every metric against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		FXFetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "indicator_normalizer_fx_fetch_total",
			Help: "FX fetch attempts by source and outcome.",
		}, []string{"source", "outcome"}),

		FXFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "indicator_normalizer_fx_fetch_duration_seconds",
			Help:    "FX fetch latency by source.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"source"}),

		FXCacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indicator_normalizer_fx_cache_hit_ratio",
			Help: "Rolling FX cache hit ratio (0.0 to 1.0).",
		}),

		BatchItemDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "indicator_normalizer_batch_item_duration_seconds",
			Help:    "Per-item normalize+explain latency within a batch.",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"outcome"}),

		BatchItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "indicator_normalizer_batch_items_total",
			Help: "Batch items processed by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		r.FXFetchTotal, r.FXFetchDuration, r.FXCacheHitRatio,
		r.BatchItemDuration, r.BatchItemsTotal,
	)
	return r
}
