package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Bid outcomes recorded on BidsComputed
const (
	OutcomePriced   = "priced"
	OutcomeFloorHit = "floor_hit"
	OutcomeFailed   = "failed"
)

// Metrics holds the engine's Prometheus collectors
type Metrics struct {
	BidsComputed    *prometheus.CounterVec
	MarginFloorHits prometheus.Counter
	MatchScore      prometheus.Histogram
	RerankDuration  prometheus.Histogram
	ActiveRFPs      prometheus.Gauge

	registry *prometheus.Registry
}

// New registers every collector on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		BidsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bidengine_bids_computed_total",
				Help: "Total number of bids computed",
			},
			[]string{"outcome"},
		),
		MarginFloorHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "bidengine_margin_floor_hits_total",
			Help: "Total number of bids clamped at the survival margin",
		}),
		MatchScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bidengine_match_score",
			Help:    "Best spec match score per line item",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		RerankDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bidengine_rerank_duration_seconds",
			Help:    "Portfolio re-rank latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveRFPs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bidengine_active_rfps",
			Help: "Number of non-archived RFPs in the last ranking",
		}),
		registry: reg,
	}
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordBid counts one priced bid
func (m *Metrics) RecordBid(floorHit bool) {
	if m == nil {
		return
	}
	if floorHit {
		m.BidsComputed.WithLabelValues(OutcomeFloorHit).Inc()
		m.MarginFloorHits.Inc()
		return
	}
	m.BidsComputed.WithLabelValues(OutcomePriced).Inc()
}

// RecordFailure counts a bid that could not be computed
func (m *Metrics) RecordFailure() {
	if m == nil {
		return
	}
	m.BidsComputed.WithLabelValues(OutcomeFailed).Inc()
}

// ObserveMatch records a best-match score
func (m *Metrics) ObserveMatch(score float64) {
	if m == nil {
		return
	}
	m.MatchScore.Observe(score)
}

// ObserveRerank records a re-rank and the resulting active portfolio size
func (m *Metrics) ObserveRerank(seconds float64, active int) {
	if m == nil {
		return
	}
	m.RerankDuration.Observe(seconds)
	m.ActiveRFPs.Set(float64(active))
}
