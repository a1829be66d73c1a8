package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	computations  *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	velocityScore *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
	cacheHits     *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		computations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voxmill_computations_total",
				Help: "Total number of intelligence computations performed",
			},
			[]string{"operation", "area"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voxmill_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		velocityScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "voxmill_velocity_score",
				Help: "Last computed liquidity velocity score for an area",
			},
			[]string{"area"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "voxmill_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voxmill_cache_requests_total",
				Help: "Cache lookups by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}
}

// RecordComputation records one completed intelligence computation.
func (r *Recorder) RecordComputation(operation, area string) {
	r.computations.WithLabelValues(operation, area).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordVelocityScore records the last velocity score for an area.
func (r *Recorder) RecordVelocityScore(area string, score float64) {
	r.velocityScore.WithLabelValues(area).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordCacheHit records a cache lookup outcome.
func (r *Recorder) RecordCacheHit(op string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheHits.WithLabelValues(op, outcome).Inc()
}
