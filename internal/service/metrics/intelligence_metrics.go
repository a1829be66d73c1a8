package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	IntelligenceLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "voxmill",
			Subsystem: "intelligence",
			Name:      "latency_seconds",
			Help:      "Latency of intelligence endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	IntelligenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voxmill",
			Subsystem: "intelligence",
			Name:      "errors_total",
			Help:      "Errors by intelligence endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(IntelligenceLatency, IntelligenceErrors)
	})
}
