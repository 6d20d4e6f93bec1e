// Package prometheus exports spectra metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	h := spectra.NewResourceHandle(spectra.WithMetricsCollector(promspectra.NewCollector(reg)))
package prometheus

import (
	"time"

	"github.com/hupe1980/spectra"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spectra"

// Collector implements spectra.MetricsCollector with Prometheus vectors.
type Collector struct {
	algorithmLatency *prometheus.HistogramVec
	algorithmCalls   *prometheus.CounterVec
	transposeLatency *prometheus.HistogramVec
	resultFrees      prometheus.Counter
	resultFreedBytes prometheus.Counter
}

var _ spectra.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers it with reg. A nil reg
// uses the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		algorithmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "algorithm_duration_seconds",
			Help:      "Latency of algorithm entry points",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"algorithm", "code"}),
		algorithmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "algorithm_calls_total",
			Help:      "Algorithm entry point calls by result code",
		}, []string{"algorithm", "code"}),
		transposeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transpose_duration_seconds",
			Help:      "Latency of storage orientation changes",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		resultFrees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_frees_total",
			Help:      "Clustering results released",
		}),
		resultFreedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_freed_bytes_total",
			Help:      "Device bytes released by clustering results",
		}),
	}

	reg.MustRegister(
		c.algorithmLatency,
		c.algorithmCalls,
		c.transposeLatency,
		c.resultFrees,
		c.resultFreedBytes,
	)
	return c
}

// RecordAlgorithm implements spectra.MetricsCollector.
func (c *Collector) RecordAlgorithm(algorithm string, code spectra.ErrorCode, duration time.Duration) {
	c.algorithmLatency.WithLabelValues(algorithm, code.String()).Observe(duration.Seconds())
	c.algorithmCalls.WithLabelValues(algorithm, code.String()).Inc()
}

// RecordTranspose implements spectra.MetricsCollector.
func (c *Collector) RecordTranspose(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.transposeLatency.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordResultFree implements spectra.MetricsCollector.
func (c *Collector) RecordResultFree(bytes int64) {
	c.resultFrees.Inc()
	c.resultFreedBytes.Add(float64(bytes))
}
