package spectra

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see the metrics/prometheus package for a ready-made adapter.
type MetricsCollector interface {
	// RecordAlgorithm is called after each entry point call.
	// code is Success when err is nil.
	RecordAlgorithm(algorithm string, code ErrorCode, duration time.Duration)

	// RecordTranspose is called after each storage orientation change.
	RecordTranspose(duration time.Duration, err error)

	// RecordResultFree is called when a clustering result releases its arrays.
	RecordResultFree(bytes int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlgorithm(string, ErrorCode, time.Duration) {}
func (NoopMetricsCollector) RecordTranspose(time.Duration, error)             {}
func (NoopMetricsCollector) RecordResultFree(int64)                           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AlgorithmCount      atomic.Int64
	AlgorithmErrors     atomic.Int64
	AlgorithmTotalNanos atomic.Int64
	UnsupportedCount    atomic.Int64
	TransposeCount      atomic.Int64
	TransposeErrors     atomic.Int64
	TransposeTotalNanos atomic.Int64
	ResultFreeCount     atomic.Int64
	ResultFreeBytes     atomic.Int64
}

// RecordAlgorithm implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlgorithm(_ string, code ErrorCode, duration time.Duration) {
	b.AlgorithmCount.Add(1)
	b.AlgorithmTotalNanos.Add(duration.Nanoseconds())
	switch code {
	case Success:
	case UnsupportedTypeCombination, UnsupportedMultiGPU:
		b.UnsupportedCount.Add(1)
		b.AlgorithmErrors.Add(1)
	default:
		b.AlgorithmErrors.Add(1)
	}
}

// RecordTranspose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTranspose(duration time.Duration, err error) {
	b.TransposeCount.Add(1)
	b.TransposeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TransposeErrors.Add(1)
	}
}

// RecordResultFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResultFree(bytes int64) {
	b.ResultFreeCount.Add(1)
	b.ResultFreeBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AlgorithmCount:    b.AlgorithmCount.Load(),
		AlgorithmErrors:   b.AlgorithmErrors.Load(),
		AlgorithmAvgNanos: avg(b.AlgorithmTotalNanos.Load(), b.AlgorithmCount.Load()),
		UnsupportedCount:  b.UnsupportedCount.Load(),
		TransposeCount:    b.TransposeCount.Load(),
		TransposeErrors:   b.TransposeErrors.Load(),
		TransposeAvgNanos: avg(b.TransposeTotalNanos.Load(), b.TransposeCount.Load()),
		ResultFreeCount:   b.ResultFreeCount.Load(),
		ResultFreeBytes:   b.ResultFreeBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AlgorithmCount    int64
	AlgorithmErrors   int64
	AlgorithmAvgNanos int64
	UnsupportedCount  int64
	TransposeCount    int64
	TransposeErrors   int64
	TransposeAvgNanos int64
	ResultFreeCount   int64
	ResultFreeBytes   int64
}
