package spectra

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/spectra/device"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/hupe1980/spectra"

// ResourceHandle is the engine context every entry point runs against. It
// owns the device and the logging, metrics and tracing configuration.
//
// A ResourceHandle is safe for concurrent use; graphs passed to it are not.
type ResourceHandle struct {
	dev     *device.Device
	logger  *Logger
	metrics MetricsCollector
	tracer  trace.Tracer
	closed  atomic.Bool
}

// NewResourceHandle creates a resource handle.
func NewResourceHandle(optFns ...Option) *ResourceHandle {
	o := applyOptions(optFns)
	return &ResourceHandle{
		dev:     o.device,
		logger:  o.logger,
		metrics: o.metricsCollector,
		tracer:  o.tracerProvider.Tracer(tracerName),
	}
}

// Device returns the device graphs and results are allocated on.
func (h *ResourceHandle) Device() *device.Device {
	if h == nil {
		return nil
	}
	return h.dev
}

// Logger returns the configured logger.
func (h *ResourceHandle) Logger() *Logger {
	if h == nil {
		return NoopLogger()
	}
	return h.logger
}

// Close marks the handle closed. It reports ErrLiveBuffers if graphs or
// results allocated on the device have not been freed. Later calls are no-ops.
func (h *ResourceHandle) Close() error {
	if h == nil || !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	if stats := h.dev.Stats(); stats.LiveBuffers > 0 {
		return fmt.Errorf("%w: %d buffers, %d bytes", ErrLiveBuffers, stats.LiveBuffers, stats.LiveBytes)
	}
	return nil
}

func (h *ResourceHandle) check() error {
	if h == nil {
		return fmt.Errorf("%w: resource handle", ErrNilHandle)
	}
	if h.closed.Load() {
		return ErrHandleClosed
	}
	return nil
}
