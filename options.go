package spectra

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/spectra/device"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	tracerProvider   trace.TracerProvider
	device           *device.Device
	deviceConfig     device.Config
}

// Option configures a ResourceHandle.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &spectra.BasicMetricsCollector{}
//	h := spectra.NewResourceHandle(spectra.WithMetricsCollector(metrics))
//	// ... run algorithms ...
//	stats := metrics.GetStats()
//	fmt.Printf("Calls: %d, Avg latency: %dns\n", stats.AlgorithmCount, stats.AlgorithmAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := spectra.NewJSONLogger(slog.LevelInfo)
//	h := spectra.NewResourceHandle(spectra.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider used for
// entry-point spans. The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

// WithMemoryLimit caps live device memory in bytes. 0 means unlimited.
// Ignored when WithDevice is used.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.deviceConfig.MemoryLimitBytes = bytes
	}
}

// WithMaxWorkers caps kernel parallelism. Defaults to GOMAXPROCS.
// Ignored when WithDevice is used.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.deviceConfig.MaxWorkers = n
	}
}

// WithIOLimit caps dataset read throughput in bytes per second.
// Ignored when WithDevice is used.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.deviceConfig.IOLimitBytesPerSec = bytesPerSec
	}
}

// WithDevice shares an existing device instead of creating one.
func WithDevice(dev *device.Device) Option {
	return func(o *options) {
		o.device = dev
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		tracerProvider:   otel.GetTracerProvider(),
		deviceConfig: device.Config{
			MaxWorkers: runtime.GOMAXPROCS(0),
		},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.device == nil {
		o.device = device.New(o.deviceConfig)
	}
	return o
}
