package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/hupe1980/spectra/internal/resource"
	"golang.org/x/sync/errgroup"
)

// ErrOutOfMemory is returned when an allocation would exceed the memory budget.
var ErrOutOfMemory = errors.New("device: out of memory")

// minParallelRows is the smallest range Parallel splits across workers.
const minParallelRows = 4096

// Config holds device limits.
type Config struct {
	// MemoryLimitBytes caps live buffer bytes. 0 means unlimited.
	MemoryLimitBytes int64

	// MaxWorkers caps concurrent kernel workers. 0 means 1.
	MaxWorkers int

	// IOLimitBytesPerSec caps dataset read throughput. 0 means unlimited.
	IOLimitBytesPerSec int64
}

// Stats is a snapshot of allocation counters.
type Stats struct {
	Allocations  int64
	Frees        int64
	DoubleFrees  int64
	FailedAllocs int64
	LiveBuffers  int64
	LiveBytes    int64
	PeakBytes    int64
}

// Device is an allocation and execution context.
// All methods are safe for concurrent use.
type Device struct {
	ctrl *resource.Controller

	allocs       atomic.Int64
	frees        atomic.Int64
	doubleFrees  atomic.Int64
	failedAllocs atomic.Int64

	faults atomic.Pointer[faultHolder]
}

type faultHolder struct {
	fi FaultInjector
}

// New creates a device with the given limits.
func New(cfg Config) *Device {
	return &Device{
		ctrl: resource.NewController(resource.Config{
			MemoryLimitBytes:   cfg.MemoryLimitBytes,
			MaxWorkers:         int64(cfg.MaxWorkers),
			IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
		}),
	}
}

// SetFaultInjector installs fi; nil removes any injector.
func (d *Device) SetFaultInjector(fi FaultInjector) {
	if d == nil {
		return
	}
	if fi == nil {
		d.faults.Store(nil)
		return
	}
	d.faults.Store(&faultHolder{fi: fi})
}

// Stats returns a snapshot of allocation counters.
func (d *Device) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	allocs := d.allocs.Load()
	frees := d.frees.Load()
	return Stats{
		Allocations:  allocs,
		Frees:        frees,
		DoubleFrees:  d.doubleFrees.Load(),
		FailedAllocs: d.failedAllocs.Load(),
		LiveBuffers:  allocs - frees,
		LiveBytes:    d.ctrl.MemoryUsage(),
		PeakBytes:    d.ctrl.MemoryPeak(),
	}
}

// MemoryLimit returns the configured memory budget (0 if unlimited).
func (d *Device) MemoryLimit() int64 {
	if d == nil {
		return 0
	}
	return d.ctrl.MemoryLimit()
}

// MaxWorkers returns the worker limit.
func (d *Device) MaxWorkers() int {
	if d == nil {
		return 1
	}
	return d.ctrl.MaxWorkers()
}

// reserve charges bytes against the budget and records the allocation.
func (d *Device) reserve(bytes int64) error {
	if d == nil {
		return nil
	}
	seq := d.allocs.Load() + d.failedAllocs.Load() + 1
	if h := d.faults.Load(); h != nil {
		if err := h.fi.BeforeAlloc(seq, bytes); err != nil {
			d.failedAllocs.Add(1)
			return err
		}
	}
	if !d.ctrl.TryAcquireMemory(bytes) {
		d.failedAllocs.Add(1)
		return fmt.Errorf("%w: requested %d bytes, %d of %d in use",
			ErrOutOfMemory, bytes, d.ctrl.MemoryUsage(), d.ctrl.MemoryLimit())
	}
	d.allocs.Add(1)
	return nil
}

func (d *Device) release(bytes int64) {
	if d == nil {
		return
	}
	d.ctrl.ReleaseMemory(bytes)
	d.frees.Add(1)
}

func (d *Device) recordDoubleFree() {
	if d == nil {
		return
	}
	d.doubleFrees.Add(1)
}

// Parallel splits [0, n) into contiguous ranges and runs fn on them with at
// most MaxWorkers goroutines. Small ranges run inline on the caller.
func (d *Device) Parallel(ctx context.Context, n int, fn func(lo, hi int) error) error {
	workers := d.MaxWorkers()
	if workers <= 1 || n < minParallelRows {
		return fn(0, n)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := d.ctrl.AcquireWorker(gctx); err != nil {
				return err
			}
			defer d.ctrl.ReleaseWorker()
			return fn(lo, hi)
		})
	}
	return g.Wait()
}

// LimitReader wraps r so reads are charged against the device IO budget.
func (d *Device) LimitReader(ctx context.Context, r io.Reader) io.Reader {
	if d == nil {
		return r
	}
	return resource.NewRateLimitedReader(ctx, r, d.ctrl)
}
