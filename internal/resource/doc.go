// Package resource implements the controller behind a device: memory budget,
// worker concurrency and IO throughput.
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Controller                           │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Memory Budget  │  Workers (sem)  │  IO Rate Limiter        │
//	│  (fail-fast)    │                 │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquireMemory  │  AcquireWorker  │  AcquireIO              │
//	│  TryAcquire...  │  TryAcquire...  │  RateLimitedReader      │
//	│  ReleaseMemory  │  ReleaseWorker  │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Memory
//
// Memory tracking uses a weighted semaphore for the hard limit and an atomic
// counter for usage. Device allocations use TryAcquireMemory and fail
// immediately when the budget is exhausted:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})
//	if !rc.TryAcquireMemory(n) {
//	    // out of device memory
//	}
//	defer rc.ReleaseMemory(n)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
