package device

import (
	"errors"
	"sync"
)

// ErrInjectedFault is the default error returned by injected faults.
var ErrInjectedFault = errors.New("device: injected fault")

// FaultInjector decides whether an allocation fails.
// seq is the 1-based ordinal of the allocation attempt on the device.
type FaultInjector interface {
	BeforeAlloc(seq int64, bytes int64) error
}

// FailAfter lets N allocations succeed and fails every later one.
type FailAfter struct {
	N   int64
	Err error

	mu   sync.Mutex
	seen int64
}

// BeforeAlloc implements FaultInjector.
func (f *FailAfter) BeforeAlloc(_ int64, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen++
	if f.seen <= f.N {
		return nil
	}
	if f.Err != nil {
		return f.Err
	}
	return ErrInjectedFault
}

// FaultFunc adapts a function to FaultInjector.
type FaultFunc func(seq int64, bytes int64) error

// BeforeAlloc implements FaultInjector.
func (f FaultFunc) BeforeAlloc(seq int64, bytes int64) error {
	return f(seq, bytes)
}
