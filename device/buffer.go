package device

import (
	"sync/atomic"

	"github.com/hupe1980/spectra/internal/mem"
)

// Element is the set of types a Buffer can hold.
type Element interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// Buffer is a typed allocation owned by exactly one holder.
// Free releases it; the data slice must not be used afterwards.
type Buffer[T Element] struct {
	dev   *Device
	data  []T
	n     int
	bytes int64
	freed atomic.Bool
}

// Alloc allocates a zeroed buffer of n elements on d.
func Alloc[T Element](d *Device, n int) (*Buffer[T], error) {
	if n < 0 {
		n = 0
	}
	bytes := mem.SizeOf[T](n)
	if err := d.reserve(bytes); err != nil {
		return nil, err
	}
	return &Buffer[T]{
		dev:   d,
		data:  mem.Alloc[T](n),
		n:     n,
		bytes: bytes,
	}, nil
}

// FromHost allocates a buffer on d and copies src into it.
func FromHost[T Element](d *Device, src []T) (*Buffer[T], error) {
	b, err := Alloc[T](d, len(src))
	if err != nil {
		return nil, err
	}
	copy(b.data, src)
	return b, nil
}

// Data returns the element slice, or nil once the buffer is freed.
func (b *Buffer[T]) Data() []T {
	if b == nil || b.freed.Load() {
		return nil
	}
	return b.data
}

// Len returns the element count.
func (b *Buffer[T]) Len() int {
	if b == nil {
		return 0
	}
	return b.n
}

// Bytes returns the size charged against the device budget.
func (b *Buffer[T]) Bytes() int64 {
	if b == nil {
		return 0
	}
	return b.bytes
}

// Device returns the owning device.
func (b *Buffer[T]) Device() *Device {
	if b == nil {
		return nil
	}
	return b.dev
}

// Freed reports whether Free has been called.
func (b *Buffer[T]) Freed() bool {
	return b == nil || b.freed.Load()
}

// Free releases the buffer. A second call is counted as a double free and
// otherwise ignored.
func (b *Buffer[T]) Free() {
	if b == nil {
		return
	}
	if !b.freed.CompareAndSwap(false, true) {
		b.dev.recordDoubleFree()
		return
	}
	b.data = nil
	b.dev.release(b.bytes)
}
