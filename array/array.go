package array

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/spectra/device"
)

var (
	// ErrTypeMismatch is returned when a view is read as the wrong element type.
	ErrTypeMismatch = errors.New("array: type mismatch")

	// ErrFreed is returned when a view outlives its array.
	ErrFreed = errors.New("array: array has been freed")

	// ErrNilView is returned for nil views.
	ErrNilView = errors.New("array: nil view")
)

// DeviceArray owns a device buffer whose element type is known only by tag.
type DeviceArray struct {
	dtype DataType
	size  int
	bytes int64
	data  any // []T
	free  func()
	freed atomic.Bool
}

// New wraps buf, taking ownership of it.
func New[T device.Element](buf *device.Buffer[T]) *DeviceArray {
	return &DeviceArray{
		dtype: TypeOf[T](),
		size:  buf.Len(),
		bytes: buf.Bytes(),
		data:  buf.Data(),
		free:  buf.Free,
	}
}

// Type returns the element tag.
func (a *DeviceArray) Type() DataType {
	return a.dtype
}

// Size returns the element count.
func (a *DeviceArray) Size() int {
	return a.size
}

// Bytes returns the device bytes held.
func (a *DeviceArray) Bytes() int64 {
	return a.bytes
}

// View returns a non-owning view over the array.
func (a *DeviceArray) View() *View {
	return &View{dtype: a.dtype, size: a.size, data: a.data, owner: a}
}

// Freed reports whether Free has been called.
func (a *DeviceArray) Freed() bool {
	return a.freed.Load()
}

// Free releases the underlying buffer. Later calls are no-ops.
func (a *DeviceArray) Free() {
	if a == nil || !a.freed.CompareAndSwap(false, true) {
		return
	}
	a.data = nil
	if a.free != nil {
		a.free()
	}
}

// View is a non-owning, type-erased window onto array data.
type View struct {
	dtype DataType
	size  int
	data  any // []T
	owner *DeviceArray
}

// HostView wraps a host slice as an input view. The slice is not copied.
func HostView[T device.Element](data []T) *View {
	return &View{dtype: TypeOf[T](), size: len(data), data: data}
}

// Type returns the element tag.
func (v *View) Type() DataType {
	if v == nil {
		return Unknown
	}
	return v.dtype
}

// Size returns the element count.
func (v *View) Size() int {
	if v == nil {
		return 0
	}
	return v.size
}

func (v *View) check() error {
	if v == nil {
		return ErrNilView
	}
	if v.owner != nil && v.owner.Freed() {
		return ErrFreed
	}
	return nil
}

// As returns the view's elements as []T without copying.
func As[T device.Element](v *View) ([]T, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	want := TypeOf[T]()
	if v.dtype != want {
		return nil, fmt.Errorf("%w: array is %s, requested %s", ErrTypeMismatch, v.dtype, want)
	}
	data, _ := v.data.([]T)
	return data, nil
}

// CopyToHost returns a copy of the view's elements.
func CopyToHost[T device.Element](v *View) ([]T, error) {
	data, err := As[T](v)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(data))
	copy(out, data)
	return out, nil
}

// Int64s returns the elements of an integer view widened to int64.
func (v *View) Int64s() ([]int64, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	switch data := v.data.(type) {
	case []int32:
		out := make([]int64, len(data))
		for i, x := range data {
			out[i] = int64(x)
		}
		return out, nil
	case []int64:
		out := make([]int64, len(data))
		copy(out, data)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is not an integer type", ErrTypeMismatch, v.dtype)
	}
}

// Float64s returns the elements of any view converted to float64.
func (v *View) Float64s() ([]float64, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	switch data := v.data.(type) {
	case []int32:
		return widen(data), nil
	case []int64:
		return widen(data), nil
	case []float32:
		return widen(data), nil
	case []float64:
		return widen(data), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %s", ErrTypeMismatch, v.dtype)
	}
}

func widen[T device.Element](data []T) []float64 {
	out := make([]float64, len(data))
	for i, x := range data {
		out[i] = float64(x)
	}
	return out
}
