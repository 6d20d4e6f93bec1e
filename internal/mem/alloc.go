package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of every allocation (one cache line, AVX-512 friendly).
const Alignment = 64

// Scalar is the set of element types that may live in an aligned block.
// They contain no pointers, so reinterpreting raw bytes is safe.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// We need enough space to shift the start pointer up to Alignment-1 bytes
	buf := make([]byte, size+Alignment)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// Alloc allocates a zeroed slice of n elements of type T with 64-byte alignment.
func Alloc[T Scalar](n int) []T {
	if n <= 0 {
		return nil
	}

	var zero T
	byteSlice := AllocAligned(n * int(unsafe.Sizeof(zero)))

	// 64-byte alignment satisfies the alignment of every Scalar.
	ptr := unsafe.Pointer(&byteSlice[0]) //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*T)(ptr), n)    //nolint:gosec // unsafe is required for memory alignment
}

// SizeOf returns the byte size of n elements of type T.
func SizeOf[T Scalar](n int) int64 {
	var zero T
	return int64(n) * int64(unsafe.Sizeof(zero))
}
