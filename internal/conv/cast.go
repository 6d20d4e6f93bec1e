package conv

import (
	"fmt"
	"math"
)

// Integer is the set of fixed-width ids used for vertices and edges.
type Integer interface {
	~int32 | ~int64
}

// IntTo converts int to T safely.
func IntTo[T Integer](v int) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int32:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
		}
	}
	return T(v), nil
}

// Int64To converts int64 to T safely.
func Int64To[T Integer](v int64) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int32:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
		}
	}
	return T(v), nil
}

// ToInt converts T to int safely.
func ToInt[T Integer](v T) (int, error) {
	if int64(v) > int64(math.MaxInt) || int64(v) < int64(math.MinInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int", v)
	}
	return int(v), nil
}

// Int64ToUint64 converts int64 to uint64 safely.
func Int64ToUint64(v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// Uint64ToInt64 converts uint64 to int64 safely.
func Uint64ToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int64 (too large)", v)
	}
	return int64(v), nil
}
