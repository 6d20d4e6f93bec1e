package array

import (
	"fmt"

	"github.com/hupe1980/spectra/device"
)

// DataType is the runtime tag of an array element type.
type DataType uint8

const (
	Unknown DataType = iota
	Int32
	Int64
	Float32
	Float64
)

// String implements fmt.Stringer.
func (t DataType) String() string {
	switch t {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Size returns the element width in bytes (0 for Unknown).
func (t DataType) Size() int {
	switch t {
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// IsInteger reports whether t is an integer type.
func (t DataType) IsInteger() bool {
	return t == Int32 || t == Int64
}

// IsFloat reports whether t is a floating point type.
func (t DataType) IsFloat() bool {
	return t == Float32 || t == Float64
}

// ParseDataType parses the String form of a DataType.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "int32":
		return Int32, nil
	case "int64":
		return Int64, nil
	case "float32":
		return Float32, nil
	case "float64":
		return Float64, nil
	default:
		return Unknown, fmt.Errorf("array: unknown data type %q", s)
	}
}

// TypeOf returns the tag for element type T.
func TypeOf[T device.Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return Int32
	case int64:
		return Int64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		return Unknown
	}
}
