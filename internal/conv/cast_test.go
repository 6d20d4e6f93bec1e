//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntTo(t *testing.T) {
	t.Run("int32 valid", func(t *testing.T) {
		got, err := IntTo[int32](123)
		assert.NoError(t, err)
		assert.Equal(t, int32(123), got)
	})

	t.Run("int32 max", func(t *testing.T) {
		got, err := IntTo[int32](math.MaxInt32)
		assert.NoError(t, err)
		assert.Equal(t, int32(math.MaxInt32), got)
	})

	t.Run("int32 overflow", func(t *testing.T) {
		_, err := IntTo[int32](math.MaxInt32 + 1)
		assert.Error(t, err)
	})

	t.Run("int32 underflow", func(t *testing.T) {
		_, err := IntTo[int32](math.MinInt32 - 1)
		assert.Error(t, err)
	})

	t.Run("int64 wide", func(t *testing.T) {
		got, err := IntTo[int64](math.MaxInt32 + 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(math.MaxInt32+1), got)
	})
}

func TestInt64To(t *testing.T) {
	got, err := Int64To[int32](-5)
	assert.NoError(t, err)
	assert.Equal(t, int32(-5), got)

	_, err = Int64To[int32](math.MaxInt64)
	assert.Error(t, err)

	wide, err := Int64To[int64](math.MaxInt64)
	assert.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), wide)
}

func TestToInt(t *testing.T) {
	got, err := ToInt(int64(math.MaxInt64))
	assert.NoError(t, err)
	assert.Equal(t, math.MaxInt64, got)

	got, err = ToInt(int32(-7))
	assert.NoError(t, err)
	assert.Equal(t, -7, got)
}

func TestInt64ToUint64(t *testing.T) {
	got, err := Int64ToUint64(42)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), got)

	_, err = Int64ToUint64(-1)
	assert.Error(t, err)
}

func TestUint64ToInt64(t *testing.T) {
	got, err := Uint64ToInt64(42)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), got)

	_, err = Uint64ToInt64(math.MaxUint64)
	assert.Error(t, err)
}
