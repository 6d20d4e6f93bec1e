package device

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlloc_TracksLifetime(t *testing.T) {
	dev := New(Config{})

	buf, err := Alloc[int32](dev, 10)
	require.NoError(t, err)
	assert.Len(t, buf.Data(), 10)
	assert.Equal(t, int64(40), buf.Bytes())
	assert.Same(t, dev, buf.Device())

	stats := dev.Stats()
	assert.Equal(t, int64(1), stats.Allocations)
	assert.Equal(t, int64(1), stats.LiveBuffers)
	assert.Equal(t, int64(40), stats.LiveBytes)

	buf.Free()
	assert.True(t, buf.Freed())
	assert.Nil(t, buf.Data())

	stats = dev.Stats()
	assert.Equal(t, int64(1), stats.Frees)
	assert.Equal(t, int64(0), stats.LiveBuffers)
	assert.Equal(t, int64(0), stats.LiveBytes)
	assert.Equal(t, int64(40), stats.PeakBytes)
}

func TestBuffer_DoubleFreeIsCounted(t *testing.T) {
	dev := New(Config{})
	buf, err := Alloc[float64](dev, 4)
	require.NoError(t, err)

	buf.Free()
	buf.Free()

	stats := dev.Stats()
	assert.Equal(t, int64(1), stats.Frees)
	assert.Equal(t, int64(1), stats.DoubleFrees)
	assert.Equal(t, int64(0), stats.LiveBytes)
}

func TestAlloc_MemoryLimit(t *testing.T) {
	dev := New(Config{MemoryLimitBytes: 64})

	a, err := Alloc[int64](dev, 8)
	require.NoError(t, err)

	_, err = Alloc[int32](dev, 1)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, int64(1), dev.Stats().FailedAllocs)

	a.Free()
	b, err := Alloc[int32](dev, 16)
	require.NoError(t, err)
	b.Free()
	assert.Equal(t, int64(64), dev.MemoryLimit())
}

func TestAlloc_ZeroLength(t *testing.T) {
	dev := New(Config{})
	buf, err := Alloc[int32](dev, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Len())
	buf.Free()
	assert.Equal(t, int64(0), dev.Stats().LiveBuffers)
}

func TestFromHost(t *testing.T) {
	dev := New(Config{})
	buf, err := FromHost(dev, []float32{1, 2, 3})
	require.NoError(t, err)
	defer buf.Free()
	assert.Equal(t, []float32{1, 2, 3}, buf.Data())
}

func TestNilDevice(t *testing.T) {
	var dev *Device
	buf, err := Alloc[int64](dev, 3)
	require.NoError(t, err)
	assert.Len(t, buf.Data(), 3)
	buf.Free()
	assert.Equal(t, Stats{}, dev.Stats())
	assert.Equal(t, 1, dev.MaxWorkers())
}

func TestFailAfter(t *testing.T) {
	dev := New(Config{})
	dev.SetFaultInjector(&FailAfter{N: 2})

	a, err := Alloc[int32](dev, 1)
	require.NoError(t, err)
	b, err := Alloc[int32](dev, 1)
	require.NoError(t, err)

	_, err = Alloc[int32](dev, 1)
	assert.ErrorIs(t, err, ErrInjectedFault)

	a.Free()
	b.Free()
	dev.SetFaultInjector(nil)

	c, err := Alloc[int32](dev, 1)
	require.NoError(t, err)
	c.Free()

	stats := dev.Stats()
	assert.Equal(t, int64(0), stats.LiveBuffers)
	assert.Equal(t, int64(1), stats.FailedAllocs)
}

func TestFaultFunc(t *testing.T) {
	boom := errors.New("boom")
	dev := New(Config{})
	dev.SetFaultInjector(FaultFunc(func(_ int64, bytes int64) error {
		if bytes > 100 {
			return boom
		}
		return nil
	}))

	_, err := Alloc[int64](dev, 100)
	assert.ErrorIs(t, err, boom)

	small, err := Alloc[int64](dev, 2)
	require.NoError(t, err)
	small.Free()
}

func TestParallel(t *testing.T) {
	dev := New(Config{MaxWorkers: 4})
	n := 3 * minParallelRows

	var covered atomic.Int64
	err := dev.Parallel(context.Background(), n, func(lo, hi int) error {
		covered.Add(int64(hi - lo))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(n), covered.Load())
}

func TestParallel_PropagatesError(t *testing.T) {
	dev := New(Config{MaxWorkers: 4})
	boom := errors.New("boom")

	err := dev.Parallel(context.Background(), 4*minParallelRows, func(lo, _ int) error {
		if lo == 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestParallel_SmallRangeInline(t *testing.T) {
	dev := New(Config{MaxWorkers: 8})
	calls := 0
	err := dev.Parallel(context.Background(), 10, func(lo, hi int) error {
		calls++
		assert.Equal(t, 0, lo)
		assert.Equal(t, 10, hi)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestLimitReader(t *testing.T) {
	dev := New(Config{IOLimitBytesPerSec: 1 << 20})
	src := bytes.Repeat([]byte("ab"), 512)

	got, err := io.ReadAll(dev.LimitReader(context.Background(), bytes.NewReader(src)))
	require.NoError(t, err)
	assert.Equal(t, src, got)
}
