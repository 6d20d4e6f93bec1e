package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRange(t *testing.T, b Blob, off, length int64) string {
	t.Helper()
	r, err := b.ReadRange(context.Background(), off, length)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root)

	data := []byte("0 1\n1 2\n2 0\n")
	require.NoError(t, store.Put(ctx, "graphs/triangle.txt", data))
	require.NoError(t, store.Put(ctx, "other.txt", []byte("x")))

	_, err := os.Stat(filepath.Join(root, "graphs", "triangle.txt"))
	require.NoError(t, err)

	blob, err := store.Open(ctx, "graphs/triangle.txt")
	require.NoError(t, err)

	assert.Equal(t, int64(len(data)), blob.Size())
	assert.Equal(t, "1 2\n", readRange(t, blob, 4, 4))
	assert.Equal(t, "2 0\n", readRange(t, blob, 8, 100))
	assert.Empty(t, readRange(t, blob, 100, 4))

	mapped, ok := blob.(Mappable)
	require.True(t, ok)
	got, err := mapped.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "graphs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"graphs/triangle.txt"}, names)

	all, err := ReadAll(ctx, store, "graphs/triangle.txt")
	require.NoError(t, err)
	assert.Equal(t, data, all)
}

func TestLocalStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	_, err := store.Open(ctx, "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Open(ctx, "../escape.txt")
	assert.ErrorIs(t, err, ErrInvalidName)

	assert.ErrorIs(t, store.Put(ctx, "/abs.txt", nil), ErrInvalidName)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = store.Open(cancelled, "missing.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	src := []byte("abcdef")
	require.NoError(t, store.Put(ctx, "b.txt", src))
	require.NoError(t, store.Put(ctx, "a.txt", []byte("z")))
	src[0] = 'X'

	blob, err := store.Open(ctx, "b.txt")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(6), blob.Size())
	assert.Equal(t, "abcdef", readRange(t, blob, 0, -1))
	assert.Equal(t, "cd", readRange(t, blob, 2, 2))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)

	_, err = store.Open(ctx, "c.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Put(ctx, "", nil), ErrInvalidName)
}

func TestClampRange(t *testing.T) {
	tests := []struct {
		size, off, length int64
		start, end        int64
	}{
		{10, 0, 10, 0, 10},
		{10, 2, 3, 2, 5},
		{10, 8, 5, 8, 10},
		{10, 12, 5, 10, 10},
		{10, -1, 2, 0, 2},
		{10, 3, -1, 3, 10},
	}
	for _, tt := range tests {
		start, end := clampRange(tt.size, tt.off, tt.length)
		assert.Equal(t, tt.start, start, "%+v", tt)
		assert.Equal(t, tt.end, end, "%+v", tt)
	}
}
