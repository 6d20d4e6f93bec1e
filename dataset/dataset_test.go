package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/blobstore"
	"github.com/hupe1980/spectra/device"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleEdges = `# two triangles joined by one edge
0 1 1.0
1 2 1.0
2 0 1.0
3 4 1.0
4 5 1.0
5 3 1.0
2 3 0.5
`

func load(t *testing.T, input string, format Format) *EdgeList {
	t.Helper()
	el, err := Load(context.Background(), strings.NewReader(input), format)
	require.NoError(t, err)
	return el
}

func TestLoad_EdgeList(t *testing.T) {
	el := load(t, triangleEdges, FormatEdgeList)

	assert.Equal(t, 7, el.NumEdges())
	assert.True(t, el.Weighted())
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 2}, el.Src)
	assert.Equal(t, []int64{1, 2, 0, 4, 5, 3, 3}, el.Dst)
	assert.InDelta(t, 0.5, el.Weights[6], 0)
	assert.False(t, el.Symmetric)
}

func TestLoad_Unweighted(t *testing.T) {
	el := load(t, "0\t1\n\n1 2\n% comment\n", FormatEdgeList)
	assert.Equal(t, 2, el.NumEdges())
	assert.False(t, el.Weighted())
	assert.Nil(t, el.Weights)
}

func TestLoad_CSV(t *testing.T) {
	el := load(t, "src,dst,weight\n0, 1, 2.5\n1,2,1\n# done\n", FormatCSV)
	assert.Equal(t, []int64{0, 1}, el.Src)
	assert.Equal(t, []int64{1, 2}, el.Dst)
	assert.Equal(t, []float64{2.5, 1}, el.Weights)

	el = load(t, "0,1\n1,2\n", FormatCSV)
	assert.Equal(t, 2, el.NumEdges())
	assert.False(t, el.Weighted())
}

func TestLoad_MatrixMarket(t *testing.T) {
	input := `%%MatrixMarket matrix coordinate real symmetric
% karate-like fragment
3 3 2
2 1 1.5
3 2 2.0
`
	el := load(t, input, FormatMatrixMarket)
	assert.True(t, el.Symmetric)
	assert.True(t, el.Properties().IsSymmetric)
	assert.Equal(t, []int64{1, 2}, el.Src)
	assert.Equal(t, []int64{0, 1}, el.Dst)
	assert.Equal(t, []float64{1.5, 2.0}, el.Weights)

	el = load(t, "%%MatrixMarket matrix coordinate pattern general\n2 2 1\n1 2\n", FormatAuto)
	assert.False(t, el.Symmetric)
	assert.False(t, el.Weighted())
	assert.Equal(t, []int64{0}, el.Src)
	assert.Equal(t, []int64{1}, el.Dst)
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"one column", "0\n", FormatEdgeList},
		{"ragged", "0 1 1\n1 2\n", FormatEdgeList},
		{"negative id", "-1 2\n", FormatEdgeList},
		{"bad weight", "0 1 x\n", FormatEdgeList},
		{"csv ragged", "0,1\n1,2,3\n", FormatCSV},
		{"mm banner", "%%MatrixMarket tensor coordinate real general\n1 1 0\n", FormatMatrixMarket},
		{"mm array", "%%MatrixMarket matrix array real general\n1 1\n", FormatMatrixMarket},
		{"mm complex", "%%MatrixMarket matrix coordinate complex general\n1 1 0\n", FormatMatrixMarket},
		{"mm skew", "%%MatrixMarket matrix coordinate real skew-symmetric\n1 1 0\n", FormatMatrixMarket},
		{"mm not square", "%%MatrixMarket matrix coordinate pattern general\n2 3 0\n", FormatMatrixMarket},
		{"mm out of range", "%%MatrixMarket matrix coordinate pattern general\n2 2 1\n3 1\n", FormatMatrixMarket},
		{"mm zero index", "%%MatrixMarket matrix coordinate pattern general\n2 2 1\n0 1\n", FormatMatrixMarket},
		{"mm count", "%%MatrixMarket matrix coordinate pattern general\n2 2 2\n1 2\n", FormatMatrixMarket},
		{"mm no size", "%%MatrixMarket matrix coordinate pattern general\n", FormatMatrixMarket},
		{"mm empty", "", FormatMatrixMarket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), strings.NewReader(tt.input), tt.format)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestLoad_Compressed(t *testing.T) {
	compressors := map[Compression]func(*bytes.Buffer) (io.WriteCloser, error){
		CompressionGzip: func(b *bytes.Buffer) (io.WriteCloser, error) { return gzip.NewWriter(b), nil },
		CompressionZstd: func(b *bytes.Buffer) (io.WriteCloser, error) { return zstd.NewWriter(b) },
		CompressionLZ4:  func(b *bytes.Buffer) (io.WriteCloser, error) { return lz4.NewWriter(b), nil },
	}

	for c, newWriter := range compressors {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := newWriter(&buf)
			require.NoError(t, err)
			_, err = w.Write([]byte(triangleEdges))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.Equal(t, c, DetectCompression(buf.Bytes()))

			el, err := Load(context.Background(), &buf, FormatAuto)
			require.NoError(t, err)
			assert.Equal(t, 7, el.NumEdges())
		})
	}
}

func TestLoad_ShortLZ4Frame(t *testing.T) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	_, err := w.Write([]byte("0 1\n1 2\n2 0\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	for _, format := range []Format{FormatAuto, FormatEdgeList} {
		el, err := Load(context.Background(), bytes.NewReader(buf.Bytes()), format)
		require.NoError(t, err, format.String())
		assert.Equal(t, 3, el.NumEdges())
	}
}

// failAfterEOF returns its data, then a wrapped io.EOF once, then errFrame.
type failAfterEOF struct {
	data []byte
	done bool
}

var errFrame = errors.New("new frame")

func (f *failAfterEOF) Read(p []byte) (int, error) {
	if len(f.data) > 0 {
		n := copy(p, f.data)
		f.data = f.data[n:]
		return n, nil
	}
	if f.done {
		return 0, errFrame
	}
	f.done = true
	return 0, fmt.Errorf("newState: %w", io.EOF)
}

func TestStickyEOF(t *testing.T) {
	r := &stickyEOF{r: &failAfterEOF{data: []byte("abc")}}

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	n, err := r.Read(make([]byte, 4))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, strings.NewReader(triangleEdges), FormatEdgeList)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatMatrixMarket, DetectFormat("web/Karate.MTX.gz"))
	assert.Equal(t, FormatCSV, DetectFormat("edges.csv.zst"))
	assert.Equal(t, FormatEdgeList, DetectFormat("edges.txt"))
	assert.Equal(t, FormatAuto, DetectFormat("edges.bin.lz4"))

	assert.Equal(t, FormatCSV, sniff([]byte("a,b\n0,1\n")))
	assert.Equal(t, FormatEdgeList, sniff([]byte("0 1\n")))
	assert.Equal(t, FormatMatrixMarket, sniff([]byte("%%MatrixMarket matrix")))

	for _, f := range []Format{FormatAuto, FormatEdgeList, FormatCSV, FormatMatrixMarket} {
		parsed, err := ParseFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	_, err := ParseFormat("parquet")
	assert.Error(t, err)
}

func TestEdgeList_Views(t *testing.T) {
	el := load(t, triangleEdges, FormatEdgeList)

	src, dst, w, err := el.Views(array.Int32, array.Float32)
	require.NoError(t, err)
	assert.Equal(t, array.Int32, src.Type())
	assert.Equal(t, array.Int32, dst.Type())
	assert.Equal(t, array.Float32, w.Type())
	ws, err := array.As[float32](w)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ws[6], 1e-6)

	src, _, w, err = el.Views(array.Int64, array.Float64)
	require.NoError(t, err)
	assert.Equal(t, array.Int64, src.Type())
	assert.Equal(t, 7, w.Size())

	unweighted := &EdgeList{Src: []int64{0}, Dst: []int64{1}}
	_, _, w, err = unweighted.Views(array.Int32, array.Float64)
	require.NoError(t, err)
	assert.Nil(t, w)

	_, _, _, err = el.Views(array.Float32, array.Float32)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, _, _, err = el.Views(array.Int32, array.Int32)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	wide := &EdgeList{Src: []int64{1 << 40}, Dst: []int64{0}}
	_, _, _, err = wide.Views(array.Int32, array.Float32)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("%%MatrixMarket matrix coordinate pattern symmetric\n3 3 2\n2 1\n3 2\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, store.Put(ctx, "path.mtx.gz", buf.Bytes()))

	dev := device.New(device.Config{IOLimitBytesPerSec: 1 << 20})
	el, err := Open(ctx, store, "path.mtx.gz", dev)
	require.NoError(t, err)
	assert.True(t, el.Symmetric)
	assert.Equal(t, 2, el.NumEdges())

	_, err = Open(ctx, store, "missing.csv", dev)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "bad.txt", []byte("0 1 2 3\n")))
	_, err = Open(ctx, store, "bad.txt", nil)
	assert.ErrorIs(t, err, ErrMalformed)
}
