package dataset

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a stream compression format.
type Compression uint8

const (
	// CompressionNone is plain text.
	CompressionNone Compression = iota
	// CompressionGzip is RFC 1952 gzip.
	CompressionGzip
	// CompressionZstd is a Zstandard frame.
	CompressionZstd
	// CompressionLZ4 is an LZ4 frame.
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// DetectCompression inspects the leading bytes of a stream.
func DetectCompression(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(head, lz4Magic):
		return CompressionLZ4
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	}
	return CompressionNone
}

// Decompress returns a reader yielding the decompressed content of r.
// Plain input is passed through.
func Decompress(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, CompressionNone, err
	}

	c := DetectCompression(head)
	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, err
		}
		return zr, c, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, err
		}
		return zr.IOReadCloser(), c, nil
	case CompressionLZ4:
		return io.NopCloser(&stickyEOF{r: lz4.NewReader(br)}), c, nil
	}
	return io.NopCloser(br), c, nil
}

// stickyEOF keeps returning io.EOF once r has reported the end of input,
// even wrapped. An lz4 reader read again after its last frame returns
// "newState: EOF" instead, which bufio.Scanner treats as a failure.
type stickyEOF struct {
	r   io.Reader
	eof bool
}

func (s *stickyEOF) Read(p []byte) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	n, err := s.r.Read(p)
	if errors.Is(err, io.EOF) {
		s.eof = true
		err = io.EOF
	}
	return n, err
}
