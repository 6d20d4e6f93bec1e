package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/spectra/blobstore"
	"github.com/hupe1980/spectra/device"
)

// checkEvery is how many lines are parsed between context checks.
const checkEvery = 4096

// Open reads the named dataset from store, charging the read against the
// IO budget of dev. The format is detected from the name, then from the
// content.
func Open(ctx context.Context, store blobstore.BlobStore, name string, dev *device.Device) (*EdgeList, error) {
	return OpenFormat(ctx, store, name, DetectFormat(name), dev)
}

// OpenFormat is Open with an explicit format.
func OpenFormat(ctx context.Context, store blobstore.BlobStore, name string, format Format, dev *device.Device) (*EdgeList, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	r, err := blobstore.NewReader(ctx, b)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	el, err := Load(ctx, dev.LimitReader(ctx, r), format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return el, nil
}

// Load parses an edge list from r, decompressing it first if needed.
func Load(ctx context.Context, r io.Reader, format Format) (*EdgeList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, _, err := Decompress(r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 64<<10)
	if format == FormatAuto {
		head, err := br.Peek(512)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		format = sniff(head)
	}

	switch format {
	case FormatEdgeList:
		return parseEdgeList(ctx, br)
	case FormatCSV:
		return parseCSV(ctx, br)
	case FormatMatrixMarket:
		return parseMatrixMarket(ctx, br)
	}
	return nil, fmt.Errorf("dataset: unknown format %s", format)
}

func malformed(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, line, fmt.Sprintf(format, args...))
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	return sc
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id >= 0
}

// parseFields parses "src dst [weight]".
func parseFields(line int, fields []string) (src, dst int64, w float64, err error) {
	var ok bool
	if src, ok = parseID(fields[0]); !ok {
		return 0, 0, 0, malformed(line, "invalid source %q", fields[0])
	}
	if dst, ok = parseID(fields[1]); !ok {
		return 0, 0, 0, malformed(line, "invalid destination %q", fields[1])
	}
	if len(fields) == 3 {
		if w, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return 0, 0, 0, malformed(line, "invalid weight %q", fields[2])
		}
	}
	return src, dst, w, nil
}

func parseEdgeList(ctx context.Context, r io.Reader) (*EdgeList, error) {
	el := &EdgeList{}
	sc := newScanner(r)
	cols, line := 0, 0
	for sc.Scan() {
		line++
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' || text[0] == '%' {
			continue
		}

		fields := strings.Fields(text)
		if cols == 0 {
			if len(fields) != 2 && len(fields) != 3 {
				return nil, malformed(line, "want 2 or 3 columns, got %d", len(fields))
			}
			cols = len(fields)
			if cols == 3 {
				el.Weights = []float64{}
			}
		} else if len(fields) != cols {
			return nil, malformed(line, "want %d columns, got %d", cols, len(fields))
		}

		src, dst, w, err := parseFields(line, fields)
		if err != nil {
			return nil, err
		}
		el.add(src, dst, w, cols == 3)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return el, nil
}

func parseCSV(ctx context.Context, r io.Reader) (*EdgeList, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	el := &EdgeList{}
	cols := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, malformed(pe.Line, "%v", pe.Err)
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if cols == 0 {
			if len(rec) != 2 && len(rec) != 3 {
				return nil, malformed(line, "want 2 or 3 columns, got %d", len(rec))
			}
			cols = len(rec)
			if cols == 3 {
				el.Weights = []float64{}
			}
			// A non-numeric first row is a header.
			if _, ok := parseID(strings.TrimSpace(rec[0])); !ok {
				continue
			}
		}

		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		src, dst, w, err := parseFields(line, rec)
		if err != nil {
			return nil, err
		}
		el.add(src, dst, w, cols == 3)
	}
	return el, nil
}

func parseMatrixMarket(ctx context.Context, r io.Reader) (*EdgeList, error) {
	sc := newScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, malformed(1, "missing header")
	}

	banner := strings.Fields(strings.ToLower(sc.Text()))
	if len(banner) != 5 || banner[0] != strings.ToLower(mmBanner) || banner[1] != "matrix" {
		return nil, malformed(1, "invalid Matrix Market banner")
	}
	if banner[2] != "coordinate" {
		return nil, malformed(1, "unsupported layout %q", banner[2])
	}

	var weighted bool
	switch banner[3] {
	case "real", "integer", "double":
		weighted = true
	case "pattern":
	default:
		return nil, malformed(1, "unsupported field %q", banner[3])
	}

	el := &EdgeList{}
	switch banner[4] {
	case "general":
	case "symmetric":
		el.Symmetric = true
	default:
		return nil, malformed(1, "unsupported symmetry %q", banner[4])
	}
	if weighted {
		el.Weights = []float64{}
	}

	line := 1
	var rows, nnz int64
	sized := false
	for sc.Scan() {
		line++
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '%' {
			continue
		}
		fields := strings.Fields(text)

		if !sized {
			if len(fields) != 3 {
				return nil, malformed(line, "invalid size line")
			}
			var cols int64
			var ok1, ok2, ok3 bool
			rows, ok1 = parseID(fields[0])
			cols, ok2 = parseID(fields[1])
			nnz, ok3 = parseID(fields[2])
			if !ok1 || !ok2 || !ok3 {
				return nil, malformed(line, "invalid size line")
			}
			if rows != cols {
				return nil, malformed(line, "adjacency matrix must be square, got %dx%d", rows, cols)
			}
			sized = true
			continue
		}

		want := 2
		if weighted {
			want = 3
		}
		if len(fields) != want {
			return nil, malformed(line, "want %d columns, got %d", want, len(fields))
		}
		i, j, w, err := parseFields(line, fields)
		if err != nil {
			return nil, err
		}
		if i < 1 || i > rows || j < 1 || j > rows {
			return nil, malformed(line, "entry (%d, %d) outside %dx%d", i, j, rows, rows)
		}
		el.add(i-1, j-1, w, weighted)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sized {
		return nil, malformed(line, "missing size line")
	}
	if int64(el.NumEdges()) != nnz {
		return nil, malformed(line, "want %d entries, got %d", nnz, el.NumEdges())
	}
	return el, nil
}
