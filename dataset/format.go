package dataset

import (
	"fmt"
	"path"
	"strings"
)

// Format identifies an edge-list text format.
type Format int

const (
	// FormatAuto detects the format from the name or the content.
	FormatAuto Format = iota
	// FormatEdgeList is "src dst [weight]" per line, whitespace separated.
	FormatEdgeList
	// FormatCSV is comma separated with an optional header row.
	FormatCSV
	// FormatMatrixMarket is a Matrix Market coordinate file.
	FormatMatrixMarket
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatEdgeList:
		return "edgelist"
	case FormatCSV:
		return "csv"
	case FormatMatrixMarket:
		return "mtx"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses the names printed by String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "edgelist", "txt", "tsv":
		return FormatEdgeList, nil
	case "csv":
		return FormatCSV, nil
	case "mtx", "mm", "matrixmarket":
		return FormatMatrixMarket, nil
	}
	return FormatAuto, fmt.Errorf("dataset: unknown format %q", s)
}

// DetectFormat guesses the format from a file name, ignoring compression
// suffixes. Unknown extensions yield FormatAuto.
func DetectFormat(name string) Format {
	name = strings.ToLower(name)
	for _, ext := range []string{".gz", ".zst", ".zstd", ".lz4"} {
		name = strings.TrimSuffix(name, ext)
	}
	switch path.Ext(name) {
	case ".mtx", ".mm":
		return FormatMatrixMarket
	case ".csv":
		return FormatCSV
	case ".txt", ".tsv", ".edges", ".el":
		return FormatEdgeList
	}
	return FormatAuto
}

const mmBanner = "%%MatrixMarket"

// sniff picks a format from the first bytes of the decompressed stream.
func sniff(head []byte) Format {
	s := string(head)
	if strings.HasPrefix(s, mmBanner) {
		return FormatMatrixMarket
	}
	line, _, _ := strings.Cut(s, "\n")
	if strings.Contains(line, ",") {
		return FormatCSV
	}
	return FormatEdgeList
}
