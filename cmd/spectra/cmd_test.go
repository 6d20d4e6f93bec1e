package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoTriangles = `# two triangles joined by 2-3
0 1 1
1 2 1
2 0 1
3 4 1
4 5 1
5 3 1
2 3 1
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCluster(t *testing.T) {
	input := writeFile(t, "tri.txt", twoTriangles)
	output := filepath.Join(t.TempDir(), "out.csv")
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	_, err := execute(t, "cluster", input,
		"-k", "2", "--eigenvectors", "1", "--seed", "42",
		"--eigen-tolerance", "1e-6", "--check",
		"-o", output, "--metrics-textfile", metrics)
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	vertices, clusters, err := readAssignments(f)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{0, 1, 2, 3, 4, 5}, vertices)
	for _, c := range clusters {
		assert.True(t, c == 0 || c == 1, "cluster id %d", c)
	}

	text, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(text), "spectra_algorithm_calls_total")
}

func TestCluster_Stdout(t *testing.T) {
	input := writeFile(t, "tri.txt", twoTriangles)

	out, err := execute(t, "cluster", input, "--algorithm", "balanced-cut",
		"-k", "2", "--vertex-type", "int64", "--weight-type", "float64")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "vertex,cluster", lines[0])
}

func TestCluster_Errors(t *testing.T) {
	input := writeFile(t, "tri.txt", twoTriangles)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown algorithm", []string{"cluster", input, "--algorithm", "louvain"}, "unknown algorithm"},
		{"too many clusters", []string{"cluster", input, "-k", "7"}, "invalid"},
		{"bad vertex type", []string{"cluster", input, "--vertex-type", "uint8"}, "uint8"},
		{"bad format", []string{"cluster", input, "--format", "parquet"}, "parquet"},
		{"bad log level", []string{"cluster", input, "--log-level", "loud"}, "invalid log level"},
		{"missing input", []string{"cluster", filepath.Join(t.TempDir(), "nope.txt")}, "nope.txt"},
		{"unsupported scheme", []string{"cluster", "ftp://host/graph.txt"}, "unsupported input scheme"},
		{"bad s3 uri", []string{"cluster", "s3://bucket"}, "want s3://bucket/key"},
		{"bad minio uri", []string{"cluster", "minio://host/bucket"}, "want minio://host/bucket/key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClusterParams(t *testing.T) {
	file := writeFile(t, "params.yaml", "num_clusters: 3\nnum_eigenvectors: 2\nseed: 7\nkmeans_max_iterations: 10\n")

	f := &clusterFlags{}
	cmd := &cobra.Command{}
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--params", file, "--seed", "9"}))

	p, err := f.params(cmd)
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumClusters)
	assert.Equal(t, 2, p.NumEigenvectors)
	assert.Equal(t, 10, p.KMeansMaxIterations)
	assert.Equal(t, int64(9), p.Seed, "explicit flag wins over the file")
	assert.InDelta(t, 1e-3, p.EigenTolerance, 0, "unset keys keep their defaults")

	f = &clusterFlags{}
	cmd = &cobra.Command{}
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"-k", "4", "--eigenvectors", "3"}))
	p, err = f.params(cmd)
	require.NoError(t, err)
	assert.Equal(t, 4, p.NumClusters)
	assert.Equal(t, 3, p.NumEigenvectors)

	f = &clusterFlags{paramsFile: writeFile(t, "bad.yaml", "num_clusters: [")}
	_, err = f.params(&cobra.Command{})
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	input := writeFile(t, "tri.txt", twoTriangles)
	assignments := writeFile(t, "clusters.csv", "vertex,cluster\n0,0\n1,0\n2,0\n3,1\n4,1\n5,1\n")

	for _, vt := range []string{"int32", "int64"} {
		t.Run(vt, func(t *testing.T) {
			out, err := execute(t, "analyze", input, "--clusters", assignments, "--vertex-type", vt)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 3)
			assert.Equal(t, "modularity\t0.357143", lines[0])
			assert.Equal(t, "edge_cut\t1.000000", lines[1])
			assert.Equal(t, "ratio_cut\t0.666667", lines[2])
		})
	}
}

func TestAnalyze_Errors(t *testing.T) {
	input := writeFile(t, "tri.txt", twoTriangles)

	_, err := execute(t, "analyze", input)
	require.Error(t, err, "--clusters is required")

	bad := writeFile(t, "bad.csv", "0,zero\n")
	_, err = execute(t, "analyze", input, "--clusters", bad)
	require.Error(t, err)

	overflow := writeFile(t, "big.csv", "0,0\n4294967296,1\n")
	_, err = execute(t, "analyze", input, "--clusters", overflow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflow")
}

func TestAssignmentsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAssignments(&buf, []int64{10, 11, 12}, []int64{0, 1, 0}))
	assert.True(t, strings.HasPrefix(buf.String(), "vertex,cluster\n"))

	vertices, clusters, err := readAssignments(&buf)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11, 12}, vertices)
	assert.Equal(t, []int64{0, 1, 0}, clusters)
}

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = parseLevel("verbose")
	assert.Error(t, err)
}
