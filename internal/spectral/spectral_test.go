package spectral

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/hupe1980/spectra/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// undirected builds a symmetric CSR from an undirected edge list.
func undirected(n int, edges [][2]int32) CSR[int32, int32, float64] {
	adj := make([][]int32, n)
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}

	a := CSR[int32, int32, float64]{Offsets: make([]int32, n+1)}
	for u, row := range adj {
		sort.Slice(row, func(i, j int) bool { return row[i] < row[j] })
		for _, v := range row {
			a.Indices = append(a.Indices, v)
			a.Weights = append(a.Weights, 1)
		}
		a.Offsets[u+1] = int32(len(a.Indices))
	}
	return a
}

// Two triangles {0,1,2} and {3,4,5} joined by the edge (2,3).
func twoTriangles() CSR[int32, int32, float64] {
	return undirected(6, [][2]int32{{0, 1}, {0, 2}, {1, 2}, {3, 4}, {3, 5}, {4, 5}, {2, 3}})
}

// cliqueRing builds `count` cliques of `size` vertices, consecutive cliques
// joined by a single edge.
func cliqueRing(count, size int) CSR[int32, int32, float64] {
	var edges [][2]int32
	for c := 0; c < count; c++ {
		base := int32(c * size)
		for i := int32(0); i < int32(size); i++ {
			for j := i + 1; j < int32(size); j++ {
				edges = append(edges, [2]int32{base + i, base + j})
			}
		}
		next := int32(((c + 1) % count) * size)
		edges = append(edges, [2]int32{base + int32(size) - 1, next})
	}
	return undirected(count*size, edges)
}

func assertGroups(t *testing.T, clusters []int32, size int) {
	t.Helper()
	seen := make(map[int32]bool)
	for start := 0; start < len(clusters); start += size {
		want := clusters[start]
		for i := start; i < start+size; i++ {
			assert.Equal(t, want, clusters[i], "vertex %d", i)
		}
		assert.False(t, seen[want], "cluster %d reused", want)
		seen[want] = true
	}
}

func defaultParams(k, nev int) Params {
	return Params{
		NumClusters:     k,
		NumEigenvectors: nev,
		EigenTolerance:  1e-6,
		EigenMaxIter:    500,
		KMeansTolerance: 1e-6,
		KMeansMaxIter:   100,
		Seed:            42,
	}
}

func TestBalancedCut_TwoTriangles(t *testing.T) {
	a := twoTriangles()
	clusters := make([]int32, 6)

	stats, err := BalancedCut(context.Background(), nil, a, defaultParams(2, 2), clusters)
	require.NoError(t, err)

	assertGroups(t, clusters, 3)
	assert.True(t, stats.EigenConverged)
	require.Len(t, stats.EigenValues, 2)
	assert.InDelta(t, 0, stats.EigenValues[0], 1e-9)
	assert.Greater(t, stats.EigenValues[1], 0.0)
}

func TestModularity_TwoTriangles(t *testing.T) {
	a := twoTriangles()
	clusters := make([]int32, 6)

	stats, err := Modularity(context.Background(), nil, a, defaultParams(2, 1), clusters)
	require.NoError(t, err)

	assertGroups(t, clusters, 3)
	require.Len(t, stats.EigenValues, 1)
	assert.Greater(t, stats.EigenValues[0], 0.0)
}

func TestBalancedCut_SubspaceIteration(t *testing.T) {
	a := cliqueRing(4, 40)
	require.Greater(t, a.NumVertices(), denseLimit)

	dev := device.New(device.Config{MaxWorkers: 4})
	clusters := make([]int32, a.NumVertices())

	stats, err := BalancedCut(context.Background(), dev, a, defaultParams(4, 4), clusters)
	require.NoError(t, err)

	assert.True(t, stats.EigenConverged)
	assert.Greater(t, stats.EigenIterations, 1)
	assertGroups(t, clusters, 40)
}

func TestModularity_SubspaceIteration(t *testing.T) {
	a := cliqueRing(3, 50)
	clusters := make([]int32, a.NumVertices())

	_, err := Modularity(context.Background(), nil, a, defaultParams(3, 2), clusters)
	require.NoError(t, err)
	assertGroups(t, clusters, 50)
}

func TestCluster_InvalidParams(t *testing.T) {
	a := twoTriangles()
	ctx := context.Background()

	tests := []struct {
		name     string
		params   Params
		clusters int
	}{
		{"zero clusters", defaultParams(0, 1), 6},
		{"too many clusters", defaultParams(7, 1), 6},
		{"zero eigenvectors", defaultParams(2, 0), 6},
		{"eigenvectors exceed clusters", defaultParams(2, 3), 6},
		{"negative tolerance", Params{NumClusters: 2, NumEigenvectors: 1, EigenTolerance: -1}, 6},
		{"short output", defaultParams(2, 1), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BalancedCut(ctx, nil, a, tt.params, make([]int32, tt.clusters))
			require.ErrorIs(t, err, ErrInvalidParams)
		})
	}

	empty := CSR[int32, int32, float64]{Offsets: []int32{0}}
	_, err := Modularity(ctx, nil, empty, defaultParams(1, 1), nil)
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestCluster_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := cliqueRing(4, 40)
	_, err := BalancedCut(ctx, nil, a, defaultParams(4, 4), make([]int32, a.NumVertices()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestCluster_ReleasesWorkspace(t *testing.T) {
	dev := device.New(device.Config{})
	clusters := make([]int32, 6)

	_, err := Modularity(context.Background(), dev, twoTriangles(), defaultParams(2, 1), clusters)
	require.NoError(t, err)

	stats := dev.Stats()
	assert.Equal(t, int64(1), stats.Allocations)
	assert.Zero(t, stats.LiveBuffers)
}

func TestCluster_WorkspaceAllocationFails(t *testing.T) {
	dev := device.New(device.Config{})
	dev.SetFaultInjector(&device.FailAfter{})

	_, err := BalancedCut(context.Background(), dev, twoTriangles(), defaultParams(2, 2), make([]int32, 6))
	require.ErrorIs(t, err, device.ErrInjectedFault)
	assert.Zero(t, dev.Stats().LiveBuffers)
}

func TestJacobi(t *testing.T) {
	a := []float64{
		2, 1, 0,
		1, 2, 0,
		0, 0, 5,
	}
	values, vectors, _ := jacobi(a, 3)
	order := descending(values)

	assert.InDelta(t, 5, values[order[0]], 1e-12)
	assert.InDelta(t, 3, values[order[1]], 1e-12)
	assert.InDelta(t, 1, values[order[2]], 1e-12)

	// Eigenvector of 3 is (1, 1, 0)/sqrt(2) up to sign.
	c := order[1]
	assert.InDelta(t, 1/math.Sqrt2, math.Abs(vectors[0*3+c]), 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, math.Abs(vectors[1*3+c]), 1e-12)
	assert.InDelta(t, 0, vectors[2*3+c], 1e-12)
}

func TestEmbed_CentersColumns(t *testing.T) {
	vectors := []float64{
		0.5, 0.5, 0.5, 0.5, // constant
		1, 1, -1, -1,
	}
	points := make([]float64, 8)
	embed(vectors, 4, 2, points)

	for i := 0; i < 4; i++ {
		assert.Zero(t, points[i*2])
	}
	assert.InDelta(t, 1, points[1], 1e-12)
	assert.InDelta(t, -1, points[7], 1e-12)
}
