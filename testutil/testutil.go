package testutil

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/dataset"
	"github.com/hupe1980/spectra/device"
	"github.com/hupe1980/spectra/graph"
	"github.com/stretchr/testify/require"
)

// RNG is a seeded, thread-safe random source.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec
		seed: seed,
	}
}

// Reset restarts the sequence from the initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Shuffle pseudo-randomizes the order of n elements.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(n, swap)
}

// TwoTriangles returns the triangles {0,1,2} and {3,4,5} joined by the
// edge 2-3, one direction per edge, unit weights.
func TwoTriangles() *dataset.EdgeList {
	return &dataset.EdgeList{
		Src:     []int64{0, 1, 2, 3, 4, 5, 2},
		Dst:     []int64{1, 2, 0, 4, 5, 3, 3},
		Weights: []float64{1, 1, 1, 1, 1, 1, 1},
	}
}

// CliqueRing returns count cliques of size vertices each; clique c is
// joined to clique c+1 (mod count) by a single edge. One direction per
// edge, unit weights.
func CliqueRing(count, size int) *dataset.EdgeList {
	el := &dataset.EdgeList{}
	add := func(u, v int) {
		el.Src = append(el.Src, int64(u))
		el.Dst = append(el.Dst, int64(v))
		el.Weights = append(el.Weights, 1)
	}
	for c := 0; c < count; c++ {
		base := c * size
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				add(base+i, base+j)
			}
		}
		if count > 1 {
			add(base+size-1, ((c+1)%count)*size)
		}
	}
	return el
}

// PlantedPartition returns a random graph with the given number of
// communities. Vertex pairs inside a community are joined with
// probability pIn, pairs across communities with pOut. Vertex v belongs
// to community v / size.
func PlantedPartition(rng *RNG, communities, size int, pIn, pOut float64) *dataset.EdgeList {
	el := &dataset.EdgeList{}
	n := communities * size
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			p := pOut
			if u/size == v/size {
				p = pIn
			}
			if rng.Float64() < p {
				el.Src = append(el.Src, int64(u))
				el.Dst = append(el.Dst, int64(v))
				el.Weights = append(el.Weights, 1)
			}
		}
	}
	return el
}

// Offset returns a copy of el with every vertex id shifted by delta.
func Offset(el *dataset.EdgeList, delta int64) *dataset.EdgeList {
	out := &dataset.EdgeList{
		Src:       make([]int64, len(el.Src)),
		Dst:       make([]int64, len(el.Dst)),
		Weights:   append([]float64(nil), el.Weights...),
		Symmetric: el.Symmetric,
	}
	for i := range el.Src {
		out.Src[i] = el.Src[i] + delta
		out.Dst[i] = el.Dst[i] + delta
	}
	return out
}

// BuildGraph creates a single-GPU graph from el with the given type tags.
// It fails the test on error and frees the graph on cleanup.
func BuildGraph(t testing.TB, dev *device.Device, el *dataset.EdgeList, vertexType, edgeType, weightType array.DataType, opts graph.Options) *graph.Graph {
	t.Helper()
	return build(t, dev, el, vertexType, edgeType, weightType, opts, graph.NewSG)
}

// BuildMultiGPUGraph is BuildGraph for a multi-GPU handle.
func BuildMultiGPUGraph(t testing.TB, dev *device.Device, el *dataset.EdgeList, vertexType, edgeType, weightType array.DataType, opts graph.Options) *graph.Graph {
	t.Helper()
	return build(t, dev, el, vertexType, edgeType, weightType, opts, graph.NewMG)
}

type newFunc func(context.Context, *device.Device, graph.Properties, *array.View, *array.View, *array.View, graph.Options) (*graph.Graph, error)

func build(t testing.TB, dev *device.Device, el *dataset.EdgeList, vertexType, edgeType, weightType array.DataType, opts graph.Options, newGraph newFunc) *graph.Graph {
	t.Helper()

	src, dst, w, err := el.Views(vertexType, weightType)
	require.NoError(t, err)

	opts.EdgeType = edgeType
	if w == nil {
		opts.WeightType = weightType
	}
	props := el.Properties()
	if opts.Symmetrize {
		props.IsSymmetric = true
	}

	g, err := newGraph(context.Background(), dev, props, src, dst, w, opts)
	require.NoError(t, err)
	t.Cleanup(g.Free)
	return g
}
