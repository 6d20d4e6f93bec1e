package spectral

import (
	"math"
)

// Vertex is the set of vertex id types.
type Vertex interface {
	~int32 | ~int64
}

// Edge is the set of edge offset types.
type Edge interface {
	~int32 | ~int64
}

// Weight is the set of weight types.
type Weight interface {
	~float32 | ~float64
}

// CSR is a read-only compressed sparse row view of an adjacency matrix.
type CSR[V Vertex, E Edge, W Weight] struct {
	Offsets []E
	Indices []V
	Weights []W
}

// NumVertices returns the row count.
func (a CSR[V, E, W]) NumVertices() int {
	if len(a.Offsets) == 0 {
		return 0
	}
	return len(a.Offsets) - 1
}

// degrees returns weighted row sums and the largest absolute row sum.
func (a CSR[V, E, W]) degrees() ([]float64, float64) {
	n := a.NumVertices()
	deg := make([]float64, n)
	maxAbs := 0.0
	for i := 0; i < n; i++ {
		var sum, abs float64
		for e := a.Offsets[i]; e < a.Offsets[i+1]; e++ {
			w := float64(a.Weights[e])
			sum += w
			abs += math.Abs(w)
		}
		deg[i] = sum
		maxAbs = math.Max(maxAbs, abs)
	}
	return deg, maxAbs
}
