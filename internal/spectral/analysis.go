package spectral

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Partition maps a clustering given in external vertex ids onto internal
// ids. numberMap must be sorted ascending; vertices must be a permutation of
// it and every cluster id must lie in [0, numClusters). numClusters may not
// exceed the vertex count.
func Partition[V Vertex](numberMap, vertices, clusters []V, numClusters int) ([]int, error) {
	n := len(numberMap)
	if numClusters < 1 || numClusters > n {
		return nil, fmt.Errorf("%w: num clusters %d not in [1, %d]", ErrInvalidPartition, numClusters, n)
	}
	if len(vertices) != n || len(clusters) != n {
		return nil, fmt.Errorf("%w: %d vertices and %d clusters for %d graph vertices",
			ErrInvalidPartition, len(vertices), len(clusters), n)
	}

	ids := roaring64.New()
	for _, id := range numberMap {
		ids.Add(uint64(id)) //nolint:gosec // graph ids are non-negative
	}

	part := make([]int, n)
	seen := make([]bool, n)
	for i, v := range vertices {
		if v < 0 || !ids.Contains(uint64(v)) {
			return nil, fmt.Errorf("%w: vertex %d is not in the graph", ErrInvalidPartition, v)
		}
		internal := int(ids.Rank(uint64(v)) - 1) //nolint:gosec // rank <= n
		if seen[internal] {
			return nil, fmt.Errorf("%w: vertex %d listed twice", ErrInvalidPartition, v)
		}
		seen[internal] = true

		c := clusters[i]
		if c < 0 || int64(c) >= int64(numClusters) {
			return nil, fmt.Errorf("%w: cluster id %d of vertex %d not in [0, %d)", ErrInvalidPartition, c, v, numClusters)
		}
		part[internal] = int(c)
	}
	return part, nil
}

// EdgeCut returns the total weight of edges crossing clusters, counting
// each undirected edge once.
func EdgeCut[V Vertex, E Edge, W Weight](a CSR[V, E, W], part []int) float64 {
	cut := 0.0
	for u := 0; u < a.NumVertices(); u++ {
		for e := a.Offsets[u]; e < a.Offsets[u+1]; e++ {
			if part[u] != part[a.Indices[e]] {
				cut += float64(a.Weights[e])
			}
		}
	}
	return cut / 2
}

// RatioCut returns the sum over clusters of the weight leaving the cluster
// divided by its size. Empty clusters contribute nothing.
func RatioCut[V Vertex, E Edge, W Weight](a CSR[V, E, W], part []int, numClusters int) float64 {
	cut := make([]float64, numClusters)
	size := make([]int, numClusters)
	for u := 0; u < a.NumVertices(); u++ {
		size[part[u]]++
		for e := a.Offsets[u]; e < a.Offsets[u+1]; e++ {
			if part[u] != part[a.Indices[e]] {
				cut[part[u]] += float64(a.Weights[e])
			}
		}
	}

	score := 0.0
	for c := range cut {
		if size[c] > 0 {
			score += cut[c] / float64(size[c])
		}
	}
	return score
}

// ModularityScore returns Q = (1/W) * sum_c (in_c - deg_c^2 / W), where W
// is the total stored edge weight, in_c the weight inside cluster c and
// deg_c the summed degree of its vertices.
func ModularityScore[V Vertex, E Edge, W Weight](a CSR[V, E, W], part []int, numClusters int) float64 {
	in := make([]float64, numClusters)
	deg := make([]float64, numClusters)
	total := 0.0
	for u := 0; u < a.NumVertices(); u++ {
		for e := a.Offsets[u]; e < a.Offsets[u+1]; e++ {
			w := float64(a.Weights[e])
			total += w
			deg[part[u]] += w
			if part[u] == part[a.Indices[e]] {
				in[part[u]] += w
			}
		}
	}
	if total == 0 {
		return 0
	}

	q := 0.0
	for c := range in {
		q += in[c] - deg[c]*deg[c]/total
	}
	return q / total
}
