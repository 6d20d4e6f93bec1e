package graph

import (
	"github.com/hupe1980/spectra/device"
)

// TransposeStorage rebuilds the adjacency of g so that it is keyed by
// destination when transposed is true and by source otherwise.
//
// It is a no-op when g already has the requested orientation. The rebuild is
// all-or-nothing: if any allocation fails, g keeps its previous storage and
// orientation. Callers must not run other operations on g concurrently.
func TransposeStorage[V Vertex, E Edge, W Weight](g *Graph, transposed bool) error {
	s, err := Unwrap[V, E, W](g)
	if err != nil {
		return err
	}
	if g.transposed == transposed {
		return nil
	}
	if err := s.Validate(); err != nil {
		return err
	}

	n := s.NumVertices()
	m := s.NumEdges()

	newOffsets, err := device.Alloc[E](g.dev, n+1)
	if err != nil {
		return err
	}
	newIndices, err := device.Alloc[V](g.dev, m)
	if err != nil {
		newOffsets.Free()
		return err
	}
	newWeights, err := device.Alloc[W](g.dev, m)
	if err != nil {
		newOffsets.Free()
		newIndices.Free()
		return err
	}

	reverse(s.Offsets(), s.Indices(), s.Weights(), newOffsets.Data(), newIndices.Data(), newWeights.Data())

	s.offsets.Free()
	s.indices.Free()
	s.weights.Free()
	s.offsets, s.indices, s.weights = newOffsets, newIndices, newWeights
	g.transposed = transposed

	return nil
}

// reverse writes the reverse of the adjacency (offsets, indices, weights)
// into the preallocated output arrays. Scanning rows in ascending order keeps
// every output row sorted.
func reverse[V Vertex, E Edge, W Weight](offsets []E, indices []V, weights []W, outOffsets []E, outIndices []V, outWeights []W) {
	n := len(offsets) - 1
	for _, v := range indices {
		outOffsets[v+1]++
	}
	for i := 0; i < n; i++ {
		outOffsets[i+1] += outOffsets[i]
	}

	cursor := make([]E, n)
	copy(cursor, outOffsets[:n])

	for u := 0; u < n; u++ {
		for k := offsets[u]; k < offsets[u+1]; k++ {
			v := indices[k]
			pos := cursor[v]
			cursor[v]++
			outIndices[pos] = V(u)
			outWeights[pos] = weights[k]
		}
	}
}
