package graph

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/spectra/device"
)

// Storage is the typed compressed adjacency of a Graph.
//
// Row i of the adjacency spans Indices()[Offsets()[i]:Offsets()[i+1]]. Rows
// are keyed by source when the graph is not transposed and by destination
// when it is. Within a row, neighbor ids are sorted ascending.
type Storage[V Vertex, E Edge, W Weight] struct {
	offsets   *device.Buffer[E]
	indices   *device.Buffer[V]
	weights   *device.Buffer[W]
	numberMap *device.Buffer[V]
}

// Offsets returns the row offsets (length NumVertices()+1).
func (s *Storage[V, E, W]) Offsets() []E { return s.offsets.Data() }

// Indices returns the neighbor ids.
func (s *Storage[V, E, W]) Indices() []V { return s.indices.Data() }

// Weights returns the edge weights, parallel to Indices.
func (s *Storage[V, E, W]) Weights() []W { return s.weights.Data() }

// NumberMap maps internal vertex ids to external ids.
func (s *Storage[V, E, W]) NumberMap() []V { return s.numberMap.Data() }

// NumVertices returns the vertex count.
func (s *Storage[V, E, W]) NumVertices() int { return s.numberMap.Len() }

// NumEdges returns the stored edge count.
func (s *Storage[V, E, W]) NumEdges() int { return s.indices.Len() }

// Bytes returns the device memory held by the storage.
func (s *Storage[V, E, W]) Bytes() int64 {
	return s.offsets.Bytes() + s.indices.Bytes() + s.weights.Bytes() + s.numberMap.Bytes()
}

func (s *Storage[V, E, W]) free() {
	s.offsets.Free()
	s.indices.Free()
	s.weights.Free()
	s.numberMap.Free()
}

// Validate checks the structural invariants of the adjacency arrays.
func (s *Storage[V, E, W]) Validate() error {
	n := s.NumVertices()
	offsets := s.Offsets()
	indices := s.Indices()

	if len(offsets) != n+1 {
		return fmt.Errorf("%w: %d offsets for %d vertices", ErrCorruptStorage, len(offsets), n)
	}
	if len(s.Weights()) != len(indices) {
		return fmt.Errorf("%w: %d weights for %d edges", ErrCorruptStorage, len(s.Weights()), len(indices))
	}
	if offsets[0] != 0 || int64(offsets[n]) != int64(len(indices)) {
		return fmt.Errorf("%w: offsets span [%d, %d], want [0, %d]", ErrCorruptStorage, offsets[0], offsets[n], len(indices))
	}
	for i := 0; i < n; i++ {
		if offsets[i] > offsets[i+1] {
			return fmt.Errorf("%w: offsets decrease at row %d", ErrCorruptStorage, i)
		}
	}
	for i, v := range indices {
		if v < 0 || int64(v) >= int64(n) {
			return fmt.Errorf("%w: neighbor %d at position %d out of range", ErrCorruptStorage, v, i)
		}
	}
	return nil
}

// CheckWeights reports non-finite weights and, if nonNegative is set,
// negative ones.
func (s *Storage[V, E, W]) CheckWeights(nonNegative bool) error {
	for i, w := range s.Weights() {
		f := float64(w)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite weight at edge %d", ErrInvalidInput, i)
		}
		if nonNegative && f < 0 {
			return fmt.Errorf("%w: negative weight %g at edge %d", ErrInvalidInput, f, i)
		}
	}
	return nil
}

// CheckSymmetric reports an error unless every stored edge (u, v, w) has a
// matching reverse edge (v, u, w).
func (s *Storage[V, E, W]) CheckSymmetric() error {
	offsets := s.Offsets()
	indices := s.Indices()
	weights := s.Weights()

	for u := 0; u < s.NumVertices(); u++ {
		for k := offsets[u]; k < offsets[u+1]; k++ {
			v := indices[k]
			row := indices[offsets[v]:offsets[v+1]]
			pos, found := slices.BinarySearch(row, V(u))
			if !found {
				return fmt.Errorf("%w: edge (%d, %d) has no reverse", ErrInvalidInput, u, v)
			}
			if weights[int64(offsets[v])+int64(pos)] != weights[k] {
				return fmt.Errorf("%w: edge (%d, %d) has asymmetric weight", ErrInvalidInput, u, v)
			}
		}
	}
	return nil
}

// upload moves host adjacency into device buffers. On failure every buffer
// allocated so far is released.
func upload[V Vertex, E Edge, W Weight](dev *device.Device, adj *adjacency[V, E, W], numberMap []V) (*Storage[V, E, W], error) {
	s := &Storage[V, E, W]{}

	var err error
	if s.offsets, err = device.FromHost(dev, adj.offsets); err != nil {
		s.free()
		return nil, err
	}
	if s.indices, err = device.FromHost(dev, adj.indices); err != nil {
		s.free()
		return nil, err
	}
	if s.weights, err = device.FromHost(dev, adj.weights); err != nil {
		s.free()
		return nil, err
	}
	if s.numberMap, err = device.FromHost(dev, numberMap); err != nil {
		s.free()
		return nil, err
	}
	return s, nil
}
