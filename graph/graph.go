package graph

import (
	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/device"
)

// Vertex is the set of vertex id types.
type Vertex interface {
	~int32 | ~int64
}

// Edge is the set of edge count/offset types.
type Edge interface {
	~int32 | ~int64
}

// Weight is the set of edge weight types.
type Weight interface {
	~float32 | ~float64
}

// Properties describe the input graph.
type Properties struct {
	IsSymmetric  bool
	IsMultigraph bool
}

// Options control graph creation.
type Options struct {
	// StoreTransposed stores adjacency by destination vertex.
	StoreTransposed bool

	// Renumber maps arbitrary non-negative ids onto [0, V).
	// Without it ids must already be dense; V is max id + 1.
	Renumber bool

	// Symmetrize adds the reverse of every edge and drops duplicate pairs.
	Symmetrize bool

	// EdgeType selects the offset width. Unknown uses the vertex type.
	EdgeType array.DataType

	// WeightType is the weight type for unweighted input. Unknown means Float32.
	WeightType array.DataType

	// DoExpensiveCheck validates weights and, for symmetric graphs, symmetry.
	DoExpensiveCheck bool
}

// Graph is an opaque, runtime-tagged graph handle.
//
// The storage orientation is the only state that changes after creation and
// only through TransposeStorage.
type Graph struct {
	vertexType array.DataType
	edgeType   array.DataType
	weightType array.DataType

	transposed bool
	multiGPU   bool
	props      Properties

	dev     *device.Device
	storage any // *Storage[V, E, W]
	free    func()
	freed   bool
}

// VertexType returns the vertex id tag.
func (g *Graph) VertexType() array.DataType { return g.vertexType }

// EdgeType returns the edge offset tag.
func (g *Graph) EdgeType() array.DataType { return g.edgeType }

// WeightType returns the weight tag.
func (g *Graph) WeightType() array.DataType { return g.weightType }

// EdgeTypeType returns the tag of per-edge type ids, which is always Int32.
func (g *Graph) EdgeTypeType() array.DataType { return array.Int32 }

// IsTransposed reports whether adjacency is stored by destination.
func (g *Graph) IsTransposed() bool { return g.transposed }

// IsMultiGPU reports whether the graph is a partition of a distributed graph.
func (g *Graph) IsMultiGPU() bool { return g.multiGPU }

// Properties returns the creation properties.
func (g *Graph) Properties() Properties { return g.props }

// Device returns the device the graph lives on.
func (g *Graph) Device() *device.Device { return g.dev }

// Freed reports whether Free has been called.
func (g *Graph) Freed() bool { return g.freed }

// NumVertices returns the local vertex count. A freed or zero Graph has none.
func (g *Graph) NumVertices() int {
	s, ok := g.storage.(sizer)
	if !ok {
		return 0
	}
	return s.NumVertices()
}

// NumEdges returns the local edge count.
func (g *Graph) NumEdges() int {
	s, ok := g.storage.(sizer)
	if !ok {
		return 0
	}
	return s.NumEdges()
}

// Free releases the graph's device buffers. Later calls are no-ops.
func (g *Graph) Free() {
	if g == nil || g.freed {
		return
	}
	g.freed = true
	if g.free != nil {
		g.free()
	}
	g.storage = nil
}

type sizer interface {
	NumVertices() int
	NumEdges() int
}

// Unwrap returns the typed storage of g.
func Unwrap[V Vertex, E Edge, W Weight](g *Graph) (*Storage[V, E, W], error) {
	if g.freed {
		return nil, ErrFreed
	}
	s, ok := g.storage.(*Storage[V, E, W])
	if !ok {
		return nil, ErrStorageType
	}
	return s, nil
}

// IsCandidate reports whether storage exists for the type combination.
func IsCandidate(vertex, edge, weight array.DataType) bool {
	if !weight.IsFloat() {
		return false
	}
	switch {
	case vertex == array.Int32 && edge == array.Int32:
		return true
	case vertex == array.Int32 && edge == array.Int64:
		return true
	case vertex == array.Int64 && edge == array.Int64:
		return true
	default:
		return false
	}
}
