package dispatch

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/graph"
)

var (
	// ErrUnsupportedTypeCombination is returned when no row matches a graph.
	ErrUnsupportedTypeCombination = errors.New("dispatch: unsupported type combination")

	// ErrUnsupportedMultiGPU is returned by operations that have no
	// distributed implementation.
	ErrUnsupportedMultiGPU = errors.New("dispatch: multi-GPU execution not supported")
)

// Layout is the storage layout part of a key.
type Layout struct {
	Transposed bool
	MultiGPU   bool
}

// Layouts lists every storage layout.
var Layouts = []Layout{
	{Transposed: false, MultiGPU: false},
	{Transposed: true, MultiGPU: false},
	{Transposed: false, MultiGPU: true},
	{Transposed: true, MultiGPU: true},
}

// Key identifies one typed instantiation.
type Key struct {
	Vertex   array.DataType
	Edge     array.DataType
	Weight   array.DataType
	EdgeType array.DataType
	Layout
}

// KeyOf returns the key matching g's tags.
func KeyOf(g *graph.Graph) Key {
	return Key{
		Vertex:   g.VertexType(),
		Edge:     g.EdgeType(),
		Weight:   g.WeightType(),
		EdgeType: g.EdgeTypeType(),
		Layout: Layout{
			Transposed: g.IsTransposed(),
			MultiGPU:   g.IsMultiGPU(),
		},
	}
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("vertex=%s edge=%s weight=%s edge_type=%s transposed=%t multi_gpu=%t",
		k.Vertex, k.Edge, k.Weight, k.EdgeType, k.Transposed, k.MultiGPU)
}

// Space enumerates every key over the fixed-width id and weight types,
// candidate or not.
func Space() []Key {
	ints := []array.DataType{array.Int32, array.Int64}
	floats := []array.DataType{array.Float32, array.Float64}

	var keys []Key
	for _, v := range ints {
		for _, e := range ints {
			for _, w := range floats {
				for _, l := range Layouts {
					keys = append(keys, Key{Vertex: v, Edge: e, Weight: w, EdgeType: array.Int32, Layout: l})
				}
			}
		}
	}
	return keys
}

// Target is a graph whose tags matched a typed row.
type Target[V graph.Vertex, E graph.Edge, W graph.Weight] struct {
	Graph  *graph.Graph
	Layout Layout
}

// Storage returns the typed storage of the target graph.
func (t Target[V, E, W]) Storage() (*graph.Storage[V, E, W], error) {
	return graph.Unwrap[V, E, W](t.Graph)
}

// Row binds a key to an operation over functor F.
type Row[F any] struct {
	Key Key
	op  func(F, *graph.Graph, Layout) error
}

// Candidate expands a typed operation into one row per storage layout.
func Candidate[V graph.Vertex, E graph.Edge, W graph.Weight, F any](op func(F, Target[V, E, W]) error) []Row[F] {
	rows := make([]Row[F], 0, len(Layouts))
	for _, layout := range Layouts {
		rows = append(rows, Row[F]{
			Key: Key{
				Vertex:   array.TypeOf[V](),
				Edge:     array.TypeOf[E](),
				Weight:   array.TypeOf[W](),
				EdgeType: array.Int32,
				Layout:   layout,
			},
			op: func(f F, g *graph.Graph, l Layout) error {
				return op(f, Target[V, E, W]{Graph: g, Layout: l})
			},
		})
	}
	return rows
}

// Table is an immutable dispatch table.
type Table[F any] struct {
	ops  map[Key]func(F, *graph.Graph, Layout) error
	keys []Key
}

// NewTable builds a table from candidate rows. It panics on duplicate keys.
func NewTable[F any](candidates ...[]Row[F]) *Table[F] {
	t := &Table[F]{ops: make(map[Key]func(F, *graph.Graph, Layout) error)}
	for _, rows := range candidates {
		for _, r := range rows {
			if _, dup := t.ops[r.Key]; dup {
				panic(fmt.Sprintf("dispatch: duplicate row %s", r.Key))
			}
			t.ops[r.Key] = r.op
			t.keys = append(t.keys, r.Key)
		}
	}
	return t
}

// Has reports whether k has a row.
func (t *Table[F]) Has(k Key) bool {
	_, ok := t.ops[k]
	return ok
}

// Keys returns the registered keys in registration order.
func (t *Table[F]) Keys() []Key {
	return slices.Clone(t.keys)
}

// Len returns the number of rows.
func (t *Table[F]) Len() int {
	return len(t.keys)
}

// Dispatch runs the row matching g's tags on f.
func (t *Table[F]) Dispatch(f F, g *graph.Graph) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", graph.ErrInvalidInput)
	}
	if g.Freed() {
		return graph.ErrFreed
	}
	k := KeyOf(g)
	op, ok := t.ops[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedTypeCombination, k)
	}
	return op(f, g, k.Layout)
}
