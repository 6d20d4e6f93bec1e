package graph

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/device"
	"github.com/hupe1980/spectra/internal/conv"
)

// NewSG creates a single-partition graph from an edge list.
//
// src and dst must share an integer type. weights may be nil, in which case
// every edge gets weight 1 of opts.WeightType.
func NewSG(ctx context.Context, dev *device.Device, props Properties, src, dst, weights *array.View, opts Options) (*Graph, error) {
	return create(ctx, dev, props, src, dst, weights, opts, false)
}

// NewMG creates the local partition of a multi-partition graph. In a single
// process the local partition is the whole edge list. Algorithms without a
// distributed implementation reject such graphs.
func NewMG(ctx context.Context, dev *device.Device, props Properties, src, dst, weights *array.View, opts Options) (*Graph, error) {
	return create(ctx, dev, props, src, dst, weights, opts, true)
}

type input struct {
	src, dst, weights *array.View
	props             Properties
	opts              Options
	multiGPU          bool
}

func create(ctx context.Context, dev *device.Device, props Properties, src, dst, weights *array.View, opts Options, multiGPU bool) (*Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src == nil || dst == nil {
		return nil, fmt.Errorf("%w: source and destination arrays are required", ErrInvalidInput)
	}
	vt := src.Type()
	if !vt.IsInteger() {
		return nil, fmt.Errorf("%w: vertex type %s is not an integer type", ErrInvalidInput, vt)
	}
	if dst.Type() != vt {
		return nil, fmt.Errorf("%w: source type %s differs from destination type %s", ErrInvalidInput, vt, dst.Type())
	}
	if src.Size() != dst.Size() {
		return nil, fmt.Errorf("%w: %d sources for %d destinations", ErrInvalidInput, src.Size(), dst.Size())
	}

	et := opts.EdgeType
	if et == array.Unknown {
		et = vt
	}
	wt := opts.WeightType
	if weights != nil {
		if weights.Size() != src.Size() {
			return nil, fmt.Errorf("%w: %d weights for %d edges", ErrInvalidInput, weights.Size(), src.Size())
		}
		if wt != array.Unknown && wt != weights.Type() {
			return nil, fmt.Errorf("%w: weight type option %s differs from weights %s", ErrInvalidInput, wt, weights.Type())
		}
		wt = weights.Type()
	}
	if wt == array.Unknown {
		wt = array.Float32
	}

	if !IsCandidate(vt, et, wt) {
		return nil, fmt.Errorf("%w: vertex=%s edge=%s weight=%s", ErrUnsupportedTypeCombination, vt, et, wt)
	}

	in := input{src: src, dst: dst, weights: weights, props: props, opts: opts, multiGPU: multiGPU}

	switch {
	case vt == array.Int32 && et == array.Int32 && wt == array.Float32:
		return build[int32, int32, float32](dev, in)
	case vt == array.Int32 && et == array.Int32 && wt == array.Float64:
		return build[int32, int32, float64](dev, in)
	case vt == array.Int32 && et == array.Int64 && wt == array.Float32:
		return build[int32, int64, float32](dev, in)
	case vt == array.Int32 && et == array.Int64 && wt == array.Float64:
		return build[int32, int64, float64](dev, in)
	case vt == array.Int64 && et == array.Int64 && wt == array.Float32:
		return build[int64, int64, float32](dev, in)
	case vt == array.Int64 && et == array.Int64 && wt == array.Float64:
		return build[int64, int64, float64](dev, in)
	}
	return nil, fmt.Errorf("%w: vertex=%s edge=%s weight=%s", ErrUnsupportedTypeCombination, vt, et, wt)
}

type edge[V Vertex, W Weight] struct {
	src, dst V
	w        W
}

type adjacency[V Vertex, E Edge, W Weight] struct {
	offsets []E
	indices []V
	weights []W
}

func build[V Vertex, E Edge, W Weight](dev *device.Device, in input) (*Graph, error) {
	srcs, err := array.As[V](in.src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	dsts, err := array.As[V](in.dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	var wgts []W
	if in.weights != nil {
		if wgts, err = array.As[W](in.weights); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	edges := make([]edge[V, W], len(srcs))
	for i := range srcs {
		if srcs[i] < 0 || dsts[i] < 0 {
			return nil, fmt.Errorf("%w: negative vertex id at edge %d", ErrInvalidInput, i)
		}
		w := W(1)
		if wgts != nil {
			w = wgts[i]
			if in.opts.DoExpensiveCheck && (math.IsNaN(float64(w)) || math.IsInf(float64(w), 0)) {
				return nil, fmt.Errorf("%w: non-finite weight at edge %d", ErrInvalidInput, i)
			}
		}
		edges[i] = edge[V, W]{src: srcs[i], dst: dsts[i], w: w}
	}

	if in.opts.Symmetrize {
		edges = symmetrize(edges)
	}

	if !in.opts.Renumber {
		if err := checkDense[V, E](dev, edges); err != nil {
			return nil, err
		}
	}
	numberMap := renumber(edges, in.opts.Renumber)

	if _, err := conv.IntTo[E](len(edges)); err != nil {
		return nil, fmt.Errorf("%w: %d edges exceed the edge type: %w", ErrInvalidInput, len(edges), err)
	}

	adj := compress[V, E](edges, len(numberMap), in.opts.StoreTransposed)

	s, err := upload(dev, adj, numberMap)
	if err != nil {
		return nil, err
	}

	if in.opts.DoExpensiveCheck && in.props.IsSymmetric {
		if err := s.CheckSymmetric(); err != nil {
			s.free()
			return nil, err
		}
	}

	return &Graph{
		vertexType: array.TypeOf[V](),
		edgeType:   array.TypeOf[E](),
		weightType: array.TypeOf[W](),
		transposed: in.opts.StoreTransposed,
		multiGPU:   in.multiGPU,
		props:      in.props,
		dev:        dev,
		storage:    s,
		free:       s.free,
	}, nil
}

// symmetrize adds reverse edges and keeps the first weight seen per
// (src, dst) pair.
func symmetrize[V Vertex, W Weight](edges []edge[V, W]) []edge[V, W] {
	out := make([]edge[V, W], 0, 2*len(edges))
	for _, e := range edges {
		out = append(out, e)
		if e.src != e.dst {
			out = append(out, edge[V, W]{src: e.dst, dst: e.src, w: e.w})
		}
	}
	slices.SortStableFunc(out, func(a, b edge[V, W]) int {
		if c := cmp.Compare(a.src, b.src); c != 0 {
			return c
		}
		return cmp.Compare(a.dst, b.dst)
	})
	return slices.CompactFunc(out, func(a, b edge[V, W]) bool {
		return a.src == b.src && a.dst == b.dst
	})
}

// compress builds sorted compressed adjacency keyed by source, or by
// destination when byDst is set.
func compress[V Vertex, E Edge, W Weight](edges []edge[V, W], n int, byDst bool) *adjacency[V, E, W] {
	major := func(e edge[V, W]) V { return e.src }
	minor := func(e edge[V, W]) V { return e.dst }
	if byDst {
		major, minor = minor, major
	}

	sorted := slices.Clone(edges)
	slices.SortStableFunc(sorted, func(a, b edge[V, W]) int {
		if c := cmp.Compare(major(a), major(b)); c != 0 {
			return c
		}
		return cmp.Compare(minor(a), minor(b))
	})

	adj := &adjacency[V, E, W]{
		offsets: make([]E, n+1),
		indices: make([]V, len(sorted)),
		weights: make([]W, len(sorted)),
	}
	for _, e := range sorted {
		adj.offsets[major(e)+1]++
	}
	for i := 0; i < n; i++ {
		adj.offsets[i+1] += adj.offsets[i]
	}
	for i, e := range sorted {
		adj.indices[i] = minor(e)
		adj.weights[i] = e.w
	}
	return adj
}
