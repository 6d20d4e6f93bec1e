package dataset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/graph"
	"github.com/hupe1980/spectra/internal/conv"
)

// ErrMalformed is returned for input that does not parse.
var ErrMalformed = errors.New("dataset: malformed input")

// ErrUnsupportedType is returned by Views for non-candidate element types.
var ErrUnsupportedType = errors.New("dataset: unsupported element type")

// EdgeList is a parsed edge list held in the widest host types.
type EdgeList struct {
	Src []int64
	Dst []int64
	// Weights is nil for unweighted input.
	Weights []float64
	// Symmetric reports that the source stores one triangle of a symmetric
	// matrix, so the reverse of every edge is implied.
	Symmetric bool
}

// NumEdges returns the number of stored edges.
func (el *EdgeList) NumEdges() int {
	return len(el.Src)
}

// Weighted reports whether the input carried weights.
func (el *EdgeList) Weighted() bool {
	return el.Weights != nil
}

// Properties returns the graph properties implied by the source.
func (el *EdgeList) Properties() graph.Properties {
	return graph.Properties{IsSymmetric: el.Symmetric}
}

// Views converts the edge list into host views with the given tags.
// weights is nil for unweighted input. Vertex ids that do not fit the
// vertex type are rejected.
func (el *EdgeList) Views(vertexType, weightType array.DataType) (src, dst, weights *array.View, err error) {
	switch vertexType {
	case array.Int32:
		s, err := narrow[int32](el.Src)
		if err != nil {
			return nil, nil, nil, err
		}
		d, err := narrow[int32](el.Dst)
		if err != nil {
			return nil, nil, nil, err
		}
		src, dst = array.HostView(s), array.HostView(d)
	case array.Int64:
		src, dst = array.HostView(el.Src), array.HostView(el.Dst)
	default:
		return nil, nil, nil, fmt.Errorf("%w: vertex type %s", ErrUnsupportedType, vertexType)
	}

	if el.Weights == nil {
		if weightType != array.Float32 && weightType != array.Float64 {
			return nil, nil, nil, fmt.Errorf("%w: weight type %s", ErrUnsupportedType, weightType)
		}
		return src, dst, nil, nil
	}

	switch weightType {
	case array.Float32:
		w := make([]float32, len(el.Weights))
		for i, x := range el.Weights {
			w[i] = float32(x)
		}
		weights = array.HostView(w)
	case array.Float64:
		weights = array.HostView(el.Weights)
	default:
		return nil, nil, nil, fmt.Errorf("%w: weight type %s", ErrUnsupportedType, weightType)
	}
	return src, dst, weights, nil
}

func narrow[T int32 | int64](ids []int64) ([]T, error) {
	out := make([]T, len(ids))
	for i, id := range ids {
		v, err := conv.Int64To[T](id)
		if err != nil {
			return nil, fmt.Errorf("%w: vertex id %d", ErrUnsupportedType, id)
		}
		out[i] = v
	}
	return out, nil
}

func (el *EdgeList) add(src, dst int64, w float64, weighted bool) {
	el.Src = append(el.Src, src)
	el.Dst = append(el.Dst, dst)
	if weighted {
		el.Weights = append(el.Weights, w)
	}
}
