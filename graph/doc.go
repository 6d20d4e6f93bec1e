// Package graph provides the runtime-tagged graph handle consumed by the
// spectra algorithms.
//
// A Graph carries the vertex, edge and weight type tags, the storage
// orientation (by source, or transposed by destination) and a
// single/multi-partition flag. Its typed representation, Storage[V,E,W], is
// compressed adjacency held in device buffers plus the renumber map from
// internal vertex ids back to the caller's ids.
//
// # Creating Graphs
//
//	src := array.HostView([]int32{0, 1, 2})
//	dst := array.HostView([]int32{1, 2, 0})
//	wgt := array.HostView([]float32{1, 1, 1})
//
//	g, err := graph.NewSG(ctx, dev, graph.Properties{IsSymmetric: true}, src, dst, wgt,
//	    graph.Options{Symmetrize: true, Renumber: true})
//	if err != nil {
//	    return err
//	}
//	defer g.Free()
//
// # Supported Types
//
// Vertex/edge pairs (int32, int32), (int32, int64) and (int64, int64), each
// with float32 or float64 weights. Other combinations are rejected with
// ErrUnsupportedTypeCombination.
//
// # Orientation
//
// TransposeStorage rebuilds the adjacency in place for the requested
// orientation. It is all-or-nothing and a no-op when the orientation already
// matches. A Graph is not safe for concurrent use while it is being
// transposed; callers serialize algorithm calls that share a Graph.
package graph
