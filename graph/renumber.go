package graph

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/spectra/device"
)

// maxDenseBytes caps the host arrays sized by max id + 1 when ids are kept.
const maxDenseBytes = 1 << 40

// checkDense rejects id spaces whose dense per-vertex arrays (renumber map
// and offsets) cannot be allocated, before anything is allocated.
func checkDense[V Vertex, E Edge, W Weight](dev *device.Device, edges []edge[V, W]) error {
	var maxID uint64
	for _, e := range edges {
		maxID = max(maxID, uint64(e.src), uint64(e.dst)) //nolint:gosec // ids are checked non-negative
	}
	if len(edges) == 0 {
		return nil
	}

	var v V
	var o E
	perVertex := uint64(unsafe.Sizeof(v) + unsafe.Sizeof(o))
	if maxID >= maxDenseBytes/perVertex || maxID >= math.MaxInt {
		return fmt.Errorf("%w: max vertex id %d is too sparse to keep; enable Renumber", ErrInvalidInput, maxID)
	}

	need := int64((maxID + 1) * perVertex) //nolint:gosec // bounded by maxDenseBytes
	if limit := dev.MemoryLimit(); limit > 0 && need > limit {
		return fmt.Errorf("%w: max vertex id %d needs %d bytes of a %d byte budget; enable Renumber",
			device.ErrOutOfMemory, maxID, need, limit)
	}
	return nil
}

// renumber rewrites edge endpoints in place and returns the map from
// internal to external ids.
//
// With renumbering, the internal id of an external id is its rank among all
// ids that appear in the edge list. Without it, ids are kept and the vertex
// count is max id + 1.
func renumber[V Vertex, W Weight](edges []edge[V, W], enabled bool) []V {
	if !enabled {
		n := int64(0)
		for _, e := range edges {
			n = max(n, int64(e.src)+1, int64(e.dst)+1)
		}
		numberMap := make([]V, n)
		for i := range numberMap {
			numberMap[i] = V(i)
		}
		return numberMap
	}

	ids := roaring64.New()
	for _, e := range edges {
		ids.Add(uint64(e.src)) //nolint:gosec // ids are checked non-negative
		ids.Add(uint64(e.dst)) //nolint:gosec // ids are checked non-negative
	}

	external := ids.ToArray()
	numberMap := make([]V, len(external))
	for i, id := range external {
		numberMap[i] = V(id) //nolint:gosec // id came from a V
	}

	for i := range edges {
		edges[i].src = V(ids.Rank(uint64(edges[i].src)) - 1) //nolint:gosec // rank < len(numberMap)
		edges[i].dst = V(ids.Rank(uint64(edges[i].dst)) - 1) //nolint:gosec // rank < len(numberMap)
	}
	return numberMap
}
