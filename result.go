package spectra

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/spectra/array"
)

// ClusteringResult owns the vertices and clusters arrays produced by a
// clustering call. clusters[i] is the cluster of vertices[i].
//
// The caller owns the result and must call Free exactly once it is done.
type ClusteringResult struct {
	mu       sync.Mutex
	vertices *array.DeviceArray
	clusters *array.DeviceArray
	freed    bool

	logger  *Logger
	metrics MetricsCollector
}

func newClusteringResult(h *ResourceHandle, vertices, clusters *array.DeviceArray) *ClusteringResult {
	return &ClusteringResult{
		vertices: vertices,
		clusters: clusters,
		logger:   h.logger,
		metrics:  h.metrics,
	}
}

// Vertices returns a view over the external vertex ids.
func (r *ClusteringResult) Vertices() (*array.View, error) {
	return r.view(func() *array.DeviceArray { return r.vertices })
}

// Clusters returns a view over the cluster assignments.
func (r *ClusteringResult) Clusters() (*array.View, error) {
	return r.view(func() *array.DeviceArray { return r.clusters })
}

func (r *ClusteringResult) view(pick func() *array.DeviceArray) (*array.View, error) {
	if r == nil {
		return nil, translateError(fmt.Errorf("%w: clustering result", ErrNilHandle))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.freed {
		return nil, translateError(ErrResultFreed)
	}
	return pick().View(), nil
}

// NumVertices returns the length of both arrays.
func (r *ClusteringResult) NumVertices() int {
	if r == nil {
		return 0
	}
	return r.vertices.Size()
}

// Free releases both arrays. Later calls are no-ops.
func (r *ClusteringResult) Free() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.freed {
		r.mu.Unlock()
		return
	}
	r.freed = true
	bytes := r.vertices.Bytes() + r.clusters.Bytes()
	r.vertices.Free()
	r.clusters.Free()
	r.mu.Unlock()

	r.metrics.RecordResultFree(bytes)
	r.logger.LogResultFree(context.Background(), r.vertices.Size(), bytes)
}
