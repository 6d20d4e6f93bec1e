package spectra

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/device"
	"github.com/hupe1980/spectra/graph"
	"github.com/hupe1980/spectra/internal/dispatch"
	"github.com/hupe1980/spectra/internal/spectral"
)

type clusteringAlgorithm int

const (
	modularityMaximization clusteringAlgorithm = iota
	balancedCut
)

func (a clusteringAlgorithm) String() string {
	if a == balancedCut {
		return "balanced_cut_clustering"
	}
	return "spectral_modularity_maximization"
}

// clusteringFunctor carries the runtime arguments of one clustering call.
type clusteringFunctor struct {
	ctx       context.Context
	h         *ResourceHandle
	algorithm clusteringAlgorithm
	params    ClusteringParams

	result *ClusteringResult
}

var clusteringTable = dispatch.NewTable(
	dispatch.Candidate(runClustering[int32, int32, float32]),
	dispatch.Candidate(runClustering[int32, int32, float64]),
	dispatch.Candidate(runClustering[int32, int64, float32]),
	dispatch.Candidate(runClustering[int32, int64, float64]),
	dispatch.Candidate(runClustering[int64, int64, float32]),
	dispatch.Candidate(runClustering[int64, int64, float64]),
)

func runClustering[V graph.Vertex, E graph.Edge, W graph.Weight](f *clusteringFunctor, t dispatch.Target[V, E, W]) error {
	if t.Layout.Transposed {
		if err := adaptLayout[V, E, W](f.ctx, f.h, t.Graph); err != nil {
			return fmt.Errorf("adapt storage layout: %w", err)
		}
	}
	if t.Layout.MultiGPU {
		return fmt.Errorf("%w: distributed execution not implemented for %s", dispatch.ErrUnsupportedMultiGPU, f.algorithm)
	}

	s, err := t.Storage()
	if err != nil {
		return err
	}
	if f.params.DoExpensiveCheck {
		if err := s.CheckWeights(true); err != nil {
			return err
		}
		if err := s.CheckSymmetric(); err != nil {
			return err
		}
	}

	dev := f.h.dev
	clusters, err := device.Alloc[V](dev, s.NumVertices())
	if err != nil {
		return err
	}
	vertices, err := device.FromHost(dev, s.NumberMap())
	if err != nil {
		clusters.Free()
		return err
	}

	csr := spectral.CSR[V, E, W]{
		Offsets: s.Offsets(),
		Indices: s.Indices(),
		Weights: s.Weights(),
	}

	var stats *spectral.Stats
	switch f.algorithm {
	case balancedCut:
		stats, err = spectral.BalancedCut(f.ctx, dev, csr, f.params.kernel(), clusters.Data())
	default:
		stats, err = spectral.Modularity(f.ctx, dev, csr, f.params.kernel(), clusters.Data())
	}
	if err != nil {
		clusters.Free()
		vertices.Free()
		return err
	}

	f.h.logger.LogEigenSolve(f.ctx, stats.EigenIterations, stats.EigenConverged, stats.EigenValues)
	f.result = newClusteringResult(f.h, array.New(vertices), array.New(clusters))
	return nil
}

// SpectralClustering partitions g into params.NumClusters clusters by
// spectral modularity maximization.
//
// If g is stored transposed it is converted to source orientation in place
// before clustering. Multi-GPU graphs are rejected with UnsupportedMultiGPU.
// On success the caller owns the result; on failure no result exists and
// every buffer allocated by the call has been released. The returned error
// is always an *Error.
func SpectralClustering(ctx context.Context, h *ResourceHandle, g *graph.Graph, params ClusteringParams) (*ClusteringResult, error) {
	return cluster(ctx, h, g, params, modularityMaximization)
}

// BalancedCutClustering partitions g into params.NumClusters clusters by
// minimizing the ratio cut. It follows the same contract as
// SpectralClustering.
func BalancedCutClustering(ctx context.Context, h *ResourceHandle, g *graph.Graph, params ClusteringParams) (*ClusteringResult, error) {
	return cluster(ctx, h, g, params, balancedCut)
}

func cluster(ctx context.Context, h *ResourceHandle, g *graph.Graph, params ClusteringParams, algorithm clusteringAlgorithm) (*ClusteringResult, error) {
	if err := h.check(); err != nil {
		return nil, translateError(err)
	}

	f := &clusteringFunctor{h: h, algorithm: algorithm, params: params}
	err := h.run(ctx, algorithm.String(), g, func(ctx context.Context) error {
		f.ctx = ctx
		if err := params.validate(); err != nil {
			return err
		}
		if err := clusteringTable.Dispatch(f, g); err != nil {
			return err
		}
		if f.result == nil {
			return errors.New("clustering produced no result")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f.result, nil
}
