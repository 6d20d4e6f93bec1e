package spectra

import (
	"context"
	"fmt"

	"github.com/hupe1980/spectra/array"
	"github.com/hupe1980/spectra/graph"
	"github.com/hupe1980/spectra/internal/dispatch"
	"github.com/hupe1980/spectra/internal/spectral"
)

type analysisMetric int

const (
	modularityScore analysisMetric = iota
	edgeCutScore
	ratioCutScore
)

func (m analysisMetric) String() string {
	switch m {
	case edgeCutScore:
		return "analyze_clustering_edge_cut"
	case ratioCutScore:
		return "analyze_clustering_ratio_cut"
	default:
		return "analyze_clustering_modularity"
	}
}

type analysisFunctor struct {
	ctx         context.Context
	h           *ResourceHandle
	metric      analysisMetric
	numClusters int
	vertices    *array.View
	clusters    *array.View

	score float64
}

var analysisTable = dispatch.NewTable(
	dispatch.Candidate(runAnalysis[int32, int32, float32]),
	dispatch.Candidate(runAnalysis[int32, int32, float64]),
	dispatch.Candidate(runAnalysis[int32, int64, float32]),
	dispatch.Candidate(runAnalysis[int32, int64, float64]),
	dispatch.Candidate(runAnalysis[int64, int64, float32]),
	dispatch.Candidate(runAnalysis[int64, int64, float64]),
)

func runAnalysis[V graph.Vertex, E graph.Edge, W graph.Weight](f *analysisFunctor, t dispatch.Target[V, E, W]) error {
	if t.Layout.Transposed {
		if err := adaptLayout[V, E, W](f.ctx, f.h, t.Graph); err != nil {
			return fmt.Errorf("adapt storage layout: %w", err)
		}
	}
	if t.Layout.MultiGPU {
		return fmt.Errorf("%w: distributed execution not implemented for %s", dispatch.ErrUnsupportedMultiGPU, f.metric)
	}

	s, err := t.Storage()
	if err != nil {
		return err
	}
	vertices, err := array.As[V](f.vertices)
	if err != nil {
		return fmt.Errorf("vertices: %w", err)
	}
	clusters, err := array.As[V](f.clusters)
	if err != nil {
		return fmt.Errorf("clusters: %w", err)
	}

	part, err := spectral.Partition(s.NumberMap(), vertices, clusters, f.numClusters)
	if err != nil {
		return err
	}

	csr := spectral.CSR[V, E, W]{
		Offsets: s.Offsets(),
		Indices: s.Indices(),
		Weights: s.Weights(),
	}
	switch f.metric {
	case edgeCutScore:
		f.score = spectral.EdgeCut(csr, part)
	case ratioCutScore:
		f.score = spectral.RatioCut(csr, part, f.numClusters)
	default:
		f.score = spectral.ModularityScore(csr, part, f.numClusters)
	}
	return nil
}

// AnalyzeModularity scores a clustering of g by modularity. vertices and
// clusters must carry g's vertex type, list every vertex of g exactly once
// and use cluster ids in [0, numClusters).
func AnalyzeModularity(ctx context.Context, h *ResourceHandle, g *graph.Graph, numClusters int, vertices, clusters *array.View) (float64, error) {
	return analyze(ctx, h, g, modularityScore, numClusters, vertices, clusters)
}

// AnalyzeEdgeCut scores a clustering of g by the weight of edges crossing
// clusters, each undirected edge counted once.
func AnalyzeEdgeCut(ctx context.Context, h *ResourceHandle, g *graph.Graph, numClusters int, vertices, clusters *array.View) (float64, error) {
	return analyze(ctx, h, g, edgeCutScore, numClusters, vertices, clusters)
}

// AnalyzeRatioCut scores a clustering of g by the ratio cut.
func AnalyzeRatioCut(ctx context.Context, h *ResourceHandle, g *graph.Graph, numClusters int, vertices, clusters *array.View) (float64, error) {
	return analyze(ctx, h, g, ratioCutScore, numClusters, vertices, clusters)
}

func analyze(ctx context.Context, h *ResourceHandle, g *graph.Graph, metric analysisMetric, numClusters int, vertices, clusters *array.View) (float64, error) {
	if err := h.check(); err != nil {
		return 0, translateError(err)
	}

	f := &analysisFunctor{
		h:           h,
		metric:      metric,
		numClusters: numClusters,
		vertices:    vertices,
		clusters:    clusters,
	}
	err := h.run(ctx, metric.String(), g, func(ctx context.Context) error {
		f.ctx = ctx
		return analysisTable.Dispatch(f, g)
	})
	if err != nil {
		return 0, err
	}
	return f.score, nil
}
