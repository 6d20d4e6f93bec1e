package spectra

import (
	"context"
	"time"

	"github.com/hupe1980/spectra/graph"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// run executes one entry point call inside a span and translates its
// failure into an *Error. It returns nil or an *Error, never a typed nil.
func (h *ResourceHandle) run(ctx context.Context, name string, g *graph.Graph, call func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	attrs := []attribute.KeyValue{attribute.String("spectra.algorithm", name)}
	logger := h.logger.WithAlgorithm(name)
	if g != nil && !g.Freed() {
		attrs = append(attrs,
			attribute.String("spectra.graph.vertex_type", g.VertexType().String()),
			attribute.String("spectra.graph.edge_type", g.EdgeType().String()),
			attribute.String("spectra.graph.weight_type", g.WeightType().String()),
			attribute.Bool("spectra.graph.transposed", g.IsTransposed()),
			attribute.Bool("spectra.graph.multi_gpu", g.IsMultiGPU()),
			attribute.Int("spectra.graph.vertices", g.NumVertices()),
		)
		logger = logger.WithGraph(g.VertexType().String(), g.EdgeType().String(), g.WeightType().String(),
			g.IsTransposed(), g.IsMultiGPU())
	}

	ctx, span := h.tracer.Start(ctx, "spectra."+name, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := call(ctx)
	duration := time.Since(start)

	if err == nil {
		h.metrics.RecordAlgorithm(name, Success, duration)
		logger.LogAlgorithm(ctx, name, duration, nil)
		return nil
	}

	e := translateError(err)
	span.RecordError(e)
	span.SetStatus(codes.Error, e.Message())
	span.SetAttributes(attribute.String("spectra.code", e.Code.String()))
	h.metrics.RecordAlgorithm(name, e.Code, duration)
	logger.LogAlgorithm(ctx, name, duration, e)
	return e
}

// adaptLayout transposes g back to source orientation, recording the change.
func adaptLayout[V graph.Vertex, E graph.Edge, W graph.Weight](ctx context.Context, h *ResourceHandle, g *graph.Graph) error {
	start := time.Now()
	err := graph.TransposeStorage[V, E, W](g, false)
	duration := time.Since(start)

	h.metrics.RecordTranspose(duration, err)
	h.logger.LogTranspose(ctx, g.NumEdges(), duration, err)
	return err
}
