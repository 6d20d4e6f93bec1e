// Package spectra provides spectral graph clustering behind a runtime-typed
// facade.
//
// Graphs are opaque handles tagged with their vertex, edge and weight types
// and storage layout (see package graph). Every entry point selects the
// typed implementation matching those tags, adapts the storage orientation
// when needed, runs the kernel and hands its outputs back as a
// caller-owned result.
//
// # Quick Start
//
//	h := spectra.NewResourceHandle()
//	defer h.Close()
//
//	g, err := graph.NewSG(ctx, h.Device(), graph.Properties{IsSymmetric: true},
//	    array.HostView(src), array.HostView(dst), array.HostView(weights),
//	    graph.Options{Symmetrize: true, Renumber: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Free()
//
//	res, err := spectra.SpectralClustering(ctx, h, g, spectra.DefaultClusteringParams(2))
//	if err != nil {
//	    log.Fatalf("%s: %s", spectra.CodeOf(err), err.(*spectra.Error).Message())
//	}
//	defer res.Free()
//
//	vertices, _ := res.Vertices()
//	clusters, _ := res.Clusters()
//
// # Algorithms
//
//   - SpectralClustering: spectral modularity maximization.
//   - BalancedCutClustering: ratio-cut minimization via the graph Laplacian.
//   - AnalyzeModularity, AnalyzeEdgeCut, AnalyzeRatioCut: partition scores.
//
// # Errors
//
// Entry points return either a result or an *Error, never both. The Error's
// Code is one of Success, UnknownError, InvalidInput,
// UnsupportedTypeCombination or UnsupportedMultiGPU; CodeOf extracts it.
//
// # Ownership
//
// A ClusteringResult owns two device arrays and releases both on Free. A
// failed call releases every buffer it allocated. Transposed graphs are
// converted in place, so calls that share a graph must be serialized.
//
// # Observability
//
// Logging uses log/slog via Logger, metrics go through MetricsCollector (see
// metrics/prometheus) and each entry point opens an OpenTelemetry span.
package spectra
