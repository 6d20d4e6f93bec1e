package spectral

import (
	"context"
	"fmt"

	"github.com/hupe1980/spectra/device"
	"github.com/hupe1980/spectra/internal/kmeans"
)

// Modularity clusters a by spectral modularity maximization and writes one
// cluster id per vertex into clusters.
func Modularity[V Vertex, E Edge, W Weight](ctx context.Context, dev *device.Device, a CSR[V, E, W], p Params, clusters []V) (*Stats, error) {
	return cluster(ctx, dev, newShiftedModularity(dev, a), p, clusters)
}

// BalancedCut clusters a by ratio-cut minimization and writes one cluster id
// per vertex into clusters.
func BalancedCut[V Vertex, E Edge, W Weight](ctx context.Context, dev *device.Device, a CSR[V, E, W], p Params, clusters []V) (*Stats, error) {
	return cluster(ctx, dev, newShiftedLaplacian(dev, a), p, clusters)
}

func cluster[V Vertex](ctx context.Context, dev *device.Device, op operator, p Params, clusters []V) (*Stats, error) {
	n := op.dim()
	if err := p.validate(n); err != nil {
		return nil, err
	}
	if len(clusters) != n {
		return nil, fmt.Errorf("%w: cluster buffer holds %d of %d vertices", ErrInvalidParams, len(clusters), n)
	}

	// The embedding lives on the device for the duration of the call.
	work, err := device.Alloc[float64](dev, n*p.NumEigenvectors)
	if err != nil {
		return nil, err
	}
	defer work.Free()

	eig, err := largestEigenvectors(ctx, op, p.NumEigenvectors, p.EigenTolerance, p.EigenMaxIter, p.Seed)
	if err != nil {
		return nil, err
	}

	points := work.Data()
	embed(eig.vectors, n, p.NumEigenvectors, points)

	km, err := kmeans.Train(ctx, points, p.NumEigenvectors, p.NumClusters, kmeans.Config{
		MaxIter:   p.KMeansMaxIter,
		Tolerance: p.KMeansTolerance,
		Seed:      p.Seed,
	})
	if err != nil {
		return nil, err
	}

	for i, c := range km.Assignments {
		clusters[i] = V(c) //nolint:gosec // c < NumClusters <= n
	}

	stats := &Stats{
		EigenValues:      make([]float64, len(eig.values)),
		EigenIterations:  eig.iterations,
		EigenConverged:   eig.converged,
		KMeansIterations: km.Iterations,
		KMeansInertia:    km.Inertia,
	}
	for i, theta := range eig.values {
		stats.EigenValues[i] = op.eigenvalue(theta)
	}
	return stats, nil
}

// embed centers each unit eigenvector and writes the row-major n*k
// embedding into points. Centering removes the constant Laplacian
// eigenvector without amplifying what is left of it.
func embed(vectors []float64, n, k int, points []float64) {
	for c := 0; c < k; c++ {
		col := vectors[c*n : (c+1)*n]

		mean := 0.0
		for _, v := range col {
			mean += v
		}
		mean /= float64(n)

		for i, v := range col {
			points[i*k+c] = v - mean
		}
	}
}
