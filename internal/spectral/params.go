package spectral

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is returned for out-of-range clustering parameters.
	ErrInvalidParams = errors.New("spectral: invalid parameters")

	// ErrInvalidPartition is returned when a partition does not cover the graph.
	ErrInvalidPartition = errors.New("spectral: invalid partition")
)

// Params configure a clustering kernel.
type Params struct {
	NumClusters     int
	NumEigenvectors int
	EigenTolerance  float64
	EigenMaxIter    int
	KMeansTolerance float64
	KMeansMaxIter   int
	Seed            int64
}

// Stats report how a kernel run converged.
type Stats struct {
	EigenValues      []float64
	EigenIterations  int
	EigenConverged   bool
	KMeansIterations int
	KMeansInertia    float64
}

func (p Params) validate(n int) error {
	if n == 0 {
		return fmt.Errorf("%w: graph has no vertices", ErrInvalidParams)
	}
	if p.NumClusters < 1 || p.NumClusters > n {
		return fmt.Errorf("%w: num clusters %d not in [1, %d]", ErrInvalidParams, p.NumClusters, n)
	}
	if p.NumEigenvectors < 1 || p.NumEigenvectors > p.NumClusters {
		return fmt.Errorf("%w: num eigenvectors %d not in [1, %d]", ErrInvalidParams, p.NumEigenvectors, p.NumClusters)
	}
	if p.EigenTolerance < 0 || p.KMeansTolerance < 0 {
		return fmt.Errorf("%w: negative tolerance", ErrInvalidParams)
	}
	return nil
}
