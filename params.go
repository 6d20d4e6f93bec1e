package spectra

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hupe1980/spectra/internal/spectral"
)

var paramValidator = validator.New(validator.WithRequiredStructEnabled())

// ClusteringParams configure SpectralClustering and BalancedCutClustering.
type ClusteringParams struct {
	// NumClusters is the number of clusters to produce. It must not exceed
	// the vertex count.
	NumClusters int `validate:"gte=1" yaml:"num_clusters"`

	// NumEigenvectors is the embedding dimension.
	NumEigenvectors int `validate:"gte=1,ltefield=NumClusters" yaml:"num_eigenvectors"`

	EigenTolerance      float64 `validate:"gte=0" yaml:"eigen_tolerance"`
	EigenMaxIterations  int     `validate:"gte=0" yaml:"eigen_max_iterations"`
	KMeansTolerance     float64 `validate:"gte=0" yaml:"kmeans_tolerance"`
	KMeansMaxIterations int     `validate:"gte=0" yaml:"kmeans_max_iterations"`

	// Seed makes eigen solver start vectors and k-means seeding reproducible.
	Seed int64 `yaml:"seed"`

	// DoExpensiveCheck verifies the graph is symmetric with non-negative
	// weights before clustering.
	DoExpensiveCheck bool `yaml:"do_expensive_check"`
}

// DefaultClusteringParams returns parameters for k clusters embedded with k
// eigenvectors.
func DefaultClusteringParams(k int) ClusteringParams {
	return ClusteringParams{
		NumClusters:         k,
		NumEigenvectors:     k,
		EigenTolerance:      1e-3,
		EigenMaxIterations:  1000,
		KMeansTolerance:     1e-3,
		KMeansMaxIterations: 100,
	}
}

func (p ClusteringParams) validate() error {
	if err := paramValidator.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}

func (p ClusteringParams) kernel() spectral.Params {
	return spectral.Params{
		NumClusters:     p.NumClusters,
		NumEigenvectors: p.NumEigenvectors,
		EigenTolerance:  p.EigenTolerance,
		EigenMaxIter:    p.EigenMaxIterations,
		KMeansTolerance: p.KMeansTolerance,
		KMeansMaxIter:   p.KMeansMaxIterations,
		Seed:            p.Seed,
	}
}
