package kmeans

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrInvalidK is returned when k is outside [1, n].
	ErrInvalidK = errors.New("kmeans: k must be in [1, n]")

	// ErrInvalidDim is returned when the point buffer is not a multiple of dim.
	ErrInvalidDim = errors.New("kmeans: invalid dimension")
)

// Config controls training.
type Config struct {
	// MaxIter bounds the number of Lloyd iterations.
	MaxIter int

	// Tolerance stops training once the relative inertia change falls below it.
	Tolerance float64

	// Seed seeds k-means++ initialization.
	Seed int64
}

// Result is a trained clustering.
type Result struct {
	Assignments []int
	Centroids   []float64 // k * dim
	Inertia     float64
	Iterations  int
}

// Train clusters n = len(points)/dim points into k groups.
func Train(ctx context.Context, points []float64, dim, k int, cfg Config) (*Result, error) {
	if dim <= 0 || len(points)%dim != 0 {
		return nil, fmt.Errorf("%w: %d values for dimension %d", ErrInvalidDim, len(points), dim)
	}
	n := len(points) / dim
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k=%d n=%d", ErrInvalidK, k, n)
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 100
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) // nolint gosec
	centroids := seed(points, dim, k, rng)

	res := &Result{
		Assignments: make([]int, n),
		Centroids:   centroids,
	}
	for i := range res.Assignments {
		res.Assignments[i] = -1
	}

	counts := make([]int, k)
	sums := make([]float64, k*dim)
	prev := math.Inf(1)

	for iter := 0; iter < cfg.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Iterations = iter + 1

		// Assignment step
		changed := false
		inertia := 0.0
		for i := 0; i < n; i++ {
			best, d := Assign(points[i*dim:(i+1)*dim], centroids, dim)
			inertia += d
			if res.Assignments[i] != best {
				res.Assignments[i] = best
				changed = true
			}
		}
		res.Inertia = inertia

		if !changed {
			break
		}
		if prev < math.Inf(1) && math.Abs(prev-inertia) <= cfg.Tolerance*math.Max(prev, math.SmallestNonzeroFloat64) {
			break
		}
		prev = inertia

		// Update step
		clear(sums)
		clear(counts)
		for i := 0; i < n; i++ {
			c := res.Assignments[i]
			vec := points[i*dim : (i+1)*dim]
			for d := 0; d < dim; d++ {
				sums[c*dim+d] += vec[d]
			}
			counts[c]++
		}

		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				scale := 1.0 / float64(counts[j])
				for d := 0; d < dim; d++ {
					centroids[j*dim+d] = sums[j*dim+d] * scale
				}
				continue
			}
			// Re-seed an empty cluster with the point farthest from its centroid.
			far := farthest(points, dim, centroids, res.Assignments)
			copy(centroids[j*dim:(j+1)*dim], points[far*dim:(far+1)*dim])
		}
	}

	return res, nil
}

// Assign returns the closest centroid to vec and its squared distance.
func Assign(vec, centroids []float64, dim int) (int, float64) {
	k := len(centroids) / dim
	best := 0
	minDist := math.Inf(1)
	for j := 0; j < k; j++ {
		d := squaredL2(vec, centroids[j*dim:(j+1)*dim])
		if d < minDist {
			minDist = d
			best = j
		}
	}
	return best, minDist
}

// seed picks k initial centroids with k-means++.
func seed(points []float64, dim, k int, rng *rand.Rand) []float64 {
	n := len(points) / dim
	centroids := make([]float64, 0, k*dim)
	chosen := make([]bool, n)

	first := rng.Intn(n)
	chosen[first] = true
	centroids = append(centroids, points[first*dim:(first+1)*dim]...)

	dist := make([]float64, n)
	for i := range dist {
		dist[i] = squaredL2(points[i*dim:(i+1)*dim], centroids[:dim])
	}

	for c := 1; c < k; c++ {
		total := 0.0
		for _, d := range dist {
			total += d
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dist {
				target -= d
				if target <= 0 && d > 0 {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// All remaining mass is zero: take the first unchosen point.
			for i := range chosen {
				if !chosen[i] {
					next = i
					break
				}
			}
		}

		chosen[next] = true
		center := points[next*dim : (next+1)*dim]
		centroids = append(centroids, center...)
		for i := range dist {
			dist[i] = math.Min(dist[i], squaredL2(points[i*dim:(i+1)*dim], center))
		}
	}
	return centroids
}

func farthest(points []float64, dim int, centroids []float64, assignments []int) int {
	best, bestDist := 0, -1.0
	for i, c := range assignments {
		d := squaredL2(points[i*dim:(i+1)*dim], centroids[c*dim:(c+1)*dim])
		if d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func squaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
