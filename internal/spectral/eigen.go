package spectral

import (
	"context"
	"math"
	"math/rand"
	"sort"
)

const (
	// denseLimit is the largest operator solved by full Jacobi decomposition.
	denseLimit = 128

	jacobiMaxSweeps = 100
	jacobiEpsilon   = 1e-14
)

// eigenResult holds the k largest eigenpairs of an operator.
type eigenResult struct {
	values     []float64 // descending
	vectors    []float64 // column-major n*k
	iterations int
	converged  bool
}

// largestEigenvectors computes the k largest eigenpairs of op.
func largestEigenvectors(ctx context.Context, op operator, k int, tol float64, maxIter int, seed int64) (*eigenResult, error) {
	if op.dim() <= denseLimit {
		return denseEigenvectors(ctx, op, k)
	}
	return subspaceIteration(ctx, op, k, tol, maxIter, seed)
}

func denseEigenvectors(ctx context.Context, op operator, k int) (*eigenResult, error) {
	n := op.dim()

	// Columns of M are M e_c; M is symmetric so the column-major block is
	// also the row-major matrix.
	identity := make([]float64, n*n)
	for i := 0; i < n; i++ {
		identity[i*n+i] = 1
	}
	m := make([]float64, n*n)
	if err := op.apply(ctx, identity, m, n); err != nil {
		return nil, err
	}
	symmetrize(m, n)

	values, vectors, sweeps := jacobi(m, n)
	order := descending(values)

	res := &eigenResult{
		values:     make([]float64, k),
		vectors:    make([]float64, n*k),
		iterations: sweeps,
		converged:  sweeps < jacobiMaxSweeps,
	}
	for c := 0; c < k; c++ {
		src := order[c]
		res.values[c] = values[src]
		for i := 0; i < n; i++ {
			res.vectors[c*n+i] = vectors[i*n+src]
		}
	}
	return res, nil
}

// subspaceIteration runs block power iteration with Rayleigh-Ritz
// extraction on an oversampled block.
func subspaceIteration(ctx context.Context, op operator, k int, tol float64, maxIter int, seed int64) (*eigenResult, error) {
	n := op.dim()
	b := min(n, 2*k+8)
	if maxIter <= 0 {
		maxIter = 1000
	}

	rng := rand.New(rand.NewSource(seed)) // nolint gosec
	x := make([]float64, n*b)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	orthonormalize(x, n, b, rng)

	y := make([]float64, n*b)
	h := make([]float64, b*b)
	xr := make([]float64, n*b)
	yr := make([]float64, n*b)
	res := &eigenResult{}

	for iter := 1; iter <= maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := op.apply(ctx, x, y, b); err != nil {
			return nil, err
		}

		// H = X^T M X
		for r := 0; r < b; r++ {
			for c := r; c < b; c++ {
				v := dot(x[r*n:(r+1)*n], y[c*n:(c+1)*n])
				h[r*b+c] = v
				h[c*b+r] = v
			}
		}
		symmetrize(h, b)

		values, s, _ := jacobi(h, b)
		order := descending(values)

		// Ritz vectors X S and M X S in descending eigenvalue order.
		for c := 0; c < b; c++ {
			src := order[c]
			xc, yc := xr[c*n:(c+1)*n], yr[c*n:(c+1)*n]
			clear(xc)
			clear(yc)
			for j := 0; j < b; j++ {
				coef := s[j*b+src]
				if coef == 0 {
					continue
				}
				axpy(coef, x[j*n:(j+1)*n], xc)
				axpy(coef, y[j*n:(j+1)*n], yc)
			}
		}

		res.iterations = iter
		res.values = res.values[:0]
		converged := true
		for c := 0; c < k; c++ {
			theta := values[order[c]]
			res.values = append(res.values, theta)
			if residual(yr[c*n:(c+1)*n], xr[c*n:(c+1)*n], theta) > tol*math.Max(1, math.Abs(theta)) {
				converged = false
			}
		}
		if converged || iter == maxIter {
			res.converged = converged
			res.vectors = append([]float64(nil), xr[:n*k]...)
			return res, nil
		}

		copy(x, yr)
		orthonormalize(x, n, b, rng)
	}
	return res, nil
}

// jacobi diagonalizes the symmetric row-major n*n matrix a in place with
// cyclic Jacobi rotations. It returns the eigenvalues, the row-major
// eigenvector matrix (eigenvectors in columns) and the sweeps used.
func jacobi(a []float64, n int) ([]float64, []float64, int) {
	v := make([]float64, n*n)
	for i := 0; i < n; i++ {
		v[i*n+i] = 1
	}

	norm := 0.0
	for _, x := range a {
		norm += x * x
	}

	sweep := 0
	for ; sweep < jacobiMaxSweeps; sweep++ {
		off := 0.0
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				off += a[p*n+q] * a[p*n+q]
			}
		}
		if off <= jacobiEpsilon*jacobiEpsilon*norm {
			break
		}

		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				apq := a[p*n+q]
				if apq == 0 {
					continue
				}
				theta := (a[q*n+q] - a[p*n+p]) / (2 * apq)
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				for r := 0; r < n; r++ {
					arp, arq := a[r*n+p], a[r*n+q]
					a[r*n+p] = c*arp - s*arq
					a[r*n+q] = s*arp + c*arq
				}
				for r := 0; r < n; r++ {
					apr, aqr := a[p*n+r], a[q*n+r]
					a[p*n+r] = c*apr - s*aqr
					a[q*n+r] = s*apr + c*aqr
				}
				for r := 0; r < n; r++ {
					vrp, vrq := v[r*n+p], v[r*n+q]
					v[r*n+p] = c*vrp - s*vrq
					v[r*n+q] = s*vrp + c*vrq
				}
			}
		}
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = a[i*n+i]
	}
	return values, v, sweep
}

// descending returns the indices of values sorted from largest to smallest.
func descending(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] > values[order[j]]
	})
	return order
}

// orthonormalize applies two passes of modified Gram-Schmidt to the k
// column-major columns of x. Collapsed columns are replaced by random ones.
func orthonormalize(x []float64, n, k int, rng *rand.Rand) {
	for c := 0; c < k; c++ {
		col := x[c*n : (c+1)*n]
		for attempt := 0; ; attempt++ {
			for pass := 0; pass < 2; pass++ {
				for j := 0; j < c; j++ {
					prev := x[j*n : (j+1)*n]
					axpy(-dot(prev, col), prev, col)
				}
			}
			nrm := math.Sqrt(dot(col, col))
			if nrm > 1e-10 || attempt == 3 {
				if nrm > 0 {
					scale(1/nrm, col)
				}
				break
			}
			for i := range col {
				col[i] = rng.NormFloat64()
			}
		}
	}
}

func symmetrize(a []float64, n int) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			avg := 0.5 * (a[i*n+j] + a[j*n+i])
			a[i*n+j] = avg
			a[j*n+i] = avg
		}
	}
}

func residual(mx, x []float64, theta float64) float64 {
	sum := 0.0
	for i := range x {
		d := mx[i] - theta*x[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func axpy(alpha float64, x, y []float64) {
	for i := range x {
		y[i] += alpha * x[i]
	}
}

func scale(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}
