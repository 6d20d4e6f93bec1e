package spectral

import (
	"context"
	"math"

	"github.com/hupe1980/spectra/device"
)

// operator is a symmetric linear operator applied to column-major blocks.
type operator interface {
	dim() int
	// eigenvalue maps an eigenvalue of the shifted operator back to the
	// unshifted matrix.
	eigenvalue(theta float64) float64
	// apply computes y = M x for k columns of length dim().
	apply(ctx context.Context, x, y []float64, k int) error
}

// shiftedLaplacian is sigma*I - (D - A). Its largest eigenvectors are the
// smallest eigenvectors of the Laplacian.
type shiftedLaplacian[V Vertex, E Edge, W Weight] struct {
	dev   *device.Device
	a     CSR[V, E, W]
	deg   []float64
	sigma float64
}

func newShiftedLaplacian[V Vertex, E Edge, W Weight](dev *device.Device, a CSR[V, E, W]) *shiftedLaplacian[V, E, W] {
	deg, maxAbs := a.degrees()
	// Gershgorin: every eigenvalue of L lies in [-2*maxAbs, 2*maxAbs].
	return &shiftedLaplacian[V, E, W]{dev: dev, a: a, deg: deg, sigma: 2 * maxAbs}
}

func (l *shiftedLaplacian[V, E, W]) dim() int { return len(l.deg) }

func (l *shiftedLaplacian[V, E, W]) eigenvalue(theta float64) float64 { return l.sigma - theta }

func (l *shiftedLaplacian[V, E, W]) apply(ctx context.Context, x, y []float64, k int) error {
	n := l.dim()
	return l.dev.Parallel(ctx, n, func(lo, hi int) error {
		for c := 0; c < k; c++ {
			xc, yc := x[c*n:(c+1)*n], y[c*n:(c+1)*n]
			for i := lo; i < hi; i++ {
				s := (l.sigma - l.deg[i]) * xc[i]
				for e := l.a.Offsets[i]; e < l.a.Offsets[i+1]; e++ {
					s += float64(l.a.Weights[e]) * xc[l.a.Indices[e]]
				}
				yc[i] = s
			}
		}
		return nil
	})
}

// shiftedModularity is B + sigma*I with B = A - d d^T / 2m.
type shiftedModularity[V Vertex, E Edge, W Weight] struct {
	dev    *device.Device
	a      CSR[V, E, W]
	deg    []float64
	total  float64 // 2m
	sigma  float64
	scaled []float64 // per-column d^T x / 2m
}

func newShiftedModularity[V Vertex, E Edge, W Weight](dev *device.Device, a CSR[V, E, W]) *shiftedModularity[V, E, W] {
	deg, maxAbs := a.degrees()
	total, maxDeg := 0.0, 0.0
	for _, d := range deg {
		total += d
		maxDeg = math.Max(maxDeg, math.Abs(d))
	}
	return &shiftedModularity[V, E, W]{
		dev:   dev,
		a:     a,
		deg:   deg,
		total: total,
		sigma: maxAbs + maxDeg,
	}
}

func (m *shiftedModularity[V, E, W]) dim() int { return len(m.deg) }

func (m *shiftedModularity[V, E, W]) eigenvalue(theta float64) float64 { return theta - m.sigma }

func (m *shiftedModularity[V, E, W]) apply(ctx context.Context, x, y []float64, k int) error {
	n := m.dim()

	if cap(m.scaled) < k {
		m.scaled = make([]float64, k)
	}
	scaled := m.scaled[:k]
	for c := 0; c < k; c++ {
		scaled[c] = 0
		if m.total == 0 {
			continue
		}
		xc := x[c*n : (c+1)*n]
		dot := 0.0
		for i, d := range m.deg {
			dot += d * xc[i]
		}
		scaled[c] = dot / m.total
	}

	return m.dev.Parallel(ctx, n, func(lo, hi int) error {
		for c := 0; c < k; c++ {
			xc, yc := x[c*n:(c+1)*n], y[c*n:(c+1)*n]
			for i := lo; i < hi; i++ {
				s := m.sigma*xc[i] - m.deg[i]*scaled[c]
				for e := m.a.Offsets[i]; e < m.a.Offsets[i+1]; e++ {
					s += float64(m.a.Weights[e]) * xc[m.a.Indices[e]]
				}
				yc[i] = s
			}
		}
		return nil
	})
}
