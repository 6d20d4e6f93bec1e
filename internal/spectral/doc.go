// Package spectral implements the clustering and partition analysis kernels.
//
// Both clustering kernels embed vertices with a few extreme eigenvectors of a
// graph operator and cluster the embedding with k-means:
//
//   - Modularity maximizes modularity using the largest eigenvectors of the
//     modularity matrix B = A - d d^T / 2m.
//   - BalancedCut minimizes the ratio cut using the smallest eigenvectors of
//     the Laplacian L = D - A.
//
// Kernels expect symmetric adjacency with non-negative weights. Eigenvectors
// are computed exactly for small graphs and by block subspace iteration with
// Rayleigh-Ritz extraction otherwise. Row blocks of every sparse product run
// on the device worker pool.
package spectral
