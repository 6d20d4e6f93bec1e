// Package kmeans implements Lloyd's k-means over row-major float64 points,
// seeded with k-means++ from a deterministic source.
package kmeans
