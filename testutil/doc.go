// Package testutil provides deterministic fixtures for tests.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Numbers
//
//	rng := testutil.NewRNG(seed)
//	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
//
// # Graph Fixtures
//
//	el := testutil.CliqueRing(4, 40)
//	g := testutil.BuildGraph(t, dev, el, array.Int32, array.Int32, array.Float32, graph.Options{Symmetrize: true})
package testutil
