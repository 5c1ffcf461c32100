// Package testutil provides deterministic fixtures for tests and benchmarks.
//
//	rng := testutil.NewRNG(42)
//	records := testutil.Records(rng, 1000)
//	rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
//
// RNG is safe for concurrent use and satisfies the shuffler interface used by
// the identifier index, so tree builds in tests are reproducible.
package testutil
