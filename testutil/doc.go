// Package testutil provides testing utilities for arenas.
//
// This package is intended for use in tests and benchmarks only.
//
// # Recording Provider
//
// Recorder is a backing.Provider double that keeps a log of every acquire
// and release, so tests can prove an arena returns exactly what it took:
//
//	rec := testutil.NewRecorder()
//	a, _ := arena.New(0, arena.WithProvider(rec))
//	// ... allocate ...
//	a.Delete()
//	if err := rec.Balanced(); err != nil { t.Fatal(err) }
//
// Failures can be injected with FailAfter to exercise out-of-memory paths.
//
// # Random Sizes
//
//	rng := testutil.NewRNG(seed)
//	size := rng.IntRange(1, 512)
//	alignment := rng.Alignment(16)
package testutil
