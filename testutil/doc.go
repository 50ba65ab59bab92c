// Package testutil provides testing utilities for cohort.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible synthetic student records.
//
// # Synthetic Students
//
//	rng := testutil.NewRNG(seed)
//	records := rng.Students(100, testutil.Band{Mean: 85, Spread: 5}, testutil.Band{Mean: 30, Spread: 5})
//	records := testutil.Scored([]float64{90, 85, 88, 20, 15, 25})
package testutil
