// Package testutil provides shared helpers for lsmgo tests: a seeded,
// thread-safe random number generator for reproducible randomized
// workloads.
package testutil
