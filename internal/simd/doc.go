// Package simd detects CPU SIMD capabilities at init time.
//
// The bloom package uses the detected ISA to pick between its scalar probe
// and the unrolled multi-lane probe. Set LSMGO_SIMD=generic|neon|avx2|avx512
// to override auto-detection (invalid or unavailable values fall back to
// auto-detection).
package simd
