// Package bloom implements a blocked Bloom filter.
//
// A classic Bloom filter scatters its k probe bits uniformly over one large
// bit array, costing up to k cache misses per lookup. The blocked variant
// confines each probe to a 64-byte block, trading a small increase in false
// positives for a large constant-factor speedup on membership tests.
//
// Two probe implementations exist: a scalar path with early exit, and an
// unrolled multi-lane path selected at construction when the CPU reports a
// usable SIMD ISA (see internal/simd). Both paths make identical
// accept/reject decisions.
package bloom
