// Package model defines the core types shared across lsmgo.
//
// # Versioning Types
//
//   - Seq: Tree-wide monotonic write sequence number
//   - Entry: A versioned write (value or tombstone) for a key
//   - KV: A key paired with its entry
//
// Duplicate-key resolution everywhere in the tree (reads, range scans,
// compaction merges) compares Seq explicitly rather than relying on the
// iteration order of any container.
package model
