// Package lsmgo provides an embeddable, in-memory log-structured merge
// (LSM) tree index for Go.
//
// The tree absorbs high-velocity writes through an ordered memtable,
// serves point and range reads with bounded latency, and reorganizes
// flushed data through compaction. Every SSTable carries a blocked Bloom
// filter so point reads skip tables that cannot contain the key.
//
// # Quick Start
//
//	tree, _ := lsmgo.New[string, int]()
//
//	_ = tree.Insert("a", 1)
//	_ = tree.Delete("a")
//
//	value, ok, _ := tree.Get("a")   // ok == false: tombstone shadows the insert
//	items, _ := tree.Range("a", "z")
//
// # Write Path
//
// Writes land in the active memtable. When it fills up it is swapped to an
// immutable role, flushed into one level-0 SSTable, and level 0 is
// compacted if it crossed its threshold, synchronously, before the
// triggering write returns.
//
// # Compaction
//
// Three strategies are available via WithCompactionStrategy, trading write,
// read and space amplification against each other:
//
//	lsmgo.Leveled     // merge into the next level, rewrite overlaps (default)
//	lsmgo.SizeTiered  // merge similarly sized runs within a level
//	lsmgo.Tiered      // relocate a full level wholesale, defer merging
//
// All strategies resolve duplicate keys by explicit sequence comparison,
// so physical reorganization never changes the logical contents.
//
// # Scope
//
// The tree is a pure in-memory index: no on-disk format, write-ahead log,
// replication or transaction isolation. A persistence layer can serialize
// SSTable entries and Bloom filter blocks with the encoding of its choice.
package lsmgo
