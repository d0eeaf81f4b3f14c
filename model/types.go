package model

import (
	"cmp"
	"fmt"
)

// Seq is a write sequence number. Sequence numbers are allocated from a
// single tree-wide counter and strictly increase across all writes, so
// comparing the Seq of two entries for the same key always identifies the
// more recent one, regardless of where in the tree the entries live.
type Seq uint64

// Entry is a single versioned write for a key: either a value or a
// tombstone. A tombstone carries the zero value of V and logically deletes
// the key; it must shadow any older value until compaction drops it.
type Entry[V any] struct {
	Value     V
	Tombstone bool
	Seq       Seq
}

// NewEntry returns a value entry with the given sequence number.
func NewEntry[V any](value V, seq Seq) Entry[V] {
	return Entry[V]{Value: value, Seq: seq}
}

// NewTombstone returns a tombstone entry with the given sequence number.
func NewTombstone[V any](seq Seq) Entry[V] {
	return Entry[V]{Tombstone: true, Seq: seq}
}

// Newer reports whether e is a more recent write than other.
func (e Entry[V]) Newer(other Entry[V]) bool {
	return e.Seq > other.Seq
}

// String returns a string representation of the Entry.
func (e Entry[V]) String() string {
	if e.Tombstone {
		return fmt.Sprintf("Entry(tombstone, seq=%d)", e.Seq)
	}
	return fmt.Sprintf("Entry(%v, seq=%d)", e.Value, e.Seq)
}

// KV pairs a key with its entry. It is the unit memtables emit and
// SSTables store.
type KV[K cmp.Ordered, V any] struct {
	Key   K
	Entry Entry[V]
}
