package sstable

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/hupe1980/lsmgo/bloom"
	"github.com/hupe1980/lsmgo/internal/keycodec"
	"github.com/hupe1980/lsmgo/model"
)

// ErrNoEntries is returned when building an SSTable from an empty entry
// set. An SSTable is never empty: min/max keys must exist.
var ErrNoEntries = errors.New("sstable: cannot build from empty entry set")

// SSTable is an immutable, sorted, Bloom-indexed run of entries, produced
// by a memtable flush or a compaction merge. Once built it is never
// mutated, so reads need no locking.
type SSTable[K cmp.Ordered, V any] struct {
	id      uuid.UUID
	entries []model.KV[K, V]
	filter  *bloom.BlockedBloomFilter
	minKey  K
	maxKey  K
}

// Build creates an SSTable from a sorted, strictly key-unique entry
// sequence. Every key is inserted into the table's Bloom filter; min/max
// keys come from the first and last entry.
//
// Unsorted input is a caller bug, not a runtime condition, and panics.
func Build[K cmp.Ordered, V any](entries []model.KV[K, V], bloomSize int) (*SSTable[K, V], error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].Key <= entries[i-1].Key {
			panic(fmt.Sprintf("sstable: entries not sorted at index %d", i))
		}
	}

	filter := bloom.New(bloomSize)
	var buf []byte
	for _, kv := range entries {
		buf = keycodec.Append(buf[:0], kv.Key)
		filter.Insert(buf)
	}

	return &SSTable[K, V]{
		id:      uuid.New(),
		entries: entries,
		filter:  filter,
		minKey:  entries[0].Key,
		maxKey:  entries[len(entries)-1].Key,
	}, nil
}

// Get returns the entry for key. The Bloom filter is consulted first: a
// negative answer skips the entries entirely. Tombstones are returned with
// ok=true so callers can treat them as definitive.
func (s *SSTable[K, V]) Get(key K) (model.Entry[V], bool) {
	var zero model.Entry[V]

	if !s.filter.Contains(keycodec.Bytes(key)) {
		return zero, false
	}

	idx, found := slices.BinarySearchFunc(s.entries, key, func(kv model.KV[K, V], k K) int {
		return cmp.Compare(kv.Key, k)
	})
	if !found {
		return zero, false
	}
	return s.entries[idx].Entry, true
}

// Range returns the non-tombstoned entries with keys in [start, end], in
// key order.
func (s *SSTable[K, V]) Range(start, end K) []model.KV[K, V] {
	var out []model.KV[K, V]
	for _, kv := range s.entries {
		if kv.Key < start || kv.Key > end {
			continue
		}
		if kv.Entry.Tombstone {
			continue
		}
		out = append(out, kv)
	}
	return out
}

// Scan returns all entries with keys in [start, end], tombstones included.
// The orchestrator and compaction merges need the tombstones; Range is the
// value-only view.
func (s *SSTable[K, V]) Scan(start, end K) []model.KV[K, V] {
	var out []model.KV[K, V]
	for _, kv := range s.entries {
		if kv.Key < start || kv.Key > end {
			continue
		}
		out = append(out, kv)
	}
	return out
}

// Entries returns the table's backing entry slice. The slice is shared and
// must not be mutated.
func (s *SSTable[K, V]) Entries() []model.KV[K, V] {
	return s.entries
}

// Overlaps reports whether the key ranges of two tables intersect.
func (s *SSTable[K, V]) Overlaps(other *SSTable[K, V]) bool {
	return !(s.maxKey < other.minKey || s.minKey > other.maxKey)
}

// Len returns the number of entries, tombstones included.
func (s *SSTable[K, V]) Len() int {
	return len(s.entries)
}

// Min returns the smallest key in the table.
func (s *SSTable[K, V]) Min() K {
	return s.minKey
}

// Max returns the largest key in the table.
func (s *SSTable[K, V]) Max() K {
	return s.maxKey
}

// ID returns the table's unique identity, used in logs and diagnostics.
func (s *SSTable[K, V]) ID() uuid.UUID {
	return s.id
}

// Filter returns the table's Bloom filter.
func (s *SSTable[K, V]) Filter() *bloom.BlockedBloomFilter {
	return s.filter
}
