package memtable

import (
	"cmp"
	"errors"
	"sync"

	"github.com/google/btree"
	"github.com/hupe1980/lsmgo/model"
)

// ErrFrozen is returned when writing to a memtable that has been swapped to
// its immutable role. Callers retry against the new active table.
var ErrFrozen = errors.New("memtable is frozen")

// DefaultMaxSize is the default write budget (counted in operations, not
// bytes) before a memtable reports itself full.
const DefaultMaxSize = 4096

const btreeDegree = 32

// MemTable is an ordered, mutable buffer of recent writes and tombstones.
// It is the only mutable structure in the tree: writes land here until the
// table fills up, is frozen, and is consumed into one level-0 SSTable.
//
// Keys live in a B-tree for ordered scans and in a map for point lookups.
// All methods are safe for concurrent use.
type MemTable[K cmp.Ordered, V any] struct {
	mu      sync.RWMutex
	tree    *btree.BTreeG[K]
	entries map[K]model.Entry[V]
	size    int
	maxSize int
	frozen  bool
}

// New creates an empty memtable. maxSize values below 1 fall back to
// DefaultMaxSize.
func New[K cmp.Ordered, V any](maxSize int) *MemTable[K, V] {
	if maxSize < 1 {
		maxSize = DefaultMaxSize
	}

	return &MemTable[K, V]{
		tree:    btree.NewG[K](btreeDegree, func(a, b K) bool { return a < b }),
		entries: make(map[K]model.Entry[V]),
		maxSize: maxSize,
	}
}

// Insert records a value write. Every write counts one operation toward the
// size budget, overwrites included.
func (m *MemTable[K, V]) Insert(key K, value V, seq model.Seq) error {
	return m.put(key, model.NewEntry(value, seq))
}

// Delete records a tombstone for key. The key need not exist; the tombstone
// must shadow older values in deeper structures either way.
func (m *MemTable[K, V]) Delete(key K, seq model.Seq) error {
	return m.put(key, model.NewTombstone[V](seq))
}

func (m *MemTable[K, V]) put(key K, entry model.Entry[V]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frozen {
		return ErrFrozen
	}

	// Concurrent writers can reach the table lock out of sequence order;
	// the higher sequence wins, matching resolution everywhere else in
	// the tree.
	if cur, ok := m.entries[key]; !ok || entry.Newer(cur) {
		m.entries[key] = entry
		m.tree.ReplaceOrInsert(key)
	}
	m.size++
	return nil
}

// Get returns the raw entry for key. Tombstones are returned with ok=true
// so the caller can treat them as definitive and stop descending.
func (m *MemTable[K, V]) Get(key K) (model.Entry[V], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	return entry, ok
}

// Scan returns the stored entries with keys in [start, end], in key order,
// tombstones included. No cross-source merging happens here.
func (m *MemTable[K, V]) Scan(start, end K) []model.KV[K, V] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.KV[K, V]
	m.tree.AscendGreaterOrEqual(start, func(key K) bool {
		if key > end {
			return false
		}
		out = append(out, model.KV[K, V]{Key: key, Entry: m.entries[key]})
		return true
	})
	return out
}

// Entries returns a sorted snapshot of all entries, tombstones included.
// Flush uses it to build the level-0 SSTable.
func (m *MemTable[K, V]) Entries() []model.KV[K, V] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.KV[K, V], 0, m.tree.Len())
	m.tree.Ascend(func(key K) bool {
		out = append(out, model.KV[K, V]{Key: key, Entry: m.entries[key]})
		return true
	})
	return out
}

// Freeze makes the table read-only. Freezing is one-way; it happens exactly
// once, when the table is swapped to the immutable slot.
func (m *MemTable[K, V]) Freeze() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frozen = true
}

// IsFull reports whether the size budget is exhausted.
func (m *MemTable[K, V]) IsFull() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size >= m.maxSize
}

// Size returns the number of write operations absorbed, overwrites and
// repeated deletes included.
func (m *MemTable[K, V]) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// Len returns the number of distinct keys, tombstones included.
func (m *MemTable[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Len()
}

// MaxSize returns the configured write budget.
func (m *MemTable[K, V]) MaxSize() int {
	return m.maxSize
}
