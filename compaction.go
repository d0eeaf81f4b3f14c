package lsmgo

import (
	"maps"
	"slices"

	"github.com/hupe1980/lsmgo/model"
	"github.com/hupe1980/lsmgo/sstable"
)

// CompactionStrategy selects how SSTables are merged and relocated. The
// strategy is chosen once at construction.
//
// The three strategies trade the classic amplification triangle:
//
//   - Leveled bounds read amplification (per-level key ranges stay near
//     disjoint) at the cost of rewriting every overlapping target-level
//     table.
//   - SizeTiered lowers write amplification by only merging similarly
//     sized runs within one level, accepting overlapping ranges there.
//   - Tiered just relocates a full level wholesale, deferring all
//     deduplication; cheapest writes, highest space amplification.
type CompactionStrategy int

const (
	// Leveled merges a level's oldest tables with every overlapping table
	// one level down.
	Leveled CompactionStrategy = iota
	// SizeTiered merges a fixed fan-in of similarly sized tables within
	// the same level.
	SizeTiered
	// Tiered moves an over-capacity level's entire table set down one
	// level, unmerged.
	Tiered
)

// String returns the string representation of a CompactionStrategy.
func (s CompactionStrategy) String() string {
	switch s {
	case Leveled:
		return "leveled"
	case SizeTiered:
		return "size-tiered"
	case Tiered:
		return "tiered"
	default:
		return "unknown"
	}
}

// sizeTieredFanIn is the number of similarly sized tables one size-tiered
// merge consumes.
const sizeTieredFanIn = 4

func (t *Tree[K, V]) compactLeveled(num int) (int, error) {
	if num >= len(t.levels)-1 {
		return 0, nil // max level reached
	}
	src, dst := t.levels[num], t.levels[num+1]

	// Both levels stay locked for the whole merge-and-reinsert: a reader
	// must never observe the taken tables gone from src before their
	// merged replacement is visible in dst.
	src.mu.Lock()
	defer src.mu.Unlock()
	dst.mu.Lock()
	defer dst.mu.Unlock()

	taken := src.takeForCompactionLocked()
	if len(taken) == 0 {
		return 0, nil
	}
	taken = append(taken, dst.takeOverlappingLocked(taken)...)

	// At the deepest level nothing older can hide below, and every
	// overlapping table down there is part of the merge, so tombstones
	// have done their shadowing work and can be collected.
	collectTombstones := num+1 == len(t.levels)-1

	merged, dropped, err := t.mergeTables(taken, collectTombstones)
	if err != nil {
		return 0, err
	}
	if merged != nil {
		dst.addLocked(merged)
	}
	return dropped, nil
}

func (t *Tree[K, V]) compactSizeTiered(num int) (int, error) {
	l := t.levels[num]
	l.mu.Lock()
	defer l.mu.Unlock()

	taken := l.takeSimilarSizedLocked(sizeTieredFanIn)
	if len(taken) == 0 {
		return 0, nil
	}

	merged, dropped, err := t.mergeTables(taken, false)
	if err != nil {
		return 0, err
	}
	if merged != nil {
		l.addLocked(merged)
	}
	return dropped, nil
}

func (t *Tree[K, V]) compactTiered(num int) (int, error) {
	if num >= len(t.levels)-1 {
		return 0, nil
	}
	src, dst := t.levels[num], t.levels[num+1]

	src.mu.Lock()
	defer src.mu.Unlock()

	if src.totalSizeLocked() <= src.maxSize() {
		return 0, nil
	}

	dst.mu.Lock()
	defer dst.mu.Unlock()

	for _, table := range src.takeAllLocked() {
		dst.addLocked(table)
	}
	return 0, nil
}

// mergeTables flattens the given tables into one new SSTable. Duplicate
// keys are resolved by explicit sequence comparison: the highest sequence
// wins regardless of table iteration order. With collectTombstones set,
// tombstones are dropped from the output instead of being carried forward;
// the dropped count covers both collected tombstones and superseded
// duplicates.
//
// A merge that collects every entry away returns a nil table: the data was
// legitimately all deleted.
func (t *Tree[K, V]) mergeTables(tables []*sstable.SSTable[K, V], collectTombstones bool) (*sstable.SSTable[K, V], int, error) {
	if len(tables) == 0 {
		return nil, 0, ErrNoCompactionInput
	}

	merged := make(map[K]model.Entry[V])
	total := 0
	for _, table := range tables {
		for _, kv := range table.Entries() {
			total++
			if cur, ok := merged[kv.Key]; !ok || kv.Entry.Newer(cur) {
				merged[kv.Key] = kv.Entry
			}
		}
	}

	entries := make([]model.KV[K, V], 0, len(merged))
	for _, key := range slices.Sorted(maps.Keys(merged)) {
		entry := merged[key]
		if collectTombstones && entry.Tombstone {
			continue
		}
		entries = append(entries, model.KV[K, V]{Key: key, Entry: entry})
	}

	dropped := total - len(entries)
	if len(entries) == 0 {
		return nil, dropped, nil
	}

	table, err := sstable.Build(entries, t.opts.bloomFilterSize)
	if err != nil {
		return nil, 0, err
	}
	return table, dropped, nil
}
