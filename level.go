package lsmgo

import (
	"cmp"
	"slices"
	"sync"

	"github.com/hupe1980/lsmgo/model"
	"github.com/hupe1980/lsmgo/sstable"
)

// level is one depth of the SSTable hierarchy. Each level guards its own
// table vector with a reader/writer lock, so readers of one level are never
// blocked by writers of another.
//
// Tables carry no intra-level ordering; reads scan all of them and resolve
// overlapping keys by sequence number. The take* methods remove and return
// tables under an externally held write lock: compaction keeps both the
// source and destination level locked for the whole merge-and-reinsert so
// no reader can observe taken-but-unreinserted data.
type level[K cmp.Ordered, V any] struct {
	mu       sync.RWMutex
	num      int
	sstables []*sstable.SSTable[K, V]

	memtableSize        int
	levelSizeMultiplier int
	compactionThreshold int
}

func newLevel[K cmp.Ordered, V any](num int, o options) *level[K, V] {
	return &level[K, V]{
		num:                 num,
		memtableSize:        o.memtableSize,
		levelSizeMultiplier: o.levelSizeMultiplier,
		compactionThreshold: o.compactionThreshold,
	}
}

// add appends a table. Append order doubles as age order: flushes and
// compaction outputs always arrive newest-last.
func (l *level[K, V]) add(t *sstable.SSTable[K, V]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addLocked(t)
}

func (l *level[K, V]) addLocked(t *sstable.SSTable[K, V]) {
	l.sstables = append(l.sstables, t)
}

// get scans every table and returns the highest-sequence entry for key.
// Tables within a level may overlap (level 0 always does), so the first
// Bloom-positive hit is not necessarily the most recent write.
func (l *level[K, V]) get(key K) (model.Entry[V], bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var best model.Entry[V]
	var found bool
	for _, t := range l.sstables {
		if entry, ok := t.Get(key); ok && (!found || entry.Newer(best)) {
			best = entry
			found = true
		}
	}
	return best, found
}

// scan returns all entries in [start, end] from all tables, tombstones
// included. Keys appearing in multiple tables are returned multiple times;
// the caller resolves duplicates by sequence number.
func (l *level[K, V]) scan(start, end K) []model.KV[K, V] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.KV[K, V]
	for _, t := range l.sstables {
		out = append(out, t.Scan(start, end)...)
	}
	return out
}

func (l *level[K, V]) needsCompaction() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sstables) >= l.compactionThreshold
}

// totalSize is the entry count across all tables, the unit level capacities
// are measured in.
func (l *level[K, V]) totalSize() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalSizeLocked()
}

func (l *level[K, V]) totalSizeLocked() int {
	size := 0
	for _, t := range l.sstables {
		size += t.Len()
	}
	return size
}

// maxSize is the level's capacity: memtableSize * multiplier^level.
func (l *level[K, V]) maxSize() int {
	size := l.memtableSize
	for i := 0; i < l.num; i++ {
		size *= l.levelSizeMultiplier
	}
	return size
}

func (l *level[K, V]) stats() LevelStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return LevelStats{
		Level:       l.num,
		NumSSTables: len(l.sstables),
		TotalSize:   l.totalSizeLocked(),
	}
}

// takeForCompactionLocked removes and returns up to compactionThreshold of
// the oldest tables. Caller holds the write lock and must reinsert the
// merge result; dropping a taken set loses data.
func (l *level[K, V]) takeForCompactionLocked() []*sstable.SSTable[K, V] {
	count := min(l.compactionThreshold, len(l.sstables))
	taken := slices.Clone(l.sstables[:count])
	l.sstables = slices.Delete(l.sstables, 0, count)
	return taken
}

// takeOverlappingLocked removes and returns every table whose key range
// intersects any of the given tables.
func (l *level[K, V]) takeOverlappingLocked(tables []*sstable.SSTable[K, V]) []*sstable.SSTable[K, V] {
	var taken, remaining []*sstable.SSTable[K, V]
	for _, candidate := range l.sstables {
		overlaps := false
		for _, t := range tables {
			if t.Overlaps(candidate) {
				overlaps = true
				break
			}
		}
		if overlaps {
			taken = append(taken, candidate)
		} else {
			remaining = append(remaining, candidate)
		}
	}
	l.sstables = remaining
	return taken
}

// takeSimilarSizedLocked removes and returns count tables of similar size:
// the middle window after sorting by entry count. Returns nil when the
// level holds fewer than count tables.
func (l *level[K, V]) takeSimilarSizedLocked(count int) []*sstable.SSTable[K, V] {
	if len(l.sstables) < count {
		return nil
	}

	slices.SortStableFunc(l.sstables, func(a, b *sstable.SSTable[K, V]) int {
		return cmp.Compare(a.Len(), b.Len())
	})

	mid := len(l.sstables) / 2
	start := max(mid-count/2, 0)
	end := min(start+count, len(l.sstables))

	taken := slices.Clone(l.sstables[start:end])
	l.sstables = slices.Delete(l.sstables, start, end)
	return taken
}

// takeAllLocked removes and returns every table in the level.
func (l *level[K, V]) takeAllLocked() []*sstable.SSTable[K, V] {
	taken := l.sstables
	l.sstables = nil
	return taken
}
