package lsmgo

import (
	"cmp"
	"errors"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/lsmgo/memtable"
	"github.com/hupe1980/lsmgo/model"
	"github.com/hupe1980/lsmgo/sstable"
)

// Item is a key/value pair returned by Range.
type Item[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// Stats is a point-in-time snapshot of the tree's shape.
type Stats struct {
	MemtableSize int
	NumLevels    int
	LevelStats   []LevelStats
}

// LevelStats describes one level of the hierarchy.
type LevelStats struct {
	Level       int
	NumSSTables int
	TotalSize   int
}

// Tree is a log-structured merge tree index: an ordered key/value store
// that absorbs writes in a memtable and reorganizes flushed data through
// background-style compaction, run synchronously on the triggering call.
//
// Writes land in the active memtable. Once it fills up, it is swapped to
// the immutable slot, flushed into one level-0 SSTable, and level 0 is
// compacted if it crossed its threshold, all before the triggering write
// returns. Reads consult the active memtable, the immutable memtable, then
// levels 0..N; the first definitive answer (value or tombstone) wins.
//
// All methods are safe for concurrent use. There is no cross-key atomicity
// or snapshot isolation: a range scan concurrent with writes or compaction
// may observe a mix of old and new state across different keys.
type Tree[K cmp.Ordered, V any] struct {
	mu        sync.Mutex // guards active/immutable; hosts flushCond
	flushCond *sync.Cond
	active    *memtable.MemTable[K, V]
	immutable *memtable.MemTable[K, V]

	levels []*level[K, V]
	seq    atomic.Uint64

	opts    options
	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty tree. Configuration errors return ErrInvalidConfig.
func New[K cmp.Ordered, V any](optFns ...Option) (*Tree[K, V], error) {
	o, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	levels := make([]*level[K, V], o.maxLevels)
	for i := range levels {
		levels[i] = newLevel[K, V](i, o)
	}

	t := &Tree[K, V]{
		active:  memtable.New[K, V](o.memtableSize),
		levels:  levels,
		opts:    o,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}
	t.flushCond = sync.NewCond(&t.mu)
	return t, nil
}

// Insert records a value for key. If the active memtable is full, the
// flush (and any compaction it triggers) completes before the write does.
func (t *Tree[K, V]) Insert(key K, value V) error {
	start := time.Now()
	err := t.apply(func(m *memtable.MemTable[K, V], seq model.Seq) error {
		return m.Insert(key, value, seq)
	})
	t.metrics.RecordInsert(time.Since(start), err)
	return err
}

// Delete records a tombstone for key. The key need not exist; the
// tombstone shadows any older value in deeper structures until compaction
// collects it.
func (t *Tree[K, V]) Delete(key K) error {
	start := time.Now()
	err := t.apply(func(m *memtable.MemTable[K, V], seq model.Seq) error {
		return m.Delete(key, seq)
	})
	t.metrics.RecordDelete(time.Since(start), err)
	return err
}

// apply routes one write into the active memtable, forcing a flush first
// when it is full. Losing a race against a concurrent swap (frozen table)
// just means retrying against the new active table.
func (t *Tree[K, V]) apply(put func(m *memtable.MemTable[K, V], seq model.Seq) error) error {
	for {
		t.mu.Lock()
		m := t.active
		t.mu.Unlock()

		if m.IsFull() {
			if err := t.flush(m); err != nil {
				return err
			}
			continue
		}

		seq := model.Seq(t.seq.Add(1))
		err := put(m, seq)
		if errors.Is(err, memtable.ErrFrozen) {
			continue
		}
		return err
	}
}

// Get returns the live value for key. A tombstone anywhere shallow enough
// is definitive: the lookup stops without consulting deeper levels.
func (t *Tree[K, V]) Get(key K) (V, bool, error) {
	start := time.Now()
	value, ok := t.get(key)
	t.metrics.RecordGet(time.Since(start), ok, nil)
	return value, ok, nil
}

func (t *Tree[K, V]) get(key K) (V, bool) {
	var zero V

	// Memtables first, levels after: data a concurrent flush moves out of
	// a memtable reappears at level 0 before the slot is cleared, so the
	// descent can never miss it.
	t.mu.Lock()
	active, immutable := t.active, t.immutable
	t.mu.Unlock()

	if entry, ok := active.Get(key); ok {
		return t.liveValue(entry)
	}
	if immutable != nil {
		if entry, ok := immutable.Get(key); ok {
			return t.liveValue(entry)
		}
	}
	for _, l := range t.levels {
		if entry, ok := l.get(key); ok {
			return t.liveValue(entry)
		}
	}
	return zero, false
}

func (t *Tree[K, V]) liveValue(entry model.Entry[V]) (V, bool) {
	var zero V
	if entry.Tombstone {
		return zero, false
	}
	return entry.Value, true
}

// Range returns the live entries with keys in [start, end], in key order.
// Candidates from every source are resolved per key by sequence number;
// tombstones suppress anything older they shadow.
func (t *Tree[K, V]) Range(start, end K) ([]Item[K, V], error) {
	began := time.Now()
	items, err := t.scan(start, end)
	t.metrics.RecordRange(time.Since(began), len(items), err)
	return items, err
}

func (t *Tree[K, V]) scan(start, end K) ([]Item[K, V], error) {
	if start > end {
		return nil, ErrInvalidRange
	}

	resolved := make(map[K]model.Entry[V])
	overlay := func(kvs []model.KV[K, V]) {
		for _, kv := range kvs {
			if cur, ok := resolved[kv.Key]; !ok || kv.Entry.Newer(cur) {
				resolved[kv.Key] = kv.Entry
			}
		}
	}

	// Same ordering rule as get: memtables before levels.
	t.mu.Lock()
	active, immutable := t.active, t.immutable
	t.mu.Unlock()

	overlay(active.Scan(start, end))
	if immutable != nil {
		overlay(immutable.Scan(start, end))
	}
	for _, l := range t.levels {
		overlay(l.scan(start, end))
	}

	items := make([]Item[K, V], 0, len(resolved))
	for _, key := range slices.Sorted(maps.Keys(resolved)) {
		if entry := resolved[key]; !entry.Tombstone {
			items = append(items, Item[K, V]{Key: key, Value: entry.Value})
		}
	}
	return items, nil
}

// Flush forces the active memtable into a level-0 SSTable. An empty
// memtable is a no-op.
func (t *Tree[K, V]) Flush() error {
	t.mu.Lock()
	m := t.active
	t.mu.Unlock()

	if m.Size() == 0 {
		return nil
	}
	return t.flush(m)
}

// flush swaps full out of the active role and drains it to level 0. The
// immutable slot holds at most one table; a second flusher waits on the
// condition variable until the slot is free.
func (t *Tree[K, V]) flush(full *memtable.MemTable[K, V]) error {
	t.mu.Lock()
	for {
		if t.active != full {
			// Another writer already swapped this table out.
			t.mu.Unlock()
			return nil
		}
		if t.immutable == nil {
			break
		}
		t.flushCond.Wait()
	}

	full.Freeze()
	t.immutable = full
	t.active = memtable.New[K, V](t.opts.memtableSize)
	t.mu.Unlock()

	return t.drainImmutable()
}

// drainImmutable consumes the immutable memtable into one level-0 SSTable
// and triggers compaction when level 0 crosses its threshold. Only the
// flusher that installed the immutable table gets here, so there is
// exactly one consumer.
func (t *Tree[K, V]) drainImmutable() error {
	start := time.Now()

	t.mu.Lock()
	imm := t.immutable
	t.mu.Unlock()
	if imm == nil {
		return nil
	}

	entries := imm.Entries()
	table, err := sstable.Build(entries, t.opts.bloomFilterSize)
	if err != nil {
		t.logger.LogFlush(uuid.Nil, len(entries), time.Since(start), err)
		t.metrics.RecordFlush(time.Since(start), 0, err)
		return err
	}
	t.levels[0].add(table)

	// The table is visible at level 0 now; release the slot. Briefly both
	// the immutable table and the new SSTable answer for the same keys,
	// which is harmless.
	t.mu.Lock()
	t.immutable = nil
	t.flushCond.Broadcast()
	t.mu.Unlock()

	t.logger.LogFlush(table.ID(), len(entries), time.Since(start), nil)
	t.metrics.RecordFlush(time.Since(start), len(entries), nil)

	if t.levels[0].needsCompaction() {
		return t.Compact(0)
	}
	return nil
}

// Compact runs the configured strategy against the given level. It is
// invoked automatically when a flush pushes level 0 past the compaction
// threshold, and may be called directly to compact deeper levels.
func (t *Tree[K, V]) Compact(num int) error {
	if num < 0 || num >= len(t.levels) {
		return &ErrInvalidLevel{Level: num, MaxLevels: len(t.levels)}
	}

	start := time.Now()
	inputs := t.levels[num].stats().NumSSTables

	var (
		dropped int
		err     error
	)
	switch t.opts.strategy {
	case Leveled:
		dropped, err = t.compactLeveled(num)
	case SizeTiered:
		dropped, err = t.compactSizeTiered(num)
	case Tiered:
		dropped, err = t.compactTiered(num)
	}

	t.logger.LogCompaction(t.opts.strategy, num, inputs, dropped, time.Since(start), err)
	t.metrics.RecordCompaction(num, time.Since(start), dropped, err)
	return err
}

// Strategy returns the compaction strategy the tree was built with.
func (t *Tree[K, V]) Strategy() CompactionStrategy {
	return t.opts.strategy
}

// Stats returns a snapshot of the tree's shape: active memtable fill and
// per-level table counts and sizes.
func (t *Tree[K, V]) Stats() Stats {
	t.mu.Lock()
	active := t.active
	t.mu.Unlock()

	levelStats := make([]LevelStats, len(t.levels))
	for i, l := range t.levels {
		levelStats[i] = l.stats()
	}

	return Stats{
		MemtableSize: active.Size(),
		NumLevels:    len(t.levels),
		LevelStats:   levelStats,
	}
}
