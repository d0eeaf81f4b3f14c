package lsmgo

import (
	"testing"

	"github.com/hupe1980/lsmgo/model"
	"github.com/hupe1980/lsmgo/sstable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() options {
	o, err := applyOptions(nil)
	if err != nil {
		panic(err)
	}
	return o
}

func buildTestTable(t *testing.T, kvs ...model.KV[int, string]) *sstable.SSTable[int, string] {
	t.Helper()
	table, err := sstable.Build(kvs, DefaultBloomFilterSize)
	require.NoError(t, err)
	return table
}

func kvPair(key int, value string, seq model.Seq) model.KV[int, string] {
	return model.KV[int, string]{Key: key, Entry: model.NewEntry(value, seq)}
}

func tombPair(key int, seq model.Seq) model.KV[int, string] {
	return model.KV[int, string]{Key: key, Entry: model.NewTombstone[string](seq)}
}

func TestLevel_GetNewestWins(t *testing.T) {
	l := newLevel[int, string](0, testOptions())

	// Overlapping tables: same key with different sequences.
	l.add(buildTestTable(t, kvPair(1, "old", 1), kvPair(2, "two", 2)))
	l.add(buildTestTable(t, kvPair(1, "new", 5)))

	entry, ok := l.get(1)
	require.True(t, ok)
	assert.Equal(t, "new", entry.Value)

	entry, ok = l.get(2)
	require.True(t, ok)
	assert.Equal(t, "two", entry.Value)

	_, ok = l.get(3)
	assert.False(t, ok)
}

func TestLevel_NeedsCompaction(t *testing.T) {
	o := testOptions()
	o.compactionThreshold = 2
	l := newLevel[int, string](0, o)

	assert.False(t, l.needsCompaction())
	l.add(buildTestTable(t, kvPair(1, "a", 1)))
	assert.False(t, l.needsCompaction())
	l.add(buildTestTable(t, kvPair(2, "b", 2)))
	assert.True(t, l.needsCompaction())
}

func TestLevel_MaxSize(t *testing.T) {
	o := testOptions()
	o.memtableSize = 100
	o.levelSizeMultiplier = 10

	assert.Equal(t, 100, newLevel[int, string](0, o).maxSize())
	assert.Equal(t, 1000, newLevel[int, string](1, o).maxSize())
	assert.Equal(t, 100000, newLevel[int, string](3, o).maxSize())
}

func TestLevel_TakeForCompaction(t *testing.T) {
	o := testOptions()
	o.compactionThreshold = 2
	l := newLevel[int, string](0, o)

	oldest := buildTestTable(t, kvPair(1, "a", 1))
	l.add(oldest)
	l.add(buildTestTable(t, kvPair(2, "b", 2)))
	l.add(buildTestTable(t, kvPair(3, "c", 3)))

	l.mu.Lock()
	taken := l.takeForCompactionLocked()
	l.mu.Unlock()

	require.Len(t, taken, 2)
	assert.Same(t, oldest, taken[0], "oldest tables go first")
	assert.Equal(t, 1, l.stats().NumSSTables)
}

func TestLevel_TakeOverlapping(t *testing.T) {
	l := newLevel[int, string](1, testOptions())

	inRange := buildTestTable(t, kvPair(5, "a", 1), kvPair(15, "b", 2))
	outOfRange := buildTestTable(t, kvPair(100, "c", 3), kvPair(200, "d", 4))
	l.add(inRange)
	l.add(outOfRange)

	probe := buildTestTable(t, kvPair(10, "x", 5), kvPair(20, "y", 6))

	l.mu.Lock()
	taken := l.takeOverlappingLocked([]*sstable.SSTable[int, string]{probe})
	l.mu.Unlock()

	require.Len(t, taken, 1)
	assert.Same(t, inRange, taken[0])
	assert.Equal(t, 1, l.stats().NumSSTables)
}

func TestLevel_TakeSimilarSized(t *testing.T) {
	l := newLevel[int, string](0, testOptions())

	// Too few tables: nothing taken.
	l.add(buildTestTable(t, kvPair(1, "a", 1)))
	l.mu.Lock()
	assert.Nil(t, l.takeSimilarSizedLocked(4))
	l.mu.Unlock()

	l.add(buildTestTable(t, kvPair(2, "b", 2)))
	l.add(buildTestTable(t, kvPair(3, "c", 3), kvPair(4, "d", 4)))
	l.add(buildTestTable(t, kvPair(5, "e", 5), kvPair(6, "f", 6), kvPair(7, "g", 7)))

	l.mu.Lock()
	taken := l.takeSimilarSizedLocked(4)
	l.mu.Unlock()

	require.Len(t, taken, 4)
	assert.Equal(t, 0, l.stats().NumSSTables)
}

func TestLevel_TakeAll(t *testing.T) {
	l := newLevel[int, string](0, testOptions())
	l.add(buildTestTable(t, kvPair(1, "a", 1)))
	l.add(buildTestTable(t, kvPair(2, "b", 2)))

	l.mu.Lock()
	taken := l.takeAllLocked()
	l.mu.Unlock()

	assert.Len(t, taken, 2)
	assert.Equal(t, 0, l.stats().NumSSTables)
	assert.Equal(t, 0, l.totalSize())
}

func TestLevel_ScanIncludesAllTables(t *testing.T) {
	l := newLevel[int, string](0, testOptions())
	l.add(buildTestTable(t, kvPair(1, "a", 1), kvPair(3, "c", 2)))
	l.add(buildTestTable(t, kvPair(2, "b", 3)))

	kvs := l.scan(1, 3)
	assert.Len(t, kvs, 3)
}
