package memtable

import (
	"testing"

	"github.com/hupe1980/lsmgo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemTable_InsertAndGet(t *testing.T) {
	m := New[int, string](16)

	require.NoError(t, m.Insert(1, "one", 1))

	entry, ok := m.Get(1)
	assert.True(t, ok)
	assert.False(t, entry.Tombstone)
	assert.Equal(t, "one", entry.Value)
	assert.Equal(t, model.Seq(1), entry.Seq)

	_, ok = m.Get(999)
	assert.False(t, ok)
}

func TestMemTable_Overwrite(t *testing.T) {
	m := New[int, string](16)

	require.NoError(t, m.Insert(1, "old", 1))
	require.NoError(t, m.Insert(1, "new", 2))

	entry, ok := m.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "new", entry.Value)

	// Overwrites count toward the size budget but not toward Len.
	assert.Equal(t, 2, m.Size())
	assert.Equal(t, 1, m.Len())
}

func TestMemTable_Delete(t *testing.T) {
	m := New[int, string](16)

	require.NoError(t, m.Insert(1, "one", 1))
	require.NoError(t, m.Delete(1, 2))

	entry, ok := m.Get(1)
	assert.True(t, ok)
	assert.True(t, entry.Tombstone)

	// Deleting an absent key still creates a tombstone.
	require.NoError(t, m.Delete(7, 3))
	entry, ok = m.Get(7)
	assert.True(t, ok)
	assert.True(t, entry.Tombstone)
}

func TestMemTable_Scan(t *testing.T) {
	m := New[int, string](16)

	for i, k := range []int{5, 1, 3, 9, 7} {
		require.NoError(t, m.Insert(k, "v", model.Seq(i+1)))
	}
	require.NoError(t, m.Delete(7, 6))

	kvs := m.Scan(3, 7)
	require.Len(t, kvs, 3)
	assert.Equal(t, 3, kvs[0].Key)
	assert.Equal(t, 5, kvs[1].Key)
	assert.Equal(t, 7, kvs[2].Key)
	assert.True(t, kvs[2].Entry.Tombstone)
}

func TestMemTable_EntriesSorted(t *testing.T) {
	m := New[string, int](16)

	require.NoError(t, m.Insert("c", 3, 1))
	require.NoError(t, m.Insert("a", 1, 2))
	require.NoError(t, m.Insert("b", 2, 3))

	kvs := m.Entries()
	require.Len(t, kvs, 3)
	assert.Equal(t, "a", kvs[0].Key)
	assert.Equal(t, "b", kvs[1].Key)
	assert.Equal(t, "c", kvs[2].Key)
}

func TestMemTable_Full(t *testing.T) {
	m := New[int, string](2)

	assert.False(t, m.IsFull())
	require.NoError(t, m.Insert(1, "a", 1))
	require.NoError(t, m.Insert(1, "b", 2))
	assert.True(t, m.IsFull())
}

func TestMemTable_Freeze(t *testing.T) {
	m := New[int, string](16)

	require.NoError(t, m.Insert(1, "one", 1))
	m.Freeze()

	assert.ErrorIs(t, m.Insert(2, "two", 2), ErrFrozen)
	assert.ErrorIs(t, m.Delete(1, 3), ErrFrozen)

	// Reads still work after freeze.
	entry, ok := m.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "one", entry.Value)
}

func TestMemTable_DefaultMaxSize(t *testing.T) {
	m := New[int, int](0)
	assert.Equal(t, DefaultMaxSize, m.MaxSize())
}
