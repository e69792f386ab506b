// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestMap() *UnorderedMap[uint64, uint64] {
	return NewUnorderedMap[uint64, uint64](newTestStore(), []byte("m"), NewCodec())
}

// checkConsistency asserts that every key the map reports as a member is
// reachable through its index entry and maps to its current value.
func checkConsistency(t *testing.T, m *UnorderedMap[uint64, uint64], oracle map[uint64]uint64) {
	assert := assert.New(t)

	length, err := m.Len()
	assert.NoError(err)
	assert.Equal(uint32(len(oracle)), length)

	got := map[uint64]uint64{}
	iter := m.Iterator()
	for iter.Next() {
		got[iter.Key()] = iter.Value()
	}
	assert.NoError(iter.Error())
	assert.Equal(oracle, got)

	for key, value := range oracle {
		actual, found, err := m.Get(key)
		assert.NoError(err)
		assert.True(found)
		assert.Equal(value, actual)
	}
}

func TestMapInsertGet(t *testing.T) {
	assert := assert.New(t)
	m := newTestMap()

	_, existed, err := m.Insert(1, 100)
	assert.NoError(err)
	assert.False(existed)

	value, found, err := m.Get(1)
	assert.NoError(err)
	assert.True(found)
	assert.Equal(uint64(100), value)

	contains, err := m.ContainsKey(1)
	assert.NoError(err)
	assert.True(contains)

	_, found, err = m.Get(2)
	assert.NoError(err)
	assert.False(found)
}

// Inserting an existing key returns the previous value and does not change
// the length.
func TestMapOverride(t *testing.T) {
	assert := assert.New(t)
	m := newTestMap()

	_, _, err := m.Insert(1, 100)
	assert.NoError(err)

	prev, existed, err := m.Insert(1, 200)
	assert.NoError(err)
	assert.True(existed)
	assert.Equal(uint64(100), prev)

	length, err := m.Len()
	assert.NoError(err)
	assert.Equal(uint32(1), length)

	value, found, err := m.Get(1)
	assert.NoError(err)
	assert.True(found)
	assert.Equal(uint64(200), value)
}

func TestMapRemove(t *testing.T) {
	assert := assert.New(t)
	m := NewUnorderedMap[uint64, string](newTestStore(), []byte("m"), NewCodec())

	for key, value := range map[uint64]string{1: "a", 2: "b", 3: "c"} {
		_, _, err := m.Insert(key, value)
		assert.NoError(err)
	}

	length, err := m.Len()
	assert.NoError(err)
	assert.Equal(uint32(3), length)

	removed, found, err := m.Remove(2)
	assert.NoError(err)
	assert.True(found)
	assert.Equal("b", removed)

	length, err = m.Len()
	assert.NoError(err)
	assert.Equal(uint32(2), length)

	_, found, err = m.Get(2)
	assert.NoError(err)
	assert.False(found)

	got := map[uint64]string{}
	iter := m.Iterator()
	for iter.Next() {
		got[iter.Key()] = iter.Value()
	}
	assert.NoError(iter.Error())
	assert.Equal(map[uint64]string{1: "a", 3: "c"}, got)

	// Removing an absent key is not found, not an error.
	_, found, err = m.Remove(2)
	assert.NoError(err)
	assert.False(found)
}

// Removing the entry currently at the tail index must not leave a dangling
// index entry behind; a reinsert of that key is a fresh insert.
func TestMapRemoveLastReinsert(t *testing.T) {
	assert := assert.New(t)
	m := newTestMap()

	_, _, err := m.Insert(1, 2)
	assert.NoError(err)
	_, _, err = m.Insert(3, 4)
	assert.NoError(err)

	removed, found, err := m.Remove(3)
	assert.NoError(err)
	assert.True(found)
	assert.Equal(uint64(4), removed)

	_, existed, err := m.Insert(3, 4)
	assert.NoError(err)
	assert.False(existed)
}

func TestMapInsertRemoveChurn(t *testing.T) {
	assert := assert.New(t)
	m := newTestMap()
	rng := rand.New(rand.NewSource(1))

	oracle := map[uint64]uint64{}
	var keys []uint64
	for i := 0; i < 100; i++ {
		key := rng.Uint64()
		value := rng.Uint64()
		if _, seen := oracle[key]; !seen {
			keys = append(keys, key)
		}
		oracle[key] = value
		_, _, err := m.Insert(key, value)
		assert.NoError(err)
	}
	checkConsistency(t, m, oracle)

	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, key := range keys {
		removed, found, err := m.Remove(key)
		assert.NoError(err)
		assert.True(found)
		assert.Equal(oracle[key], removed)
		delete(oracle, key)
	}
	checkConsistency(t, m, oracle)

	empty, err := m.IsEmpty()
	assert.NoError(err)
	assert.True(empty)
}

func TestMapInsertOverrideRemoveChurn(t *testing.T) {
	assert := assert.New(t)
	m := newTestMap()
	rng := rand.New(rand.NewSource(2))

	oracle := map[uint64]uint64{}
	var keys []uint64
	for i := 0; i < 100; i++ {
		key := rng.Uint64()
		value := rng.Uint64()
		oracle[key] = value
		keys = append(keys, key)
		_, _, err := m.Insert(key, value)
		assert.NoError(err)
	}
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, key := range keys {
		value := rng.Uint64()
		prev, existed, err := m.Insert(key, value)
		assert.NoError(err)
		assert.True(existed)
		assert.Equal(oracle[key], prev)
		oracle[key] = value
	}
	checkConsistency(t, m, oracle)

	for _, key := range keys {
		removed, found, err := m.Remove(key)
		assert.NoError(err)
		assert.True(found)
		assert.Equal(oracle[key], removed)
		delete(oracle, key)
	}
	assert.Empty(oracle)
}

func TestMapGetNonExistent(t *testing.T) {
	assert := assert.New(t)
	m := newTestMap()
	rng := rand.New(rand.NewSource(3))

	oracle := map[uint64]uint64{}
	for i := 0; i < 500; i++ {
		key := rng.Uint64() % 20_000
		value := rng.Uint64()
		oracle[key] = value
		_, _, err := m.Insert(key, value)
		assert.NoError(err)
	}
	for i := 0; i < 500; i++ {
		key := rng.Uint64() % 20_000
		value, found, err := m.Get(key)
		assert.NoError(err)
		expected, ok := oracle[key]
		assert.Equal(ok, found)
		if ok {
			assert.Equal(expected, value)
		}
	}
}

// Clearing must delete the index entries along with the arrays; clearing
// the arrays alone would leave stale lookups behind.
func TestMapClear(t *testing.T) {
	assert := assert.New(t)
	store := newTestStore()
	codec := NewCodec()
	m := NewUnorderedMap[uint64, uint64](store, []byte("m"), codec)

	keys := []uint64{1, 2, 3, 4, 5}
	for _, key := range keys {
		_, _, err := m.Insert(key, key*10)
		assert.NoError(err)
	}
	assert.NoError(m.Clear())

	length, err := m.Len()
	assert.NoError(err)
	assert.Zero(length)

	iter := m.Iterator()
	assert.False(iter.Next())
	assert.NoError(iter.Error())

	for _, key := range keys {
		_, found, err := m.Get(key)
		assert.NoError(err)
		assert.False(found)

		rawKey, err := codec.Marshal(key)
		assert.NoError(err)
		residue, err := store.Has(m.indexLookup(rawKey))
		assert.NoError(err)
		assert.False(residue)
	}
}

func TestMapKeysValues(t *testing.T) {
	assert := assert.New(t)
	m := newTestMap()

	oracle := map[uint64]uint64{10: 1, 20: 2, 30: 3}
	for key, value := range oracle {
		_, _, err := m.Insert(key, value)
		assert.NoError(err)
	}

	gotKeys := map[uint64]bool{}
	keys := m.Keys()
	for keys.Next() {
		gotKeys[keys.Value()] = true
	}
	assert.NoError(keys.Error())
	assert.Len(gotKeys, len(oracle))

	gotValues := map[uint64]bool{}
	values := m.Values()
	for values.Next() {
		gotValues[values.Value()] = true
	}
	assert.NoError(values.Error())
	for _, value := range oracle {
		assert.True(gotValues[value])
	}
}

func TestMapExtend(t *testing.T) {
	assert := assert.New(t)
	m := newTestMap()

	_, _, err := m.Insert(1, 1)
	assert.NoError(err)

	assert.NoError(m.Extend([]Entry[uint64, uint64]{
		{Key: 1, Value: 100},
		{Key: 2, Value: 200},
		{Key: 3, Value: 300},
	}))

	checkConsistency(t, m, map[uint64]uint64{1: 100, 2: 200, 3: 300})
}

func TestMapRegionLengthMismatch(t *testing.T) {
	assert := assert.New(t)
	m := newTestMap()

	_, _, err := m.Insert(1, 1)
	assert.NoError(err)

	// Corrupt the values region behind the map's back.
	assert.NoError(m.values.Push(99))

	_, err = m.Len()
	assert.ErrorIs(err, ErrInvariantViolation)
}
