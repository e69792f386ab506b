// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Suffixes deriving the map's three storage regions from its prefix.
const (
	indexSuffix  = 'i'
	keysSuffix   = 'k'
	valuesSuffix = 'v'
)

// Entry is one key-value pair of an UnorderedMap.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

// UnorderedMap is an iterable map of serialized keys to serialized values.
// Keys are not hashed; the serialized key bytes are the lookup identity, so
// two values that serialize identically are the same key.
//
// State is held in three regions under the map's prefix: a keys Vector, an
// index-aligned values Vector, and an index table from serialized key to
// array position. The index table is what makes lookups avoid a linear scan
// of the keys array. Every public operation leaves all three regions
// consistent before returning; there are no half-applied states visible
// across calls.
type UnorderedMap[K any, V any] struct {
	store       ByteStore
	codec       Codec
	indexPrefix []byte
	keys        *Vector[K]
	values      *Vector[V]
}

// NewUnorderedMap returns a handle to the map stored under [prefix]. The
// prefix must be unique within the store's namespace.
func NewUnorderedMap[K any, V any](store ByteStore, prefix []byte, codec Codec) *UnorderedMap[K, V] {
	return &UnorderedMap[K, V]{
		store:       store,
		codec:       codec,
		indexPrefix: append(append([]byte{}, prefix...), indexSuffix),
		keys:        NewVector[K](store, append(append([]byte{}, prefix...), keysSuffix), codec),
		values:      NewVector[V](store, append(append([]byte{}, prefix...), valuesSuffix), codec),
	}
}

// indexLookup returns the index table entry key for serialized key [rawKey].
func (m *UnorderedMap[K, V]) indexLookup(rawKey []byte) []byte {
	return IdentityComposer{}.Compose(m.indexPrefix, rawKey)
}

func serializeIndex(index uint32) []byte {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, index)
	return raw
}

func deserializeIndex(raw []byte) (uint32, error) {
	if len(raw) != 4 {
		return 0, fmt.Errorf("%w: index entry is %d bytes", ErrCorruptedValue, len(raw))
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// Len returns the number of entries in the map.
func (m *UnorderedMap[K, V]) Len() (uint32, error) {
	keysLen, err := m.keys.Len()
	if err != nil {
		return 0, err
	}
	valuesLen, err := m.values.Len()
	if err != nil {
		return 0, err
	}
	if keysLen != valuesLen {
		return 0, fmt.Errorf("%w: %d keys but %d values", ErrInvariantViolation, keysLen, valuesLen)
	}
	return keysLen, nil
}

// IsEmpty returns whether the map contains no entries.
func (m *UnorderedMap[K, V]) IsEmpty() (bool, error) {
	length, err := m.Len()
	return length == 0, err
}

// ContainsKey reports whether [key] is a member of the map.
func (m *UnorderedMap[K, V]) ContainsKey(key K) (bool, error) {
	rawKey, err := m.codec.Marshal(key)
	if err != nil {
		return false, err
	}
	return m.store.Has(m.indexLookup(rawKey))
}

// Get returns the value mapped to [key], if any. One index table read plus
// one array read.
func (m *UnorderedMap[K, V]) Get(key K) (V, bool, error) {
	var zero V
	rawKey, err := m.codec.Marshal(key)
	if err != nil {
		return zero, false, err
	}
	rawIndex, found, err := m.store.Read(m.indexLookup(rawKey))
	if err != nil || !found {
		return zero, false, err
	}
	index, err := deserializeIndex(rawIndex)
	if err != nil {
		return zero, false, err
	}
	value, found, err := m.values.Get(index)
	if err != nil {
		return zero, false, err
	}
	if !found {
		// The index table points past the end of the values array.
		return zero, false, fmt.Errorf("%w: index entry points to vacant slot %d", ErrInvariantViolation, index)
	}
	return value, true, nil
}

// Insert maps [key] to [value]. If the key was already present the value is
// updated in place and the previous value returned; the keys array and the
// index table are untouched in that case.
func (m *UnorderedMap[K, V]) Insert(key K, value V) (V, bool, error) {
	var zero V
	rawKey, err := m.codec.Marshal(key)
	if err != nil {
		return zero, false, err
	}
	lookup := m.indexLookup(rawKey)
	rawIndex, found, err := m.store.Read(lookup)
	if err != nil {
		return zero, false, err
	}

	if found {
		index, err := deserializeIndex(rawIndex)
		if err != nil {
			return zero, false, err
		}
		prev, err := m.values.Replace(index, value)
		if err != nil {
			return zero, false, err
		}
		return prev, true, nil
	}

	// New key: record its index entry at the tail position, then grow both
	// arrays to match.
	next, err := m.Len()
	if err != nil {
		return zero, false, err
	}
	if _, err := m.store.Write(lookup, serializeIndex(next)); err != nil {
		return zero, false, err
	}
	if err := m.keys.Push(key); err != nil {
		return zero, false, err
	}
	if err := m.values.Push(value); err != nil {
		return zero, false, err
	}
	return zero, false, nil
}

// Remove deletes [key] from the map, returning the value it mapped to, if
// any.
//
// Removal swap-removes position i from both arrays, which physically moves
// the tail entry into slot i. The tail key's index entry is therefore
// repointed to i before the swap happens, unless the removed entry is itself
// the tail, in which case nothing moves and no repoint is needed.
func (m *UnorderedMap[K, V]) Remove(key K) (V, bool, error) {
	var zero V
	rawKey, err := m.codec.Marshal(key)
	if err != nil {
		return zero, false, err
	}
	lookup := m.indexLookup(rawKey)
	rawIndex, found, err := m.store.Read(lookup)
	if err != nil || !found {
		return zero, false, err
	}

	length, err := m.Len()
	if err != nil {
		return zero, false, err
	}
	if length == 1 {
		// Swap remove of the only entry removes it without swapping.
		if _, _, err := m.store.Remove(lookup); err != nil {
			return zero, false, err
		}
	} else {
		tailKey, found, err := m.keys.Get(length - 1)
		if err != nil {
			return zero, false, err
		}
		if !found {
			return zero, false, fmt.Errorf("%w: missing tail key at %d", ErrInvariantViolation, length-1)
		}
		if _, _, err := m.store.Remove(lookup); err != nil {
			return zero, false, err
		}

		rawTailKey, err := m.codec.Marshal(tailKey)
		if err != nil {
			return zero, false, err
		}
		// If the removed key was itself the tail, its index entry is already
		// gone and there is nothing to repoint.
		if !bytes.Equal(rawTailKey, rawKey) {
			if _, err := m.store.Write(m.indexLookup(rawTailKey), rawIndex); err != nil {
				return zero, false, err
			}
		}
	}

	index, err := deserializeIndex(rawIndex)
	if err != nil {
		return zero, false, err
	}
	if _, err := m.keys.SwapRemove(index); err != nil {
		return zero, false, err
	}
	value, err := m.values.SwapRemove(index)
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// Clear removes every entry. The current keys are walked to delete their
// index entries first; clearing the arrays alone would leave stale index
// entries behind, corrupting future lookups.
func (m *UnorderedMap[K, V]) Clear() error {
	iter := m.keys.Iterator()
	for iter.Next() {
		rawKey, err := m.codec.Marshal(iter.Value())
		if err != nil {
			return err
		}
		if _, _, err := m.store.Remove(m.indexLookup(rawKey)); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return err
	}
	if err := m.keys.Clear(); err != nil {
		return err
	}
	return m.values.Clear()
}

// Keys returns a fresh traversal over the map's keys in array order.
func (m *UnorderedMap[K, V]) Keys() *Iterator[K] {
	return m.keys.Iterator()
}

// Values returns a fresh traversal over the map's values in array order.
func (m *UnorderedMap[K, V]) Values() *Iterator[V] {
	return m.values.Iterator()
}

// Iterator returns a fresh traversal over the map's entries. Iteration order
// is the arrays' storage order, never key order. Mutating the map while an
// iteration is outstanding is undefined.
func (m *UnorderedMap[K, V]) Iterator() *MapIterator[K, V] {
	return &MapIterator[K, V]{
		keys:   m.keys.Iterator(),
		values: m.values.Iterator(),
	}
}

// Extend inserts each pair in order. This is repeated Insert; there is no
// atomicity across the batch.
func (m *UnorderedMap[K, V]) Extend(pairs []Entry[K, V]) error {
	for _, pair := range pairs {
		if _, _, err := m.Insert(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}
