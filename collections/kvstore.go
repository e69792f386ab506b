// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import (
	"fmt"
)

// KvStore is a stateless wrapper giving direct keyed access to a ByteStore.
// Each operation is a single composed-key storage access; there is no index
// or array machinery, no persisted length, and no iteration. Use an
// UnorderedMap when iteration is required.
//
// The slot for a key is derived from its serialized bytes, so any two values
// that serialize identically address the same slot. Callers performing
// lookups with a borrowed or alternate form of the key type must guarantee
// it serializes exactly like the owned form; this layer does not verify it.
type KvStore[K any, V any] struct {
	store    ByteStore
	codec    Codec
	composer KeyComposer
	prefix   []byte
}

// NewKvStore returns a handle to the store under [prefix] using identity key
// composition. The prefix must be unique within the store's namespace.
func NewKvStore[K any, V any](store ByteStore, prefix []byte, codec Codec) *KvStore[K, V] {
	return NewKvStoreWithComposer[K, V](store, prefix, codec, IdentityComposer{})
}

// NewKvStoreWithComposer returns a handle composing slot keys with
// [composer], typically Sha256Composer to bound physical key length.
func NewKvStoreWithComposer[K any, V any](store ByteStore, prefix []byte, codec Codec, composer KeyComposer) *KvStore[K, V] {
	return &KvStore[K, V]{
		store:    store,
		codec:    codec,
		composer: composer,
		prefix:   prefix,
	}
}

func (s *KvStore[K, V]) slotKey(key K) ([]byte, error) {
	rawKey, err := s.codec.Marshal(key)
	if err != nil {
		return nil, err
	}
	return s.composer.Compose(s.prefix, rawKey), nil
}

// Insert stores [value] under [key], reporting whether a prior value existed
// and was overwritten.
func (s *KvStore[K, V]) Insert(key K, value V) (bool, error) {
	slot, err := s.slotKey(key)
	if err != nil {
		return false, err
	}
	rawValue, err := s.codec.Marshal(value)
	if err != nil {
		return false, err
	}
	return s.store.Write(slot, rawValue)
}

// Get returns the value stored under [key], if any.
func (s *KvStore[K, V]) Get(key K) (V, bool, error) {
	var zero V
	slot, err := s.slotKey(key)
	if err != nil {
		return zero, false, err
	}
	raw, found, err := s.store.Read(slot)
	if err != nil || !found {
		return zero, false, err
	}
	var value V
	if err := s.codec.Unmarshal(raw, &value); err != nil {
		return zero, false, fmt.Errorf("%w: %s", ErrCorruptedValue, err)
	}
	return value, true, nil
}

// ContainsKey reports whether a value is stored under [key].
func (s *KvStore[K, V]) ContainsKey(key K) (bool, error) {
	slot, err := s.slotKey(key)
	if err != nil {
		return false, err
	}
	return s.store.Has(slot)
}

// Remove deletes the value stored under [key], returning it if it existed.
func (s *KvStore[K, V]) Remove(key K) (V, bool, error) {
	var zero V
	slot, err := s.slotKey(key)
	if err != nil {
		return zero, false, err
	}
	raw, found, err := s.store.Remove(slot)
	if err != nil || !found {
		return zero, false, err
	}
	var value V
	if err := s.codec.Unmarshal(raw, &value); err != nil {
		return zero, false, fmt.Errorf("%w: %s", ErrCorruptedValue, err)
	}
	return value, true, nil
}
