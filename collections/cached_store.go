// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import (
	"github.com/ava-labs/avalanchego/cache"
)

var _ ByteStore = (*cachedStore)(nil)

// cacheEntry caches both a value and its presence, so repeated misses are as
// cheap as repeated hits.
type cacheEntry struct {
	value  []byte
	exists bool
}

// cachedStore is a read-through decorator keeping recently touched entries
// in an LRU. Writes and removes update the cache in place, so a cachedStore
// is only coherent while it is the sole path to the inner store.
type cachedStore struct {
	inner ByteStore
	cache cache.Cacher
}

// NewCachedStore wraps [inner] with an LRU holding up to [size] entries.
func NewCachedStore(inner ByteStore, size int) ByteStore {
	return &cachedStore{
		inner: inner,
		cache: &cache.LRU{Size: size},
	}
}

func (s *cachedStore) Read(key []byte) ([]byte, bool, error) {
	if entryIntf, found := s.cache.Get(string(key)); found {
		entry := entryIntf.(cacheEntry)
		return entry.value, entry.exists, nil
	}
	value, found, err := s.inner.Read(key)
	if err != nil {
		return nil, false, err
	}
	s.cache.Put(string(key), cacheEntry{value: value, exists: found})
	return value, found, nil
}

func (s *cachedStore) Write(key []byte, value []byte) (bool, error) {
	existed, err := s.inner.Write(key, value)
	if err != nil {
		return false, err
	}
	s.cache.Put(string(key), cacheEntry{value: value, exists: true})
	return existed, nil
}

func (s *cachedStore) Remove(key []byte) ([]byte, bool, error) {
	value, found, err := s.inner.Remove(key)
	if err != nil {
		return nil, false, err
	}
	s.cache.Put(string(key), cacheEntry{})
	return value, found, nil
}

func (s *cachedStore) Has(key []byte) (bool, error) {
	if entryIntf, found := s.cache.Get(string(key)); found {
		return entryIntf.(cacheEntry).exists, nil
	}
	return s.inner.Has(key)
}
