// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import (
	"github.com/ava-labs/avalanchego/database"
)

var _ ByteStore = (*databaseStore)(nil)

// ByteStore is the flat, byte-addressed storage primitive every collection is
// built on. The four operations are assumed atomic, synchronous, and free of
// side effects beyond the single key touched.
//
// Absence of a key is the common case and is reported through the boolean
// result, never through an error.
type ByteStore interface {
	// Read returns the value stored under [key], if any.
	Read(key []byte) ([]byte, bool, error)

	// Write stores [value] under [key] and reports whether a prior value
	// existed.
	Write(key []byte, value []byte) (bool, error)

	// Remove deletes the entry under [key] and returns the removed value,
	// if any.
	Remove(key []byte) ([]byte, bool, error)

	// Has reports whether an entry exists under [key].
	Has(key []byte) (bool, error)
}

// databaseStore adapts a database.Database to the ByteStore interface.
type databaseStore struct {
	db database.Database
}

// NewDatabaseStore returns a ByteStore backed by [db]. The adapter owns no
// state of its own, so it is cheap to reconstruct on every invocation.
func NewDatabaseStore(db database.Database) ByteStore {
	return &databaseStore{db: db}
}

func (s *databaseStore) Read(key []byte) ([]byte, bool, error) {
	value, err := s.db.Get(key)
	switch err {
	case nil:
		return value, true, nil
	case database.ErrNotFound:
		return nil, false, nil
	default:
		return nil, false, err
	}
}

func (s *databaseStore) Write(key []byte, value []byte) (bool, error) {
	existed, err := s.db.Has(key)
	if err != nil {
		return false, err
	}
	return existed, s.db.Put(key, value)
}

func (s *databaseStore) Remove(key []byte) ([]byte, bool, error) {
	value, found, err := s.Read(key)
	if err != nil || !found {
		return nil, false, err
	}
	return value, true, s.db.Delete(key)
}

func (s *databaseStore) Has(key []byte) (bool, error) {
	return s.db.Has(key)
}
