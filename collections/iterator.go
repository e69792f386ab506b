// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

// Iterator walks a Vector lazily from index 0, in the style of
// database.Iterator: call Next until it returns false, then check Error.
type Iterator[T any] struct {
	vec *Vector[T]

	length      uint32
	initialized bool

	next  uint32
	value T
	err   error
}

// Next advances to the next element, returning whether one was fetched.
// It returns false once the vector is exhausted or an error occurred.
func (it *Iterator[T]) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.initialized {
		it.length, it.err = it.vec.Len()
		if it.err != nil {
			return false
		}
		it.initialized = true
	}
	if it.next >= it.length {
		return false
	}
	it.value, it.err = it.vec.read(it.next)
	if it.err != nil {
		return false
	}
	it.next++
	return true
}

// Value returns the element fetched by the last successful Next.
func (it *Iterator[T]) Value() T {
	return it.value
}

// Error returns the first error encountered, if any.
func (it *Iterator[T]) Error() error {
	return it.err
}

// MapIterator walks the entries of an UnorderedMap in the storage order of
// its underlying arrays: insertion order, perturbed by removals.
type MapIterator[K any, V any] struct {
	keys   *Iterator[K]
	values *Iterator[V]
}

// Next advances to the next entry, returning whether one was fetched.
func (it *MapIterator[K, V]) Next() bool {
	keysNext := it.keys.Next()
	valuesNext := it.values.Next()
	if keysNext != valuesNext && it.keys.err == nil && it.values.err == nil {
		it.keys.err = ErrInvariantViolation
		return false
	}
	return keysNext && valuesNext
}

// Key returns the key fetched by the last successful Next.
func (it *MapIterator[K, V]) Key() K {
	return it.keys.Value()
}

// Value returns the value fetched by the last successful Next.
func (it *MapIterator[K, V]) Value() V {
	return it.values.Value()
}

// Error returns the first error encountered, if any.
func (it *MapIterator[K, V]) Error() error {
	if err := it.keys.Error(); err != nil {
		return err
	}
	return it.values.Error()
}
