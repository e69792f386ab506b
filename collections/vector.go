// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import (
	"encoding/binary"
	"fmt"
)

// lenSuffix is a single byte, so the length entry can never collide with an
// element entry, which always has a 4 byte index appended to the prefix.
const lenSuffix = 'l'

// Vector is a growable array of serialized elements stored on a ByteStore.
// Element i lives under prefix ++ little-endian-u32(i) and occupied indices
// always form the contiguous range [0, len). The length is persisted under
// its own key so it never has to be recovered by probing for holes.
//
// The handle holds no cached data; every operation goes through to the
// store, so a Vector is cheap to reconstruct on each invocation.
type Vector[T any] struct {
	store  ByteStore
	codec  Codec
	prefix []byte
}

// NewVector returns a handle to the vector stored under [prefix]. The prefix
// must be unique within the store's namespace.
func NewVector[T any](store ByteStore, prefix []byte, codec Codec) *Vector[T] {
	return &Vector[T]{
		store:  store,
		codec:  codec,
		prefix: prefix,
	}
}

func (v *Vector[T]) elementKey(index uint32) []byte {
	key := make([]byte, len(v.prefix)+4)
	copy(key, v.prefix)
	binary.LittleEndian.PutUint32(key[len(v.prefix):], index)
	return key
}

func (v *Vector[T]) lenKey() []byte {
	key := make([]byte, 0, len(v.prefix)+1)
	key = append(key, v.prefix...)
	return append(key, lenSuffix)
}

// Len returns the number of elements in the vector.
func (v *Vector[T]) Len() (uint32, error) {
	raw, found, err := v.store.Read(v.lenKey())
	if err != nil || !found {
		return 0, err
	}
	if len(raw) != 4 {
		return 0, fmt.Errorf("%w: length entry is %d bytes", ErrCorruptedValue, len(raw))
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// IsEmpty returns whether the vector contains no elements.
func (v *Vector[T]) IsEmpty() (bool, error) {
	length, err := v.Len()
	return length == 0, err
}

func (v *Vector[T]) setLen(length uint32) error {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, length)
	_, err := v.store.Write(v.lenKey(), raw)
	return err
}

// Get returns the element at [index], or found == false if the index is at
// or beyond the current length. A slot that is missing below the length, or
// holds bytes that fail to decode, is storage corruption and is returned as
// an error.
func (v *Vector[T]) Get(index uint32) (T, bool, error) {
	var zero T
	length, err := v.Len()
	if err != nil {
		return zero, false, err
	}
	if index >= length {
		return zero, false, nil
	}
	el, err := v.read(index)
	return el, err == nil, err
}

// read fetches and decodes the element at [index], which must be < len.
func (v *Vector[T]) read(index uint32) (T, error) {
	var el T
	raw, found, err := v.store.Read(v.elementKey(index))
	if err != nil {
		return el, err
	}
	if !found {
		return el, fmt.Errorf("%w: missing element at index %d", ErrInvariantViolation, index)
	}
	if err := v.codec.Unmarshal(raw, &el); err != nil {
		return el, fmt.Errorf("%w: element at index %d: %s", ErrCorruptedValue, index, err)
	}
	return el, nil
}

// Push appends [el] at the tail of the vector.
func (v *Vector[T]) Push(el T) error {
	length, err := v.Len()
	if err != nil {
		return err
	}
	raw, err := v.codec.Marshal(el)
	if err != nil {
		return err
	}
	if _, err := v.store.Write(v.elementKey(length), raw); err != nil {
		return err
	}
	return v.setLen(length + 1)
}

// Replace overwrites the element at [index] and returns the previous
// element. Unlike Get, an out of range index is an error.
func (v *Vector[T]) Replace(index uint32, el T) (T, error) {
	var zero T
	length, err := v.Len()
	if err != nil {
		return zero, err
	}
	if index >= length {
		return zero, fmt.Errorf("%w: replace at %d with length %d", ErrIndexOutOfRange, index, length)
	}
	prev, err := v.read(index)
	if err != nil {
		return zero, err
	}
	raw, err := v.codec.Marshal(el)
	if err != nil {
		return zero, err
	}
	if _, err := v.store.Write(v.elementKey(index), raw); err != nil {
		return zero, err
	}
	return prev, nil
}

// SwapRemove removes the element at [index] by moving the tail element into
// its slot, returning the removed element. Element order is not preserved;
// callers that need ordering must not use SwapRemove.
func (v *Vector[T]) SwapRemove(index uint32) (T, error) {
	var zero T
	length, err := v.Len()
	if err != nil {
		return zero, err
	}
	if index >= length {
		return zero, fmt.Errorf("%w: swap remove at %d with length %d", ErrIndexOutOfRange, index, length)
	}
	removed, err := v.read(index)
	if err != nil {
		return zero, err
	}

	tail := length - 1
	if index != tail {
		tailRaw, found, err := v.store.Read(v.elementKey(tail))
		if err != nil {
			return zero, err
		}
		if !found {
			return zero, fmt.Errorf("%w: missing element at index %d", ErrInvariantViolation, tail)
		}
		if _, err := v.store.Write(v.elementKey(index), tailRaw); err != nil {
			return zero, err
		}
	}
	if _, _, err := v.store.Remove(v.elementKey(tail)); err != nil {
		return zero, err
	}
	return removed, v.setLen(tail)
}

// Clear removes every element and the persisted length, leaving nothing
// stored under the vector's prefix. This performs one storage operation per
// element.
func (v *Vector[T]) Clear() error {
	length, err := v.Len()
	if err != nil {
		return err
	}
	for i := uint32(0); i < length; i++ {
		if _, _, err := v.store.Remove(v.elementKey(i)); err != nil {
			return err
		}
	}
	_, _, err = v.store.Remove(v.lenKey())
	return err
}

// Iterator returns a fresh traversal over the vector from index 0. Each
// advance performs one storage read. Mutating the vector while an iteration
// is outstanding is undefined.
func (v *Vector[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{vec: v}
}
