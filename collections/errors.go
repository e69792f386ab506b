// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import "errors"

var (
	// ErrIndexOutOfRange is returned when an index-based operation is given
	// an index at or beyond the collection's current length. This is a caller
	// logic error; silently clamping the index would mask bugs that corrupt
	// the index-correlation invariant.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrCorruptedValue is returned when stored bytes fail to decode into the
	// expected type. Continuing after a decode failure would risk writing
	// back inconsistent data, so callers must treat this as fatal.
	ErrCorruptedValue = errors.New("stored value failed to decode")

	// ErrInvariantViolation is returned when the cross-region bookkeeping of
	// a collection is found to be inconsistent, e.g. the keys and values
	// arrays of a map disagree on length. There is no way to know which
	// region is authoritative, so this is never repaired in place.
	ErrInvariantViolation = errors.New("collection invariant violated")

	// ErrBudgetExhausted is returned by a metered store once the configured
	// execution budget has been spent.
	ErrBudgetExhausted = errors.New("storage budget exhausted")
)
