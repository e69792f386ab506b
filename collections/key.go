// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import (
	"github.com/ava-labs/avalanchego/utils/hashing"
)

var (
	_ KeyComposer = (*IdentityComposer)(nil)
	_ KeyComposer = (*Sha256Composer)(nil)
)

// KeyComposer folds a collection prefix and a serialized logical key into a
// physical storage key. The prefix is the collection's identity within the
// contract's flat storage namespace; two collections instantiated with
// colliding prefixes silently corrupt each other, and nothing below this
// layer can detect that.
type KeyComposer interface {
	Compose(prefix []byte, key []byte) []byte
}

// IdentityComposer appends the serialized key to the prefix unchanged.
// Storage keys grow with the logical key, so callers with unbounded key sizes
// should prefer Sha256Composer.
type IdentityComposer struct{}

func (IdentityComposer) Compose(prefix []byte, key []byte) []byte {
	composed := make([]byte, 0, len(prefix)+len(key))
	composed = append(composed, prefix...)
	return append(composed, key...)
}

// Sha256Composer appends the sha256 digest of the serialized key, bounding
// the physical key length regardless of logical key size. A digest collision
// would alias two logical keys onto one slot; the hash's strength is relied
// on to make that negligible.
type Sha256Composer struct{}

func (Sha256Composer) Compose(prefix []byte, key []byte) []byte {
	digest := hashing.ComputeHash256(key)
	composed := make([]byte, 0, len(prefix)+len(digest))
	composed = append(composed, prefix...)
	return append(composed, digest...)
}
