// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

import (
	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const codecVersion = 0

var _ Codec = (*LinearCodec)(nil)

// Codec translates collection elements to and from the length-prefixed byte
// blobs held in storage. Implementations must round-trip: for every supported
// value x, Unmarshal(Marshal(x)) yields a value equal to x. The collections
// depend on this law; a codec that breaks it silently corrupts state.
type Codec interface {
	Marshal(source interface{}) ([]byte, error)
	Unmarshal(bytes []byte, dest interface{}) error
}

// LinearCodec is the default Codec, a fixed-width binary encoding.
type LinearCodec struct {
	c       linearcodec.Codec
	manager codec.Manager
}

// NewCodec returns the default fixed-width binary codec.
func NewCodec() *LinearCodec {
	c := linearcodec.NewDefault()
	manager := codec.NewDefaultManager()

	errs := wrappers.Errs{}
	errs.Add(
		manager.RegisterCodec(codecVersion, c),
	)
	if errs.Errored() {
		panic(errs.Err)
	}

	return &LinearCodec{
		c:       c,
		manager: manager,
	}
}

// RegisterType registers an implementation of an interface-typed field so the
// codec can reconstruct it on decode. Concrete struct and scalar types need
// no registration.
func (lc *LinearCodec) RegisterType(v interface{}) error {
	return lc.c.RegisterType(v)
}

func (lc *LinearCodec) Marshal(source interface{}) ([]byte, error) {
	return lc.manager.Marshal(codecVersion, source)
}

func (lc *LinearCodec) Unmarshal(bytes []byte, dest interface{}) error {
	_, err := lc.manager.Unmarshal(bytes, dest)
	return err
}
