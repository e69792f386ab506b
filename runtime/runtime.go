// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"errors"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"

	"github.com/ava-labs/contractkv/collections"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	contractStatePrefix  = []byte("state")

	isInitializedKey = []byte{0}

	errNotInitialized = errors.New("contract state is not initialized")
)

// Context carries the per-call execution environment handed to contract
// code: a metered view of the contract's storage region and the codec its
// collections serialize with.
type Context struct {
	Store collections.ByteStore
	Codec collections.Codec

	meter *collections.MeteredStore
}

// GasUsed returns the storage gas spent by the call so far.
func (ctx *Context) GasUsed() collections.Gas {
	return ctx.meter.Spent()
}

// Runtime executes contract calls one at a time against a versioned view of
// the underlying database. Each call runs to completion synchronously: on
// success its writes are committed to the base database, on failure they are
// abandoned wholesale. Within a call there is no rollback; a call that is
// cut short by the gas budget fails as a unit.
type Runtime struct {
	log      log.Logger
	baseDB   *versiondb.Database
	stateDB  database.Database
	single   database.Database
	codec    collections.Codec
	gasLimit collections.Gas
}

// New returns a runtime over [db]. Every call is metered against
// [gasLimit].
func New(db database.Database, gasLimit collections.Gas) *Runtime {
	baseDB := versiondb.New(db)
	return &Runtime{
		log:      log.New("module", "runtime"),
		baseDB:   baseDB,
		stateDB:  prefixdb.New(contractStatePrefix, baseDB),
		single:   prefixdb.New(singletonStatePrefix, baseDB),
		codec:    collections.NewCodec(),
		gasLimit: gasLimit,
	}
}

// Codec returns the codec contract collections serialize with.
func (rt *Runtime) Codec() collections.Codec {
	return rt.codec
}

// IsInitialized reports whether Initialize has completed before, possibly in
// an earlier process over the same database.
func (rt *Runtime) IsInitialized() (bool, error) {
	return rt.single.Has(isInitializedKey)
}

// Initialize runs [fn] once over the lifetime of the database. If the state
// was initialized by an earlier run this is a no-op.
func (rt *Runtime) Initialize(fn func(*Context) error) error {
	initialized, err := rt.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}
	if err := rt.call("initialize", fn); err != nil {
		return err
	}
	if err := rt.single.Put(isInitializedKey, nil); err != nil {
		return err
	}
	return rt.baseDB.Commit()
}

// Call executes [fn] as one contract invocation. Committed iff fn returns
// nil.
func (rt *Runtime) Call(method string, fn func(*Context) error) error {
	initialized, err := rt.IsInitialized()
	if err != nil {
		return err
	}
	if !initialized {
		return errNotInitialized
	}
	if err := rt.call(method, fn); err != nil {
		return err
	}
	return rt.baseDB.Commit()
}

func (rt *Runtime) call(method string, fn func(*Context) error) error {
	meter := collections.NewMeteredStore(collections.NewDatabaseStore(rt.stateDB), rt.gasLimit)
	ctx := &Context{
		Store: meter,
		Codec: rt.codec,
		meter: meter,
	}
	if err := fn(ctx); err != nil {
		rt.baseDB.Abort()
		rt.log.Error("contract call failed", "method", method, "gasUsed", uint64(ctx.GasUsed()), "error", err)
		return err
	}
	rt.log.Debug("contract call complete", "method", method, "gasUsed", uint64(ctx.GasUsed()))
	return nil
}

// Close closes the underlying base database.
func (rt *Runtime) Close() error {
	return rt.baseDB.Close()
}
