// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collections

// Gas measures metered storage cost.
type Gas uint64

// Per-operation base costs plus a per-byte cost on keys and written values.
// The absolute numbers only need to make larger transfers cost more; they
// are not calibrated to any particular host.
const (
	readBaseCost   Gas = 50
	writeBaseCost  Gas = 100
	removeBaseCost Gas = 100
	hasBaseCost    Gas = 30
	byteCost       Gas = 1
)

var _ ByteStore = (*MeteredStore)(nil)

// MeteredStore charges every storage operation against a fixed budget,
// modeling a host-side execution limit. Once the budget is exhausted the
// failing operation is not performed, but operations already performed stay
// performed: there is no rollback, so a multi-step collection operation cut
// short mid-way can leave its cross-region invariants violated. That is a
// property of the metering model, not of the collections.
type MeteredStore struct {
	inner  ByteStore
	budget Gas
	spent  Gas
}

// NewMeteredStore wraps [inner] with a spending limit of [budget].
func NewMeteredStore(inner ByteStore, budget Gas) *MeteredStore {
	return &MeteredStore{
		inner:  inner,
		budget: budget,
	}
}

// Spent returns the gas consumed so far.
func (s *MeteredStore) Spent() Gas {
	return s.spent
}

func (s *MeteredStore) charge(amount Gas) error {
	if s.spent+amount > s.budget {
		s.spent = s.budget
		return ErrBudgetExhausted
	}
	s.spent += amount
	return nil
}

func (s *MeteredStore) Read(key []byte) ([]byte, bool, error) {
	if err := s.charge(readBaseCost + Gas(len(key))*byteCost); err != nil {
		return nil, false, err
	}
	return s.inner.Read(key)
}

func (s *MeteredStore) Write(key []byte, value []byte) (bool, error) {
	if err := s.charge(writeBaseCost + Gas(len(key)+len(value))*byteCost); err != nil {
		return false, err
	}
	return s.inner.Write(key, value)
}

func (s *MeteredStore) Remove(key []byte) ([]byte, bool, error) {
	if err := s.charge(removeBaseCost + Gas(len(key))*byteCost); err != nil {
		return nil, false, err
	}
	return s.inner.Remove(key)
}

func (s *MeteredStore) Has(key []byte) (bool, error) {
	if err := s.charge(hasBaseCost + Gas(len(key))*byteCost); err != nil {
		return false, err
	}
	return s.inner.Has(key)
}
