package repository

import (
	"context"
	"slices"

	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/model"
)

// NewTransactionRecords creates the transaction record store
func NewTransactionRecords(store kvstore.Store) *Records[model.Transaction] {
	return NewRecords(NewCollection[model.Transaction](store, KeyTransactions))
}

// ReversalSet holds the IDs of transactions that have been reversed. It is
// kept apart from the transaction collection so transaction records are
// never rewritten after they are booked.
type ReversalSet struct {
	coll *Collection[int64]
	ids  []int64
}

func NewReversalSet(store kvstore.Store) *ReversalSet {
	return &ReversalSet{
		coll: NewCollection[int64](store, KeyReversedTransactions),
		ids:  []int64{},
	}
}

func (s *ReversalSet) Load(ctx context.Context) error {
	ids, err := s.coll.Load(ctx)
	if err != nil {
		return err
	}
	s.ids = ids
	return nil
}

func (s *ReversalSet) Has(id int64) bool {
	return slices.Contains(s.ids, id)
}

// Add marks id as reversed. Adding an id twice is a no-op.
func (s *ReversalSet) Add(ctx context.Context, id int64) error {
	if s.Has(id) {
		return nil
	}

	prev := s.ids
	s.ids = append(slices.Clone(prev), id)
	if err := s.coll.Save(ctx, s.ids); err != nil {
		s.ids = prev
		return err
	}
	return nil
}

// Remove forgets id, so an identity reused after a delete starts unreversed.
func (s *ReversalSet) Remove(ctx context.Context, id int64) error {
	if !s.Has(id) {
		return nil
	}

	prev := s.ids
	s.ids = slices.DeleteFunc(slices.Clone(prev), func(v int64) bool { return v == id })
	if err := s.coll.Save(ctx, s.ids); err != nil {
		s.ids = prev
		return err
	}
	return nil
}

// View pairs t with its reversal state.
func (s *ReversalSet) View(t model.Transaction) model.TransactionView {
	return model.TransactionView{Transaction: t, Reversed: s.Has(t.ID)}
}
