package service

import (
	"context"
	"sync"

	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/model"
	"bank-records-api/internal/repository"
)

// Session owns the loaded collections shared by every controller. All
// operations run one at a time under its lock, read the in-memory
// collections, mutate them and write the affected collections back.
//
// Two sessions over the same store do not see each other's writes.
type Session struct {
	mu sync.Mutex

	Customers    *repository.Records[model.Customer]
	Accounts     *repository.Records[model.Account]
	Cards        *repository.Records[model.ATMCard]
	Transactions *repository.Records[model.Transaction]
	Reversed     *repository.ReversalSet
}

// OpenSession loads every collection from store.
func OpenSession(ctx context.Context, store kvstore.Store) (*Session, error) {
	s := &Session{
		Customers:    repository.NewCustomerRecords(store),
		Accounts:     repository.NewAccountRecords(store),
		Cards:        repository.NewATMCardRecords(store),
		Transactions: repository.NewTransactionRecords(store),
		Reversed:     repository.NewReversalSet(store),
	}

	loaders := []interface {
		Load(context.Context) error
	}{s.Customers, s.Accounts, s.Cards, s.Transactions, s.Reversed}

	for _, l := range loaders {
		if err := l.Load(ctx); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Session) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}
