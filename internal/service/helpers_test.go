package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/model"
)

type fixture struct {
	store        *switchableStore
	session      *Session
	customers    *CustomerService
	accounts     *AccountService
	cards        *ATMCardService
	engine       *BalanceEngine
	transactions *TransactionService
	logs         *bytes.Buffer
}

// switchableStore fails writes to the keys listed in failKeys.
type switchableStore struct {
	*kvstore.MemoryStore
	failKeys map[string]bool
}

func (s *switchableStore) Set(ctx context.Context, key, value string) error {
	if s.failKeys[key] {
		return errors.New("write refused")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := &switchableStore{MemoryStore: kvstore.NewMemoryStore(), failKeys: map[string]bool{}}
	session, err := OpenSession(context.Background(), store)
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine := NewBalanceEngine(session, logger)
	txns := NewTransactionService(session, engine, logger)
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	txns.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	return &fixture{
		store:        store,
		session:      session,
		customers:    NewCustomerService(session, logger),
		accounts:     NewAccountService(session, logger),
		cards:        NewATMCardService(session, logger),
		engine:       engine,
		transactions: txns,
		logs:         logs,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// seedCard creates a customer, an account with the given balance and a card
// mapped onto it, returning the account and card IDs.
func (f *fixture) seedCard(t *testing.T, accountNumber, cardNumber, balance string) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	c, err := f.customers.Create(ctx, &model.CustomerRequest{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"})
	require.NoError(t, err)

	a, err := f.accounts.Create(ctx, &model.AccountRequest{AccountNumber: accountNumber, CustomerID: c.ID, Balance: decPtr(balance)})
	require.NoError(t, err)

	card, err := f.cards.Create(ctx, &model.ATMCardRequest{CardNumber: cardNumber, AccountID: a.ID})
	require.NoError(t, err)

	return a.ID, card.ID
}

func (f *fixture) balance(t *testing.T, accountID int64) decimal.Decimal {
	t.Helper()
	a, err := f.accounts.Get(context.Background(), accountID)
	require.NoError(t, err)
	return a.Balance
}

func serviceCode(t *testing.T, err error) string {
	t.Helper()
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	return se.Code
}
