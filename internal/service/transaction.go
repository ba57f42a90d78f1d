package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"bank-records-api/internal/model"
	"bank-records-api/internal/repository"
)

// TransactionService handles the transaction screen: append-only booking,
// reversal and deletion of history entries.
type TransactionService struct {
	session *Session
	engine  *BalanceEngine
	logger  *slog.Logger
	now     func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(session *Session, engine *BalanceEngine, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		session: session,
		engine:  engine,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns every transaction with its reversal state
func (s *TransactionService) List(ctx context.Context) []model.TransactionView {
	defer s.session.lock()()

	txns := s.session.Transactions.List()
	views := make([]model.TransactionView, 0, len(txns))
	for _, t := range txns {
		views = append(views, s.session.Reversed.View(t))
	}
	return views
}

// Get retrieves a transaction by ID
func (s *TransactionService) Get(ctx context.Context, id int64) (*model.TransactionView, error) {
	defer s.session.lock()()

	t, ok := s.session.Transactions.Get(id)
	if !ok {
		return nil, notFound("Transaction not found")
	}
	view := s.session.Reversed.View(t)
	return &view, nil
}

// Submit books a new transaction. Deposits credit and withdrawals debit the
// account behind the ATM card; a submitted reversal is recorded with no
// balance effect.
func (s *TransactionService) Submit(ctx context.Context, req *model.TransactionRequest) (*model.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailure(err)
	}

	defer s.session.lock()()

	txn, err := s.book(ctx, req.ATMCardID, req.Type, req.Amount)
	if err != nil {
		return nil, err
	}

	resp := &model.TransactionResponse{Transaction: s.session.Reversed.View(txn)}

	if direction, ok := txn.Type.Direction(); ok {
		result, err := s.engine.ApplyDelta(ctx, txn.ATMCardID, txn.Amount, direction)
		if err != nil {
			s.discard(ctx, txn.ID)
			return nil, err
		}
		resp.Balance = result.Change
		if result.Warning != "" {
			resp.Warnings = append(resp.Warnings, result.Warning)
		}
	}

	s.logger.Info("transaction booked",
		"transaction_id", txn.ID,
		"type", txn.Type,
		"amount", txn.Amount.String(),
		"atm_card_id", txn.ATMCardID,
	)
	return resp, nil
}

// Update always fails: booked transactions already moved a balance and
// cannot be edited.
func (s *TransactionService) Update(ctx context.Context, id int64, req *model.TransactionRequest) (*model.TransactionView, error) {
	defer s.session.lock()()

	if _, ok := s.session.Transactions.Get(id); !ok {
		return nil, notFound("Transaction not found")
	}
	return nil, unsupported("Editing a transaction is not supported.")
}

// Reverse books a reversal of a deposit or withdrawal and undoes its balance
// effect. The original record stays as it was and is only marked reversed.
func (s *TransactionService) Reverse(ctx context.Context, id int64, confirm Confirmer) (*model.ReversalResponse, error) {
	defer s.session.lock()()

	original, ok := s.session.Transactions.Get(id)
	if !ok {
		return nil, notFound("Transaction not found")
	}

	if !original.Reversible() {
		return nil, unsupported("Only deposit and withdrawal transactions can be reversed.")
	}

	if s.session.Reversed.Has(original.ID) {
		return nil, conflict("This transaction has already been reversed.")
	}

	if !confirmed(confirm, "Are you sure you want to reverse this transaction?") {
		return nil, notConfirmed()
	}

	reversal, err := s.book(ctx, original.ATMCardID, model.TransactionTypeReversal, original.Amount)
	if err != nil {
		return nil, err
	}

	if err := s.session.Reversed.Add(ctx, original.ID); err != nil {
		s.discard(ctx, reversal.ID)
		return nil, fmt.Errorf("failed to mark transaction reversed: %w", err)
	}

	direction, _ := original.Type.Direction()
	result, err := s.engine.ApplyDelta(ctx, original.ATMCardID, original.Amount, direction.Opposite())
	if err != nil {
		if rerr := s.session.Reversed.Remove(ctx, original.ID); rerr != nil {
			s.logger.Error("failed to clear reversed mark", "transaction_id", original.ID, "error", rerr)
		}
		s.discard(ctx, reversal.ID)
		return nil, err
	}

	resp := &model.ReversalResponse{
		Original: s.session.Reversed.View(original),
		Reversal: s.session.Reversed.View(reversal),
		Balance:  result.Change,
	}
	if result.Warning != "" {
		resp.Warnings = append(resp.Warnings, result.Warning)
	}

	s.logger.Info("transaction reversed",
		"transaction_id", original.ID,
		"reversal_id", reversal.ID,
		"amount", original.Amount.String(),
	)
	return resp, nil
}

// Delete removes a transaction from history once confirmed. Balances are
// not touched.
func (s *TransactionService) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	defer s.session.lock()()

	if _, ok := s.session.Transactions.Get(id); !ok {
		return notFound("Transaction not found")
	}

	if !confirmed(confirm, "Are you sure you want to delete this transaction?") {
		return notConfirmed()
	}

	if err := s.session.Transactions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return notFound("Transaction not found")
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if err := s.session.Reversed.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to clear reversed mark: %w", err)
	}

	s.logger.Info("transaction deleted", "transaction_id", id)
	return nil
}

func (s *TransactionService) book(ctx context.Context, atmCardID int64, typ model.TransactionType, amount decimal.Decimal) (model.Transaction, error) {
	txn, err := s.session.Transactions.Create(ctx, func(id int64) model.Transaction {
		return model.Transaction{
			ID:        id,
			ATMCardID: atmCardID,
			Type:      typ,
			Amount:    amount,
			Date:      s.now(),
		}
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

// discard drops a transaction whose follow-up write failed.
func (s *TransactionService) discard(ctx context.Context, id int64) {
	if err := s.session.Transactions.Delete(ctx, id); err != nil {
		s.logger.Error("failed to discard transaction", "transaction_id", id, "error", err)
	}
}
