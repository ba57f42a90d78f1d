package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bank-records-api/internal/model"
	"bank-records-api/internal/repository"
)

// AccountService handles the account screen
type AccountService struct {
	session *Session
	logger  *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(session *Session, logger *slog.Logger) *AccountService {
	return &AccountService{session: session, logger: logger}
}

// List returns every account in stored order
func (s *AccountService) List(ctx context.Context) []model.Account {
	defer s.session.lock()()
	return s.session.Accounts.List()
}

// Get retrieves an account by ID
func (s *AccountService) Get(ctx context.Context, id int64) (*model.Account, error) {
	defer s.session.lock()()

	a, ok := s.session.Accounts.Get(id)
	if !ok {
		return nil, notFound("Account not found")
	}
	return &a, nil
}

// Create opens an account with the caller-supplied opening balance
func (s *AccountService) Create(ctx context.Context, req *model.AccountRequest) (*model.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailure(err)
	}

	defer s.session.lock()()

	if repository.AccountNumberTaken(s.session.Accounts.List(), req.AccountNumber, 0) {
		return nil, conflict("This account number is already assigned.")
	}

	a, err := s.session.Accounts.Create(ctx, func(id int64) model.Account {
		return model.Account{
			ID:            id,
			AccountNumber: req.AccountNumber,
			CustomerID:    req.CustomerID,
			Balance:       req.OpeningBalance(),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if _, ok := s.session.Customers.Get(a.CustomerID); !ok {
		s.logger.Warn("account references unknown customer", "account_id", a.ID, "customer_id", a.CustomerID)
	}

	s.logger.Info("account created", "account_id", a.ID, "balance", a.Balance.String())
	return &a, nil
}

// Update changes the account number and owner. The stored balance is kept.
func (s *AccountService) Update(ctx context.Context, id int64, req *model.AccountRequest) (*model.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailure(err)
	}

	defer s.session.lock()()

	existing, ok := s.session.Accounts.Get(id)
	if !ok {
		return nil, notFound("Account not found")
	}

	if repository.AccountNumberTaken(s.session.Accounts.List(), req.AccountNumber, id) {
		return nil, conflict("This account number is already assigned.")
	}

	if req.Balance != nil && !req.Balance.Equal(existing.Balance) {
		s.logger.Debug("ignoring balance on account edit", "account_id", id)
	}

	a := model.Account{
		ID:            id,
		AccountNumber: req.AccountNumber,
		CustomerID:    req.CustomerID,
		Balance:       existing.Balance,
	}
	if err := s.session.Accounts.Replace(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.logger.Info("account updated", "account_id", id)
	return &a, nil
}

// Delete removes the account once confirmed
func (s *AccountService) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	defer s.session.lock()()

	if _, ok := s.session.Accounts.Get(id); !ok {
		return notFound("Account not found")
	}

	if !confirmed(confirm, "Are you sure you want to delete this account?") {
		return notConfirmed()
	}

	if err := s.session.Accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return notFound("Account not found")
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.logger.Info("account deleted", "account_id", id)
	return nil
}
