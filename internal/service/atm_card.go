package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bank-records-api/internal/model"
	"bank-records-api/internal/repository"
)

// ATMCardService handles the ATM card screen
type ATMCardService struct {
	session *Session
	logger  *slog.Logger
}

func NewATMCardService(session *Session, logger *slog.Logger) *ATMCardService {
	return &ATMCardService{session: session, logger: logger}
}

func (s *ATMCardService) List(ctx context.Context) []model.ATMCard {
	defer s.session.lock()()
	return s.session.Cards.List()
}

func (s *ATMCardService) Get(ctx context.Context, id int64) (*model.ATMCard, error) {
	defer s.session.lock()()

	c, ok := s.session.Cards.Get(id)
	if !ok {
		return nil, notFound("ATM card not found")
	}
	return &c, nil
}

// Create maps a new card number onto an account
func (s *ATMCardService) Create(ctx context.Context, req *model.ATMCardRequest) (*model.ATMCard, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailure(err)
	}

	defer s.session.lock()()

	if repository.CardNumberTaken(s.session.Cards.List(), req.CardNumber, 0) {
		return nil, conflict("This ATM card number is already assigned.")
	}

	c, err := s.session.Cards.Create(ctx, func(id int64) model.ATMCard {
		return model.ATMCard{ID: id, CardNumber: req.CardNumber, AccountID: req.AccountID}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ATM card: %w", err)
	}

	if _, ok := s.session.Accounts.Get(c.AccountID); !ok {
		s.logger.Warn("ATM card references unknown account", "atm_card_id", c.ID, "account_id", c.AccountID)
	}

	s.logger.Info("ATM card created", "atm_card_id", c.ID)
	return &c, nil
}

func (s *ATMCardService) Update(ctx context.Context, id int64, req *model.ATMCardRequest) (*model.ATMCard, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailure(err)
	}

	defer s.session.lock()()

	if _, ok := s.session.Cards.Get(id); !ok {
		return nil, notFound("ATM card not found")
	}

	if repository.CardNumberTaken(s.session.Cards.List(), req.CardNumber, id) {
		return nil, conflict("This ATM card number is already assigned.")
	}

	c := model.ATMCard{ID: id, CardNumber: req.CardNumber, AccountID: req.AccountID}
	if err := s.session.Cards.Replace(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update ATM card: %w", err)
	}

	s.logger.Info("ATM card updated", "atm_card_id", id)
	return &c, nil
}

func (s *ATMCardService) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	defer s.session.lock()()

	if _, ok := s.session.Cards.Get(id); !ok {
		return notFound("ATM card not found")
	}

	if !confirmed(confirm, "Are you sure you want to delete this ATM mapping?") {
		return notConfirmed()
	}

	if err := s.session.Cards.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return notFound("ATM card not found")
		}
		return fmt.Errorf("failed to delete ATM card: %w", err)
	}

	s.logger.Info("ATM card deleted", "atm_card_id", id)
	return nil
}
