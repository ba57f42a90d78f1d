package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"bank-records-api/internal/model"
	"bank-records-api/internal/repository"
)

// BalanceResult reports what a balance mutation did. When the ATM card or
// its account cannot be resolved nothing is applied and Warning says why.
type BalanceResult struct {
	Applied bool
	Change  *model.BalanceChange
	Warning string
}

// BalanceEngine applies signed transaction amounts to account balances.
// Callers must hold the session lock.
type BalanceEngine struct {
	cards    *repository.Records[model.ATMCard]
	accounts *repository.Records[model.Account]
	logger   *slog.Logger
}

func NewBalanceEngine(session *Session, logger *slog.Logger) *BalanceEngine {
	return &BalanceEngine{cards: session.Cards, accounts: session.Accounts, logger: logger}
}

// ApplyDelta resolves the card to its account and credits or debits amount.
// A dangling card or account reference is not an error: the balance is left
// alone and the result carries a warning. The only errors returned come from
// persisting the account collection.
func (e *BalanceEngine) ApplyDelta(ctx context.Context, atmCardID int64, amount decimal.Decimal, direction model.Direction) (BalanceResult, error) {
	card, ok := e.cards.Get(atmCardID)
	if !ok {
		return e.dangling("ATM card %d not found; balance not updated", "atm_card_id", atmCardID), nil
	}

	account, ok := e.accounts.Get(card.AccountID)
	if !ok {
		return e.dangling("account %d for ATM card %d not found; balance not updated", "account_id", card.AccountID, atmCardID), nil
	}

	// The zero Decimal is 0, so an account stored without a balance starts there.
	switch direction {
	case model.DirectionCredit:
		account.Balance = account.Balance.Add(amount)
	case model.DirectionDebit:
		account.Balance = account.Balance.Sub(amount)
	default:
		return BalanceResult{}, fmt.Errorf("unknown balance direction %q", direction)
	}

	if err := e.accounts.Replace(ctx, account); err != nil {
		return BalanceResult{}, fmt.Errorf("failed to update account balance: %w", err)
	}

	e.logger.Debug("balance updated",
		"account_id", account.ID,
		"direction", direction,
		"amount", amount.String(),
		"balance", account.Balance.String(),
	)

	return BalanceResult{
		Applied: true,
		Change: &model.BalanceChange{
			AccountID: account.ID,
			Direction: direction,
			Amount:    amount,
			Balance:   account.Balance,
		},
	}, nil
}

func (e *BalanceEngine) dangling(format string, attr string, ids ...any) BalanceResult {
	msg := fmt.Sprintf(format, ids...)
	e.logger.Warn("dangling reference during balance update", attr, ids[0], "detail", msg)
	return BalanceResult{Warning: msg}
}
