package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of a booked transaction
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeReversal   TransactionType = "reversal"
)

// Direction is the sign a transaction applies to an account balance
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Direction returns the balance direction of t. Reversal records carry no
// direction of their own.
func (t TransactionType) Direction() (Direction, bool) {
	switch t {
	case TransactionTypeDeposit:
		return DirectionCredit, true
	case TransactionTypeWithdrawal:
		return DirectionDebit, true
	default:
		return "", false
	}
}

// Opposite returns the direction that undoes d.
func (d Direction) Opposite() Direction {
	if d == DirectionCredit {
		return DirectionDebit
	}
	return DirectionCredit
}

// Transaction is an immutable entry in the transaction history. Whether it
// has been reversed is tracked separately, by ID.
type Transaction struct {
	ID        int64           `json:"id"`
	ATMCardID int64           `json:"atmCardId"`
	Type      TransactionType `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
}

func (t Transaction) RecordID() int64 { return t.ID }

// Reversible reports whether a reversal may be booked against t.
func (t Transaction) Reversible() bool {
	_, ok := t.Type.Direction()
	return ok
}

// TransactionView is a transaction together with its reversal state
type TransactionView struct {
	Transaction
	Reversed bool `json:"reversed,omitempty"`
}

// TransactionRequest is the transaction form
type TransactionRequest struct {
	ATMCardID int64           `json:"atmCardId" validate:"required"`
	Type      TransactionType `json:"type" validate:"required,oneof=deposit withdrawal reversal"`
	Amount    decimal.Decimal `json:"amount"`
}

// Validate validates the transaction form
func (r *TransactionRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}

	if !r.Amount.IsPositive() {
		return &ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		}
	}

	return nil
}

// TransactionResponse is returned after a transaction is booked
type TransactionResponse struct {
	Transaction TransactionView `json:"transaction"`
	Balance     *BalanceChange  `json:"balance,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// ReversalResponse is returned after a transaction is reversed
type ReversalResponse struct {
	Original TransactionView `json:"original"`
	Reversal TransactionView `json:"reversal"`
	Balance  *BalanceChange  `json:"balance,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// BalanceChange describes a balance mutation that was applied to an account
type BalanceChange struct {
	AccountID int64           `json:"accountId"`
	Direction Direction       `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
}
