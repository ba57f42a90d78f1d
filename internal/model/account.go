package model

import (
	"github.com/shopspring/decimal"
)

// Account represents a bank account owned by a customer
type Account struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	CustomerID    int64           `json:"customerId"`
	Balance       decimal.Decimal `json:"balance"`
}

func (a Account) RecordID() int64 { return a.ID }

// AccountRequest is the account form. Balance is only honoured on create;
// afterwards the balance moves through transactions alone.
type AccountRequest struct {
	AccountNumber string           `json:"accountNumber" validate:"required"`
	CustomerID    int64            `json:"customerId" validate:"required"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
}

// Validate validates the account form
func (r *AccountRequest) Validate() error {
	return validateStruct(r)
}

// OpeningBalance returns the caller-supplied balance, or zero when absent.
func (r *AccountRequest) OpeningBalance() decimal.Decimal {
	if r.Balance == nil {
		return decimal.Zero
	}
	return *r.Balance
}
