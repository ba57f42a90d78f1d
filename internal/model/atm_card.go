package model

// ATMCard maps a card number onto an account.
type ATMCard struct {
	ID         int64  `json:"id"`
	CardNumber string `json:"cardNumber"`
	AccountID  int64  `json:"accountId"`
}

func (c ATMCard) RecordID() int64 { return c.ID }

// ATMCardRequest is the ATM card form
type ATMCardRequest struct {
	CardNumber string `json:"cardNumber" validate:"required"`
	AccountID  int64  `json:"accountId" validate:"required"`
}

// Validate validates the ATM card form
func (r *ATMCardRequest) Validate() error {
	return validateStruct(r)
}
