package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         *CustomerRequest
		shouldError bool
		field       string
	}{
		{
			name: "valid customer",
			req:  &CustomerRequest{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"},
		},
		{
			name:        "missing name",
			req:         &CustomerRequest{Email: "ada@example.com", Phone: "555-0100"},
			shouldError: true,
			field:       "name",
		},
		{
			name:        "malformed email",
			req:         &CustomerRequest{Name: "Ada", Email: "not-an-email", Phone: "555-0100"},
			shouldError: true,
			field:       "email",
		},
		{
			name:        "missing phone",
			req:         &CustomerRequest{Name: "Ada", Email: "ada@example.com"},
			shouldError: true,
			field:       "phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if !tt.shouldError {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestAccountRequest_Validate(t *testing.T) {
	assert.NoError(t, (&AccountRequest{AccountNumber: "ACC-1", CustomerID: 1}).Validate())

	err := (&AccountRequest{CustomerID: 1}).Validate()
	assert.EqualError(t, err, "accountNumber is required")

	err = (&AccountRequest{AccountNumber: "ACC-1"}).Validate()
	assert.EqualError(t, err, "customerId is required")
}

func TestAccountRequest_OpeningBalance(t *testing.T) {
	assert.True(t, (&AccountRequest{}).OpeningBalance().IsZero())

	b := decimal.NewFromInt(100)
	assert.True(t, (&AccountRequest{Balance: &b}).OpeningBalance().Equal(b))
}

func TestATMCardRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ATMCardRequest{CardNumber: "4000-0001", AccountID: 1}).Validate())
	assert.EqualError(t, (&ATMCardRequest{AccountID: 1}).Validate(), "cardNumber is required")
	assert.EqualError(t, (&ATMCardRequest{CardNumber: "4000-0001"}).Validate(), "accountId is required")
}

func TestTransactionRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         *TransactionRequest
		shouldError bool
		errorMsg    string
	}{
		{
			name: "valid deposit",
			req:  &TransactionRequest{ATMCardID: 1, Type: TransactionTypeDeposit, Amount: decimal.NewFromInt(50)},
		},
		{
			name: "valid fractional withdrawal",
			req:  &TransactionRequest{ATMCardID: 1, Type: TransactionTypeWithdrawal, Amount: decimal.RequireFromString("0.25")},
		},
		{
			name:        "missing card",
			req:         &TransactionRequest{Type: TransactionTypeDeposit, Amount: decimal.NewFromInt(50)},
			shouldError: true,
			errorMsg:    "atmCardId is required",
		},
		{
			name:        "missing type",
			req:         &TransactionRequest{ATMCardID: 1, Amount: decimal.NewFromInt(50)},
			shouldError: true,
			errorMsg:    "type is required",
		},
		{
			name:        "unknown type",
			req:         &TransactionRequest{ATMCardID: 1, Type: "transfer", Amount: decimal.NewFromInt(50)},
			shouldError: true,
			errorMsg:    "type must be one of",
		},
		{
			name:        "zero amount",
			req:         &TransactionRequest{ATMCardID: 1, Type: TransactionTypeDeposit, Amount: decimal.Zero},
			shouldError: true,
			errorMsg:    "amount must be positive",
		},
		{
			name:        "negative amount",
			req:         &TransactionRequest{ATMCardID: 1, Type: TransactionTypeDeposit, Amount: decimal.NewFromInt(-5)},
			shouldError: true,
			errorMsg:    "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if tt.shouldError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionType_Direction(t *testing.T) {
	d, ok := TransactionTypeDeposit.Direction()
	assert.True(t, ok)
	assert.Equal(t, DirectionCredit, d)

	d, ok = TransactionTypeWithdrawal.Direction()
	assert.True(t, ok)
	assert.Equal(t, DirectionDebit, d)

	_, ok = TransactionTypeReversal.Direction()
	assert.False(t, ok)

	assert.Equal(t, DirectionDebit, DirectionCredit.Opposite())
	assert.Equal(t, DirectionCredit, DirectionDebit.Opposite())
}

func TestTransaction_Reversible(t *testing.T) {
	assert.True(t, Transaction{Type: TransactionTypeDeposit}.Reversible())
	assert.True(t, Transaction{Type: TransactionTypeWithdrawal}.Reversible())
	assert.False(t, Transaction{Type: TransactionTypeReversal}.Reversible())
}

func TestTransactionView_OmitsReversedWhenFalse(t *testing.T) {
	view := TransactionView{Transaction: Transaction{
		ID:        1,
		ATMCardID: 1,
		Type:      TransactionTypeDeposit,
		Amount:    decimal.NewFromInt(50),
		Date:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}

	b, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "reversed")
	assert.Contains(t, string(b), `"type":"deposit"`)

	view.Reversed = true
	b, err = json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"reversed":true`)
}
