package repository

import (
	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/model"
)

// NewAccountRecords creates the account record store
func NewAccountRecords(store kvstore.Store) *Records[model.Account] {
	return NewRecords(NewCollection[model.Account](store, KeyAccounts))
}

// AccountNumberTaken reports whether number belongs to an account other than excludeID.
func AccountNumberTaken(accounts []model.Account, number string, excludeID int64) bool {
	return IsDuplicate(accounts, func(a model.Account) string { return a.AccountNumber }, number, excludeID)
}
