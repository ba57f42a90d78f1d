package repository

import (
	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/model"
)

// NewATMCardRecords creates the ATM card record store
func NewATMCardRecords(store kvstore.Store) *Records[model.ATMCard] {
	return NewRecords(NewCollection[model.ATMCard](store, KeyATMCards))
}

// CardNumberTaken reports whether number belongs to a card other than excludeID.
func CardNumberTaken(cards []model.ATMCard, number string, excludeID int64) bool {
	return IsDuplicate(cards, func(c model.ATMCard) string { return c.CardNumber }, number, excludeID)
}
