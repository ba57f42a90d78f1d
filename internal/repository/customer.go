package repository

import (
	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/model"
)

// NewCustomerRecords creates the customer record store
func NewCustomerRecords(store kvstore.Store) *Records[model.Customer] {
	return NewRecords(NewCollection[model.Customer](store, KeyCustomers))
}
