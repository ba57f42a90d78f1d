package model

// Customer is a bank customer. Accounts reference it by ID.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (c Customer) RecordID() int64 { return c.ID }

// CustomerRequest is the customer form, used for both create and edit.
type CustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// Validate validates the customer form
func (r *CustomerRequest) Validate() error {
	return validateStruct(r)
}
