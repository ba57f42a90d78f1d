package repository

import "errors"

// Repository errors
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateID    = errors.New("record id already present")
)
