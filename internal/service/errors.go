package service

import (
	"errors"

	"bank-records-api/internal/model"
)

// ServiceError represents a service-level error
type ServiceError struct {
	Code    string
	Message string
	Field   string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func notFound(message string) *ServiceError {
	return &ServiceError{Code: model.ErrCodeNotFound, Message: message}
}

func conflict(message string) *ServiceError {
	return &ServiceError{Code: model.ErrCodeConflict, Message: message}
}

func unsupported(message string) *ServiceError {
	return &ServiceError{Code: model.ErrCodeUnsupported, Message: message}
}

func notConfirmed() *ServiceError {
	return &ServiceError{Code: model.ErrCodeNotConfirmed, Message: "Operation was not confirmed"}
}

// validationFailure converts form validation output into a ServiceError.
func validationFailure(err error) error {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return &ServiceError{
			Code:    model.ErrCodeValidation,
			Message: ve.Message,
			Field:   ve.Field,
		}
	}
	return err
}

// Confirmer is the yes/no prompt consulted before destructive operations.
// A false answer aborts the operation with no side effects.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Fixed answers, mostly useful in tests and non-interactive callers.
var (
	AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
	NeverConfirm  Confirmer = ConfirmFunc(func(string) bool { return false })
)

func confirmed(c Confirmer, prompt string) bool {
	return c != nil && c.Confirm(prompt)
}
