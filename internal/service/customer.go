package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bank-records-api/internal/model"
	"bank-records-api/internal/repository"
)

// CustomerService handles the customer screen
type CustomerService struct {
	session *Session
	logger  *slog.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(session *Session, logger *slog.Logger) *CustomerService {
	return &CustomerService{session: session, logger: logger}
}

// List returns every customer in stored order
func (s *CustomerService) List(ctx context.Context) []model.Customer {
	defer s.session.lock()()
	return s.session.Customers.List()
}

// Get retrieves a customer by ID
func (s *CustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	defer s.session.lock()()

	c, ok := s.session.Customers.Get(id)
	if !ok {
		return nil, notFound("Customer not found")
	}
	return &c, nil
}

// Create validates the form and stores a new customer
func (s *CustomerService) Create(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailure(err)
	}

	defer s.session.lock()()

	c, err := s.session.Customers.Create(ctx, func(id int64) model.Customer {
		return model.Customer{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created", "customer_id", c.ID)
	return &c, nil
}

// Update replaces the customer's fields in place
func (s *CustomerService) Update(ctx context.Context, id int64, req *model.CustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailure(err)
	}

	defer s.session.lock()()

	if _, ok := s.session.Customers.Get(id); !ok {
		return nil, notFound("Customer not found")
	}

	c := model.Customer{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := s.session.Customers.Replace(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.logger.Info("customer updated", "customer_id", id)
	return &c, nil
}

// Delete removes the customer once confirmed
func (s *CustomerService) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	defer s.session.lock()()

	c, ok := s.session.Customers.Get(id)
	if !ok {
		return notFound("Customer not found")
	}

	if !confirmed(confirm, fmt.Sprintf("Are you sure you want to delete %s?", c.Name)) {
		return notConfirmed()
	}

	if err := s.session.Customers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return notFound("Customer not found")
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted", "customer_id", id)
	return nil
}
