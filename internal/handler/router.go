package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bank-records-api/internal/model"
	"bank-records-api/internal/repository"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health       *HealthHandler
	Customers    *CustomerHandler
	Accounts     *AccountHandler
	Cards        *ATMCardHandler
	Transactions *TransactionHandler
	Idempotency  *repository.IdempotencyRepository
}

// NewRouter wires the HTTP routes and middleware.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusNotFound, "Route not found", model.ErrCodeNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", model.ErrCodeInvalidInput)
	})

	// Health check endpoint
	r.Method(http.MethodGet, "/healthz", h.Health)

	r.Route("/v1", func(r chi.Router) {
		if h.Idempotency != nil {
			r.Use(Idempotency(h.Idempotency, logger))
		}

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.Customers.ListCustomers)
			r.Post("/", h.Customers.CreateCustomer)
			r.Get("/{id}", h.Customers.GetCustomer)
			r.Put("/{id}", h.Customers.UpdateCustomer)
			r.Delete("/{id}", h.Customers.DeleteCustomer)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.Accounts.ListAccounts)
			r.Post("/", h.Accounts.CreateAccount)
			r.Get("/{id}", h.Accounts.GetAccount)
			r.Put("/{id}", h.Accounts.UpdateAccount)
			r.Delete("/{id}", h.Accounts.DeleteAccount)
		})

		r.Route("/atm-cards", func(r chi.Router) {
			r.Get("/", h.Cards.ListCards)
			r.Post("/", h.Cards.CreateCard)
			r.Get("/{id}", h.Cards.GetCard)
			r.Put("/{id}", h.Cards.UpdateCard)
			r.Delete("/{id}", h.Cards.DeleteCard)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.Transactions.ListTransactions)
			r.Post("/", h.Transactions.CreateTransaction)
			r.Get("/{id}", h.Transactions.GetTransaction)
			r.Put("/{id}", h.Transactions.UpdateTransaction)
			r.Delete("/{id}", h.Transactions.DeleteTransaction)
			r.Post("/{id}/reverse", h.Transactions.ReverseTransaction)
		})
	})

	return r
}
