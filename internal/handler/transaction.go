package handler

import (
	"log/slog"
	"net/http"

	"bank-records-api/internal/model"
	"bank-records-api/internal/service"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, logger: logger}
}

// ListTransactions handles GET /v1/transactions
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newListResponse(h.transactionService.List(r.Context())))
}

// GetTransaction handles GET /v1/transactions/{id}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	transaction, err := h.transactionService.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST /v1/transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req model.TransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	response, err := h.transactionService.Submit(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// UpdateTransaction handles PUT /v1/transactions/{id}. Booked transactions
// are immutable, so this only ever reports why.
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	_, err := h.transactionService.Update(r.Context(), id, nil)
	handleServiceError(w, h.logger, err)
}

// ReverseTransaction handles POST /v1/transactions/{id}/reverse
func (h *TransactionHandler) ReverseTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	response, err := h.transactionService.Reverse(r.Context(), id, requestConfirmer(r))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// DeleteTransaction handles DELETE /v1/transactions/{id}
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.transactionService.Delete(r.Context(), id, requestConfirmer(r)); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
